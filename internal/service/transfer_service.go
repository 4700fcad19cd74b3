package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"nursing-home-backend/internal/lock"
	"nursing-home-backend/internal/metrics"
	"nursing-home-backend/internal/models"

	"go.uber.org/zap"
)

// compensationTimeout bounds undo and failure-audit writes that run after
// the request context may already be cancelled.
const compensationTimeout = 10 * time.Second

type TransferService struct {
	store   TransferStore
	audit   AuditRecorder
	locker  lock.Locker
	metrics *metrics.Metrics
	logger  *zap.Logger
	lockTTL time.Duration
	now     func() time.Time
}

func NewTransferService(
	store TransferStore,
	audit AuditRecorder,
	locker lock.Locker,
	m *metrics.Metrics,
	logger *zap.Logger,
	lockTTL time.Duration,
) *TransferService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		store:   store,
		audit:   audit,
		locker:  locker,
		metrics: m,
		logger:  logger,
		lockTTL: lockTTL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// TransferRequest identifies the resident by their current placement and
// names the destination. ActingUserID is the staff member performing it.
type TransferRequest struct {
	CurrentBedID      uint
	CurrentRoomID     uint
	DestinationBedID  uint
	DestinationRoomID uint
	ActingUserID      *uint
}

// TransferResult is what the confirmation screen shows.
type TransferResult struct {
	ResidentID      uint      `json:"resident_id"`
	ResidentName    string    `json:"resident_name"`
	FromRoomNumber  string    `json:"from_room_number"`
	FromBedNumber   string    `json:"from_bed_number"`
	ToRoomNumber    string    `json:"to_room_number"`
	ToBedNumber     string    `json:"to_bed_number"`
	NewAssignmentID uint      `json:"new_assignment_id"`
	TransferredAt   time.Time `json:"transferred_at"`
}

// TransferOptions is the eligibility view for a resident's current placement.
type TransferOptions struct {
	ResidentID        uint                       `json:"resident_id"`
	ResidentName      string                     `json:"resident_name,omitempty"`
	CurrentRoom       models.Room                `json:"current_room"`
	CurrentBed        models.Bed                 `json:"current_bed"`
	CurrentAssignment models.BedAssignment       `json:"current_assignment"`
	CarePlan          *models.CarePlanAssignment `json:"care_plan,omitempty"`
	AvailableRooms    []models.Room              `json:"available_rooms"`
}

// placement is a request-scoped snapshot resolved from a bed and room id.
type placement struct {
	rooms       []models.Room
	beds        []models.Bed
	assignments []models.BedAssignment
	room        *models.Room
	bed         *models.Bed
	current     *models.BedAssignment
}

func (s *TransferService) loadPlacement(ctx context.Context, bedID, roomID uint, asOf time.Time) (*placement, error) {
	if bedID == 0 || roomID == 0 {
		return nil, validationError("current bed and room must be provided")
	}

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	beds, err := s.store.ListBeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	assignments, err := s.store.ListBedAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bed assignments: %w", err)
	}

	p := &placement{rooms: rooms, beds: beds, assignments: assignments}
	p.room = findRoom(rooms, roomID)
	if p.room == nil {
		return nil, validationError("room %d not found", roomID)
	}
	p.bed = findBed(beds, bedID)
	if p.bed == nil {
		return nil, validationError("bed %d not found", bedID)
	}
	if p.bed.RoomID != p.room.ID {
		return nil, validationError("bed %d is not in room %d", bedID, roomID)
	}
	p.current = DeriveOccupancy(beds, assignments, asOf)[bedID]
	return p, nil
}

// Options computes the rooms the resident in the given bed may move to.
func (s *TransferService) Options(ctx context.Context, currentBedID, currentRoomID uint) (*TransferOptions, error) {
	now := s.now()
	p, err := s.loadPlacement(ctx, currentBedID, currentRoomID, now)
	if err != nil {
		return nil, err
	}
	if p.current == nil {
		return nil, ErrMissingCurrentAssignment
	}

	carePlans, err := s.store.ListCarePlanAssignments(ctx, p.current.ResidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list care plan assignments: %w", err)
	}
	carePlan := ActiveCarePlanAssignment(carePlans)

	opts := &TransferOptions{
		ResidentID:        p.current.ResidentID,
		ResidentName:      s.residentName(ctx, p.current.ResidentID),
		CurrentRoom:       *p.room,
		CurrentBed:        *p.bed,
		CurrentAssignment: *p.current,
		CarePlan:          carePlan,
		AvailableRooms:    ComputeAvailableRooms(p.rooms, p.beds, p.assignments, p.room, p.bed, carePlan, now),
	}
	return opts, nil
}

// AvailableBeds lists the free beds of targetRoomID for the resident in the
// given bed.
func (s *TransferService) AvailableBeds(ctx context.Context, currentBedID, currentRoomID, targetRoomID uint) ([]BedAvailability, error) {
	now := s.now()
	p, err := s.loadPlacement(ctx, currentBedID, currentRoomID, now)
	if err != nil {
		return nil, err
	}
	target := findRoom(p.rooms, targetRoomID)
	if target == nil {
		return nil, validationError("room %d not found", targetRoomID)
	}
	return ComputeAvailableBeds(target, p.beds, p.assignments, p.room, p.bed, now), nil
}

// transferPlan carries everything the write phase needs.
type transferPlan struct {
	current  models.BedAssignment
	fromRoom *models.Room
	fromBed  *models.Bed
	toRoom   *models.Room
	toBed    *models.Bed
	actingBy *uint
	at       time.Time
}

// ExecuteTransfer moves a resident to another bed: it closes the current
// assignment, opens a new one on the destination bed and points the active
// care plan assignment at the destination room.
func (s *TransferService) ExecuteTransfer(ctx context.Context, req TransferRequest) (result *TransferResult, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveTransfer(transferOutcome(err), time.Since(started))
	}()

	if req.DestinationBedID == 0 || req.DestinationRoomID == 0 {
		return nil, validationError("destination room and bed must be selected")
	}
	if req.DestinationBedID == req.CurrentBedID && req.DestinationRoomID == req.CurrentRoomID {
		return nil, validationError("resident already occupies bed %d", req.CurrentBedID)
	}

	release, err := s.lockBeds(ctx, req.CurrentBedID, req.DestinationBedID)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, ErrConcurrentModification
		}
		return nil, &TransferError{Step: StepPrepare, Err: err}
	}
	defer release()

	plan, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.apply(ctx, plan)
	if err != nil {
		s.logger.Error("Bed transfer failed",
			zap.Uint("resident_id", plan.current.ResidentID),
			zap.Uint("from_bed_id", plan.fromBed.ID),
			zap.Uint("to_bed_id", plan.toBed.ID),
			zap.Error(err),
		)
		auditCtx, cancel := detached(ctx)
		defer cancel()
		s.recordAudit(auditCtx, plan.actingBy, "bed_transfer_failed", fmt.Sprintf(
			"Transfer of resident %d from bed %s (room %s) to bed %s (room %s) failed: %v",
			plan.current.ResidentID, plan.fromBed.BedNumber, plan.fromRoom.RoomNumber,
			plan.toBed.BedNumber, plan.toRoom.RoomNumber, err))
		return nil, err
	}

	result = &TransferResult{
		ResidentID:      plan.current.ResidentID,
		ResidentName:    s.residentName(ctx, plan.current.ResidentID),
		FromRoomNumber:  plan.fromRoom.RoomNumber,
		FromBedNumber:   plan.fromBed.BedNumber,
		ToRoomNumber:    plan.toRoom.RoomNumber,
		ToBedNumber:     plan.toBed.BedNumber,
		NewAssignmentID: created.ID,
		TransferredAt:   plan.at,
	}

	s.logger.Info("Bed transfer completed",
		zap.Uint("resident_id", result.ResidentID),
		zap.String("from", result.FromRoomNumber+"/"+result.FromBedNumber),
		zap.String("to", result.ToRoomNumber+"/"+result.ToBedNumber),
		zap.Uint("assignment_id", created.ID),
	)
	s.recordAudit(ctx, plan.actingBy, "bed_transfer", fmt.Sprintf(
		"Transferred resident %d from room %s bed %s to room %s bed %s",
		result.ResidentID, result.FromRoomNumber, result.FromBedNumber, result.ToRoomNumber, result.ToBedNumber))

	return result, nil
}

// lockBeds takes the transfer lock on every bed involved, in ascending id
// order. Locking the source bed keeps two moves of the same resident apart.
func (s *TransferService) lockBeds(ctx context.Context, bedIDs ...uint) (func(), error) {
	ids := make([]uint, 0, len(bedIDs))
	for _, id := range bedIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	var releases []lock.ReleaseFunc
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			if err := releases[i](context.Background()); err != nil {
				s.logger.Warn("Failed to release transfer lock", zap.Uint("bed_id", ids[i]), zap.Error(err))
			}
		}
	}
	for _, id := range ids {
		release, err := s.locker.Acquire(ctx, fmt.Sprintf("bed:%d", id), s.lockTTL)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// detached returns a context that survives cancellation of ctx, for writes
// that must finish even when the caller has gone away.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
}

// prepare validates the request against a fresh snapshot. Nothing is written.
func (s *TransferService) prepare(ctx context.Context, req TransferRequest) (*transferPlan, error) {
	now := s.now()
	p, err := s.loadPlacement(ctx, req.CurrentBedID, req.CurrentRoomID, now)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, &TransferError{Step: StepPrepare, Err: err}
	}
	if p.current == nil {
		return nil, ErrMissingCurrentAssignment
	}

	toRoom := findRoom(p.rooms, req.DestinationRoomID)
	if toRoom == nil {
		return nil, validationError("destination room %d not found", req.DestinationRoomID)
	}
	toBed := findBed(p.beds, req.DestinationBedID)
	if toBed == nil {
		return nil, validationError("destination bed %d not found", req.DestinationBedID)
	}
	if toBed.RoomID != toRoom.ID {
		return nil, validationError("bed %s is not in room %s", toBed.BedNumber, toRoom.RoomNumber)
	}
	if toBed.ID == p.bed.ID {
		return nil, validationError("resident already occupies bed %s", toBed.BedNumber)
	}

	if toRoom.ID != p.room.ID {
		carePlans, err := s.store.ListCarePlanAssignments(ctx, p.current.ResidentID)
		if err != nil {
			return nil, &TransferError{Step: StepPrepare, Err: fmt.Errorf("failed to list care plan assignments: %w", err)}
		}
		if toRoom.Gender != p.room.Gender {
			return nil, validationError("room %s is reserved for %s residents", toRoom.RoomNumber, toRoom.Gender)
		}
		if !roomAccepts(toRoom, p.room, ActiveCarePlanAssignment(carePlans)) {
			return nil, validationError("room %s does not match the resident's main care plan", toRoom.RoomNumber)
		}
	}

	if BedStatusOf(toBed.ID, DeriveOccupancy(p.beds, p.assignments, now)) != BedAvailable {
		return nil, ErrConcurrentModification
	}

	actingBy := req.ActingUserID
	if actingBy == nil {
		actingBy = p.current.AssignedBy
	}

	return &transferPlan{
		current:  *p.current,
		fromRoom: p.room,
		fromBed:  p.bed,
		toRoom:   toRoom,
		toBed:    toBed,
		actingBy: actingBy,
		at:       now,
	}, nil
}

// apply runs the writes in a transaction when the store supports one and
// with a compensation log otherwise.
func (s *TransferService) apply(ctx context.Context, plan *transferPlan) (*models.BedAssignment, error) {
	tx, ok := s.store.(Transactor)
	if !ok {
		return s.applyWithCompensation(ctx, plan)
	}

	var created *models.BedAssignment
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.writeTransfer(ctx, plan)
		return err
	})
	if err == nil {
		return created, nil
	}

	var te *TransferError
	if !errors.As(err, &te) {
		te = &TransferError{Step: StepCommit, Err: err}
	}
	te.Compensated = true
	return nil, te
}

func (s *TransferService) applyWithCompensation(ctx context.Context, plan *transferPlan) (*models.BedAssignment, error) {
	created, err := s.writeTransfer(ctx, plan)
	if err == nil {
		return created, nil
	}

	var te *TransferError
	if !errors.As(err, &te) {
		return nil, err
	}

	switch te.Step {
	case StepOpenAssignment:
		undoCtx, cancel := detached(ctx)
		defer cancel()

		// a create whose response was lost may still have landed
		if s.openedOnDestination(undoCtx, plan) {
			te.Partial = true
			break
		}

		// undo the close so the resident keeps their original bed
		undo := map[string]interface{}{
			"unassigned_date": nil,
			"status":          restoredStatus(plan.current.Status),
		}
		if plan.current.UnassignedDate != nil {
			undo["unassigned_date"] = *plan.current.UnassignedDate
		}
		if undoErr := s.store.UpdateBedAssignment(undoCtx, plan.current.ID, undo); undoErr != nil {
			te.CompensationErr = undoErr
			te.Partial = true
		} else {
			te.Compensated = true
		}
	case StepPropagateRoom:
		te.Partial = true
	}
	return nil, te
}

// openedOnDestination reports whether the destination bed already holds an
// active assignment for the resident being moved.
func (s *TransferService) openedOnDestination(ctx context.Context, plan *transferPlan) bool {
	existing, err := s.store.ListBedAssignmentsByBed(ctx, plan.toBed.ID)
	if err != nil {
		s.logger.Warn("Failed to re-read destination bed before undo",
			zap.Uint("bed_id", plan.toBed.ID), zap.Error(err))
		return false
	}
	for i := range existing {
		if existing[i].ResidentID == plan.current.ResidentID && existing[i].ActiveAt(plan.at) {
			return true
		}
	}
	return false
}

// writeTransfer performs the three ordered writes. Errors are *TransferError.
func (s *TransferService) writeTransfer(ctx context.Context, plan *transferPlan) (*models.BedAssignment, error) {
	// 1. re-check the source bed, then close the current assignment
	source, err := s.store.ListBedAssignmentsByBed(ctx, plan.fromBed.ID)
	if err != nil {
		return nil, &TransferError{Step: StepCloseAssignment, Err: err}
	}
	if !stillActive(source, plan.current.ID, plan.at) {
		return nil, &TransferError{Step: StepCloseAssignment, Err: ErrConcurrentModification}
	}
	closeUpdates := map[string]interface{}{
		"unassigned_date": plan.at,
		"status":          models.AssignmentStatusExchanged,
	}
	if err := s.store.UpdateBedAssignment(ctx, plan.current.ID, closeUpdates); err != nil {
		return nil, &TransferError{Step: StepCloseAssignment, Err: err}
	}

	// 2. re-check the destination bed, then open the new assignment
	fresh, err := s.store.ListBedAssignmentsByBed(ctx, plan.toBed.ID)
	if err != nil {
		return nil, &TransferError{Step: StepOpenAssignment, Err: err}
	}
	for i := range fresh {
		if fresh[i].BedID == plan.toBed.ID && fresh[i].ActiveAt(plan.at) {
			return nil, &TransferError{Step: StepOpenAssignment, Err: ErrConcurrentModification}
		}
	}

	created := &models.BedAssignment{
		ResidentID:   plan.current.ResidentID,
		BedID:        plan.toBed.ID,
		RoomID:       plan.toRoom.ID,
		AssignedDate: plan.at,
		Status:       models.AssignmentStatusActive,
		AssignedBy:   plan.actingBy,
	}
	if err := s.store.CreateBedAssignment(ctx, created); err != nil {
		return nil, &TransferError{Step: StepOpenAssignment, Err: err}
	}

	// 3. point the active care plan at the new room, if there is one
	carePlans, err := s.store.ListCarePlanAssignments(ctx, plan.current.ResidentID)
	if err != nil {
		return nil, &TransferError{Step: StepPropagateRoom, Err: err}
	}
	active := ActiveCarePlanAssignment(carePlans)
	if active == nil {
		return created, nil
	}
	if active.RoomID != nil && *active.RoomID == plan.toRoom.ID {
		return created, nil
	}
	if err := s.store.UpdateCarePlanAssignment(ctx, active.ID, map[string]interface{}{"room_id": plan.toRoom.ID}); err != nil {
		return nil, &TransferError{Step: StepPropagateRoom, Err: err}
	}
	return created, nil
}

// ListRoomsWithOccupancy returns every room with its bed counts.
func (s *TransferService) ListRoomsWithOccupancy(ctx context.Context) ([]RoomOccupancy, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	beds, err := s.store.ListBeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	assignments, err := s.store.ListBedAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bed assignments: %w", err)
	}
	return ComputeRoomOccupancy(rooms, beds, assignments, s.now()), nil
}

// ResidentBedHistory returns a resident's bed assignments, newest first.
func (s *TransferService) ResidentBedHistory(ctx context.Context, residentID uint) ([]models.BedAssignment, error) {
	if residentID == 0 {
		return nil, validationError("resident id is required")
	}
	history, err := s.store.ListBedAssignmentsByResident(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bed assignments: %w", err)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].AssignedDate.After(history[j].AssignedDate)
	})
	return history, nil
}

func (s *TransferService) residentName(ctx context.Context, residentID uint) string {
	resident, err := s.store.GetResident(ctx, residentID)
	if err != nil {
		s.logger.Warn("Failed to load resident", zap.Uint("resident_id", residentID), zap.Error(err))
		return ""
	}
	return resident.FullName
}

func (s *TransferService) recordAudit(ctx context.Context, userID *uint, action, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, userID, action, details); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func stillActive(assignments []models.BedAssignment, id uint, at time.Time) bool {
	for i := range assignments {
		if assignments[i].ID == id {
			return assignments[i].ActiveAt(at)
		}
	}
	return false
}

func restoredStatus(status string) string {
	if status == "" {
		return models.AssignmentStatusActive
	}
	return status
}

func transferOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrMissingCurrentAssignment):
		return "missing_assignment"
	case errors.Is(err, ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, ErrPartialTransfer):
		return "partial"
	default:
		return "failed"
	}
}

func findRoom(rooms []models.Room, id uint) *models.Room {
	for i := range rooms {
		if rooms[i].ID == id {
			return &rooms[i]
		}
	}
	return nil
}

func findBed(beds []models.Bed, id uint) *models.Bed {
	for i := range beds {
		if beds[i].ID == id {
			return &beds[i]
		}
	}
	return nil
}
