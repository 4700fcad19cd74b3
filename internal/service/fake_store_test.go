package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"nursing-home-backend/internal/models"
)

var errNotFound = errors.New("record not found")

// fakeStore is an in-memory TransferStore. failOn makes the named method
// return the error; calls records every write in order.
type fakeStore struct {
	mu          sync.Mutex
	rooms       []models.Room
	beds        []models.Bed
	assignments []models.BedAssignment
	carePlans   []models.CarePlanAssignment
	residents   []models.Resident
	nextID      uint
	failOn      map[string]error
	calls       []string
	// bedUpdatesAllowed, when positive, makes every UpdateBedAssignment call
	// after that many fail with errUndoFailed.
	bedUpdatesAllowed int
	bedUpdates        int
	// beforeListByBed runs before ListBedAssignmentsByBed, used to simulate
	// a competing writer.
	beforeListByBed func(s *fakeStore, bedID uint)
}

var errUndoFailed = errors.New("update rejected")

func newFakeStore(rooms []models.Room, beds []models.Bed, assignments []models.BedAssignment) *fakeStore {
	return &fakeStore{
		rooms:       rooms,
		beds:        beds,
		assignments: assignments,
		nextID:      1000,
		failOn:      map[string]error{},
	}
}

func (s *fakeStore) fail(method string) error {
	return s.failOn[method]
}

func (s *fakeStore) ListRooms(context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListRooms"); err != nil {
		return nil, err
	}
	return append([]models.Room(nil), s.rooms...), nil
}

func (s *fakeStore) ListBeds(context.Context) ([]models.Bed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListBeds"); err != nil {
		return nil, err
	}
	return append([]models.Bed(nil), s.beds...), nil
}

func (s *fakeStore) ListBedAssignments(context.Context) ([]models.BedAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListBedAssignments"); err != nil {
		return nil, err
	}
	return append([]models.BedAssignment(nil), s.assignments...), nil
}

func (s *fakeStore) ListBedAssignmentsByResident(_ context.Context, residentID uint) ([]models.BedAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BedAssignment
	for _, a := range s.assignments {
		if a.ResidentID == residentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) ListBedAssignmentsByBed(_ context.Context, bedID uint) ([]models.BedAssignment, error) {
	if s.beforeListByBed != nil {
		s.beforeListByBed(s, bedID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListBedAssignmentsByBed"); err != nil {
		return nil, err
	}
	var out []models.BedAssignment
	for _, a := range s.assignments {
		if a.BedID == bedID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) ListCarePlanAssignments(_ context.Context, residentID uint) ([]models.CarePlanAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListCarePlanAssignments"); err != nil {
		return nil, err
	}
	var out []models.CarePlanAssignment
	for _, c := range s.carePlans {
		if c.ResidentID == residentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) GetResident(_ context.Context, id uint) (*models.Resident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.residents {
		if s.residents[i].ID == id {
			r := s.residents[i]
			return &r, nil
		}
	}
	return nil, errNotFound
}

func (s *fakeStore) UpdateBedAssignment(_ context.Context, id uint, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "UpdateBedAssignment")
	if err := s.fail("UpdateBedAssignment"); err != nil {
		return err
	}
	s.bedUpdates++
	if s.bedUpdatesAllowed > 0 && s.bedUpdates > s.bedUpdatesAllowed {
		return errUndoFailed
	}
	for i := range s.assignments {
		if s.assignments[i].ID != id {
			continue
		}
		if v, ok := updates["unassigned_date"]; ok {
			switch t := v.(type) {
			case nil:
				s.assignments[i].UnassignedDate = nil
			case time.Time:
				s.assignments[i].UnassignedDate = &t
			}
		}
		if v, ok := updates["status"].(string); ok {
			s.assignments[i].Status = v
		}
		return nil
	}
	return errNotFound
}

func (s *fakeStore) CreateBedAssignment(_ context.Context, a *models.BedAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "CreateBedAssignment")
	if err := s.fail("CreateBedAssignment"); err != nil {
		return err
	}
	s.nextID++
	a.ID = s.nextID
	s.assignments = append(s.assignments, *a)
	return nil
}

func (s *fakeStore) UpdateCarePlanAssignment(_ context.Context, id uint, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "UpdateCarePlanAssignment")
	if err := s.fail("UpdateCarePlanAssignment"); err != nil {
		return err
	}
	for i := range s.carePlans {
		if s.carePlans[i].ID != id {
			continue
		}
		if v, ok := updates["room_id"].(uint); ok {
			s.carePlans[i].RoomID = &v
		}
		return nil
	}
	return errNotFound
}

func (s *fakeStore) writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// ctxFakeStore honours cancellation the way a network-backed store does.
// CreateBedAssignment cancels the request first, as if the client hung up
// mid-write.
type ctxFakeStore struct {
	*fakeStore
	cancel context.CancelFunc
}

func (s *ctxFakeStore) ListBedAssignmentsByBed(ctx context.Context, bedID uint) ([]models.BedAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fakeStore.ListBedAssignmentsByBed(ctx, bedID)
}

func (s *ctxFakeStore) UpdateBedAssignment(ctx context.Context, id uint, updates map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fakeStore.UpdateBedAssignment(ctx, id, updates)
}

func (s *ctxFakeStore) CreateBedAssignment(ctx context.Context, _ *models.BedAssignment) error {
	s.cancel()
	return ctx.Err()
}

// lostReplyStore stores the new assignment but reports a failure, like a
// POST whose response timed out.
type lostReplyStore struct {
	*fakeStore
}

func (s *lostReplyStore) CreateBedAssignment(ctx context.Context, a *models.BedAssignment) error {
	if err := s.fakeStore.CreateBedAssignment(ctx, a); err != nil {
		return err
	}
	return errors.New("read timeout")
}

// txFakeStore adds all-or-nothing transactions on top of fakeStore.
type txFakeStore struct {
	*fakeStore
	commitErr error
}

func (s *txFakeStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	assignments := append([]models.BedAssignment(nil), s.assignments...)
	carePlans := append([]models.CarePlanAssignment(nil), s.carePlans...)
	s.mu.Unlock()

	err := fn(ctx)
	if err == nil {
		err = s.commitErr
	}
	if err != nil {
		s.mu.Lock()
		s.assignments = assignments
		s.carePlans = carePlans
		s.mu.Unlock()
	}
	return err
}

// recordingAudit captures audit entries. Entries written on a cancelled
// context are rejected.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
	users   []*uint
}

func (r *recordingAudit) CreateAuditLog(ctx context.Context, userID *uint, action string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	r.users = append(r.users, userID)
	return nil
}
