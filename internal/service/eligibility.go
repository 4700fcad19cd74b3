package service

import (
	"time"

	"nursing-home-backend/internal/models"
)

// BedStatus is derived from the assignment history at query time.
type BedStatus string

const (
	BedOccupied  BedStatus = "occupied"
	BedAvailable BedStatus = "available"
)

// BedAvailability is a bed with its derived status. Assignment is the active
// assignment holding the bed, nil when available.
type BedAvailability struct {
	models.Bed
	Status     BedStatus             `json:"status"`
	Assignment *models.BedAssignment `json:"assignment,omitempty"`
}

// RoomOccupancy summarises a room's beds at a given instant.
type RoomOccupancy struct {
	models.Room
	TotalBeds     int `json:"total_beds"`
	OccupiedBeds  int `json:"occupied_beds"`
	AvailableBeds int `json:"available_beds"`
}

// DeriveOccupancy maps each occupied bed id to the assignment holding it at
// asOf. Assignments that reference beds not in beds are ignored.
func DeriveOccupancy(beds []models.Bed, assignments []models.BedAssignment, asOf time.Time) map[uint]*models.BedAssignment {
	known := make(map[uint]struct{}, len(beds))
	for _, bed := range beds {
		known[bed.ID] = struct{}{}
	}

	occupancy := make(map[uint]*models.BedAssignment)
	for i := range assignments {
		a := &assignments[i]
		if _, ok := known[a.BedID]; !ok {
			continue
		}
		if !a.ActiveAt(asOf) {
			continue
		}
		// keep the most recent assignment if the history is inconsistent
		if prev, ok := occupancy[a.BedID]; ok && prev.AssignedDate.After(a.AssignedDate) {
			continue
		}
		occupancy[a.BedID] = a
	}
	return occupancy
}

// BedStatusOf returns the derived status of a bed.
func BedStatusOf(bedID uint, occupancy map[uint]*models.BedAssignment) BedStatus {
	if _, ok := occupancy[bedID]; ok {
		return BedOccupied
	}
	return BedAvailable
}

// ActiveCarePlanAssignment returns the first assignment without an end date.
func ActiveCarePlanAssignment(assignments []models.CarePlanAssignment) *models.CarePlanAssignment {
	for i := range assignments {
		if assignments[i].EndDate == nil {
			return &assignments[i]
		}
	}
	return nil
}

// ComputeAvailableRooms returns the rooms a resident placed in currentBed of
// currentRoom can move to, in input order.
//
// The current room qualifies when it has a free bed other than currentBed;
// gender and care plan are not checked for it. Any other room must match the
// current room's gender, match the main care plan when both the room and
// carePlan expose one, and have at least one free bed.
func ComputeAvailableRooms(
	rooms []models.Room,
	beds []models.Bed,
	assignments []models.BedAssignment,
	currentRoom *models.Room,
	currentBed *models.Bed,
	carePlan *models.CarePlanAssignment,
	asOf time.Time,
) []models.Room {
	available := []models.Room{}
	if currentRoom == nil || currentBed == nil {
		return available
	}

	occupancy := DeriveOccupancy(beds, assignments, asOf)
	bedsByRoom := groupBedsByRoom(beds)

	for _, room := range rooms {
		if room.ID == currentRoom.ID {
			if hasFreeBed(bedsByRoom[room.ID], occupancy, currentBed.ID) {
				available = append(available, room)
			}
			continue
		}
		if !roomAccepts(&room, currentRoom, carePlan) {
			continue
		}
		if hasFreeBed(bedsByRoom[room.ID], occupancy, currentBed.ID) {
			available = append(available, room)
		}
	}
	return available
}

// ComputeAvailableBeds lists the free beds of room. In the resident's own room
// the bed they occupy is never offered.
func ComputeAvailableBeds(
	room *models.Room,
	beds []models.Bed,
	assignments []models.BedAssignment,
	currentRoom *models.Room,
	currentBed *models.Bed,
	asOf time.Time,
) []BedAvailability {
	result := []BedAvailability{}
	if room == nil {
		return result
	}

	occupancy := DeriveOccupancy(beds, assignments, asOf)
	sameRoom := currentRoom != nil && currentRoom.ID == room.ID

	for _, bed := range beds {
		if bed.RoomID != room.ID {
			continue
		}
		if BedStatusOf(bed.ID, occupancy) != BedAvailable {
			continue
		}
		if sameRoom && currentBed != nil && bed.ID == currentBed.ID {
			continue
		}
		result = append(result, BedAvailability{Bed: bed, Status: BedAvailable})
	}
	return result
}

// BedStatuses lists every bed of room with its derived status.
func BedStatuses(room *models.Room, beds []models.Bed, assignments []models.BedAssignment, asOf time.Time) []BedAvailability {
	result := []BedAvailability{}
	if room == nil {
		return result
	}
	occupancy := DeriveOccupancy(beds, assignments, asOf)
	for _, bed := range beds {
		if bed.RoomID != room.ID {
			continue
		}
		entry := BedAvailability{Bed: bed, Status: BedStatusOf(bed.ID, occupancy)}
		entry.Assignment = occupancy[bed.ID]
		result = append(result, entry)
	}
	return result
}

// ComputeRoomOccupancy counts occupied and free beds per room, in input order.
func ComputeRoomOccupancy(rooms []models.Room, beds []models.Bed, assignments []models.BedAssignment, asOf time.Time) []RoomOccupancy {
	occupancy := DeriveOccupancy(beds, assignments, asOf)
	bedsByRoom := groupBedsByRoom(beds)

	result := make([]RoomOccupancy, 0, len(rooms))
	for _, room := range rooms {
		entry := RoomOccupancy{Room: room}
		for _, bed := range bedsByRoom[room.ID] {
			entry.TotalBeds++
			if BedStatusOf(bed.ID, occupancy) == BedOccupied {
				entry.OccupiedBeds++
			} else {
				entry.AvailableBeds++
			}
		}
		result = append(result, entry)
	}
	return result
}

// roomAccepts applies the gender and main care plan rules to a room other
// than the resident's current room.
func roomAccepts(room, currentRoom *models.Room, carePlan *models.CarePlanAssignment) bool {
	if room.Gender != currentRoom.Gender {
		return false
	}
	if room.MainCarePlanID == nil || carePlan == nil {
		return true
	}
	main, ok := carePlan.MainCarePlanID()
	if !ok {
		return true
	}
	return *room.MainCarePlanID == main
}

func hasFreeBed(beds []models.Bed, occupancy map[uint]*models.BedAssignment, excludeBedID uint) bool {
	for _, bed := range beds {
		if bed.ID == excludeBedID {
			continue
		}
		if BedStatusOf(bed.ID, occupancy) == BedAvailable {
			return true
		}
	}
	return false
}

func groupBedsByRoom(beds []models.Bed) map[uint][]models.Bed {
	grouped := make(map[uint][]models.Bed)
	for _, bed := range beds {
		grouped[bed.RoomID] = append(grouped[bed.RoomID], bed)
	}
	return grouped
}
