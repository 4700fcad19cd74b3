package service

import (
	"testing"
	"time"

	"nursing-home-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func uintPtr(v uint) *uint { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func roomIDs(rooms []models.Room) []uint {
	ids := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

func bedIDs(beds []BedAvailability) []uint {
	ids := make([]uint, 0, len(beds))
	for _, b := range beds {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestDeriveOccupancy(t *testing.T) {
	beds := []models.Bed{{ID: 1, RoomID: 1}, {ID: 2, RoomID: 1}, {ID: 3, RoomID: 1}, {ID: 4, RoomID: 1}}
	assignments := []models.BedAssignment{
		{ID: 10, BedID: 1},                                                // open
		{ID: 11, BedID: 2, UnassignedDate: timePtr(testNow.Add(time.Hour))}, // ends later
		{ID: 12, BedID: 3, UnassignedDate: timePtr(testNow.Add(-time.Hour))},
		{ID: 13, BedID: 4, UnassignedDate: timePtr(testNow)},
		{ID: 14, BedID: 99}, // unknown bed
	}

	occ := DeriveOccupancy(beds, assignments, testNow)

	assert.Equal(t, BedOccupied, BedStatusOf(1, occ))
	assert.Equal(t, BedOccupied, BedStatusOf(2, occ))
	assert.Equal(t, BedAvailable, BedStatusOf(3, occ))
	assert.Equal(t, BedAvailable, BedStatusOf(4, occ))
	assert.Len(t, occ, 2)
	assert.Equal(t, uint(10), occ[1].ID)
}

func TestDeriveOccupancy_PrefersLatestActiveAssignment(t *testing.T) {
	beds := []models.Bed{{ID: 1, RoomID: 1}}
	assignments := []models.BedAssignment{
		{ID: 2, BedID: 1, AssignedDate: testNow.Add(-time.Hour)},
		{ID: 1, BedID: 1, AssignedDate: testNow.Add(-48 * time.Hour)},
	}
	occ := DeriveOccupancy(beds, assignments, testNow)
	assert.Equal(t, uint(2), occ[1].ID)
}

func TestActiveCarePlanAssignment(t *testing.T) {
	assert.Nil(t, ActiveCarePlanAssignment(nil))

	plans := []models.CarePlanAssignment{
		{ID: 1, EndDate: timePtr(testNow.Add(-time.Hour))},
		{ID: 2},
		{ID: 3},
	}
	got := ActiveCarePlanAssignment(plans)
	require.NotNil(t, got)
	assert.Equal(t, uint(2), got.ID)
}

// wardFixture: room 101 (female, beds 1 occupied by resident 7, 2 free),
// room 102 (male, bed 3 free), room 103 (female, bed 4 occupied, bed 5 free),
// room 104 (female, bed 6 occupied).
func wardFixture() ([]models.Room, []models.Bed, []models.BedAssignment) {
	rooms := []models.Room{
		{ID: 101, RoomNumber: "101", Gender: models.GenderFemale},
		{ID: 102, RoomNumber: "102", Gender: models.GenderMale},
		{ID: 103, RoomNumber: "103", Gender: models.GenderFemale},
		{ID: 104, RoomNumber: "104", Gender: models.GenderFemale},
	}
	beds := []models.Bed{
		{ID: 1, BedNumber: "A", RoomID: 101},
		{ID: 2, BedNumber: "B", RoomID: 101},
		{ID: 3, BedNumber: "A", RoomID: 102},
		{ID: 4, BedNumber: "A", RoomID: 103},
		{ID: 5, BedNumber: "B", RoomID: 103},
		{ID: 6, BedNumber: "A", RoomID: 104},
	}
	assignments := []models.BedAssignment{
		{ID: 1, ResidentID: 7, BedID: 1, RoomID: 101, AssignedDate: testNow.Add(-72 * time.Hour), Status: models.AssignmentStatusActive},
		{ID: 2, ResidentID: 8, BedID: 4, RoomID: 103, AssignedDate: testNow.Add(-72 * time.Hour), Status: models.AssignmentStatusActive},
		{ID: 3, ResidentID: 9, BedID: 6, RoomID: 104, AssignedDate: testNow.Add(-72 * time.Hour), Status: models.AssignmentStatusActive},
	}
	return rooms, beds, assignments
}

func TestComputeAvailableRooms_GenderAndAvailability(t *testing.T) {
	rooms, beds, assignments := wardFixture()

	got := ComputeAvailableRooms(rooms, beds, assignments, &rooms[0], &beds[0], nil, testNow)

	// 102 is male, 104 is full
	assert.Equal(t, []uint{101, 103}, roomIDs(got))
}

func TestComputeAvailableRooms_CurrentRoomNeedsAnotherFreeBed(t *testing.T) {
	rooms, beds, assignments := wardFixture()
	// someone else takes bed B in 101
	assignments = append(assignments, models.BedAssignment{ID: 4, ResidentID: 10, BedID: 2, RoomID: 101})

	got := ComputeAvailableRooms(rooms, beds, assignments, &rooms[0], &beds[0], nil, testNow)
	assert.Equal(t, []uint{103}, roomIDs(got))
}

func TestComputeAvailableRooms_CurrentRoomSkipsGenderAndCarePlan(t *testing.T) {
	rooms, beds, assignments := wardFixture()
	// current room is "male" with a plan restriction the resident doesn't match
	rooms[0].Gender = models.GenderMale
	rooms[0].MainCarePlanID = uintPtr(50)
	carePlan := &models.CarePlanAssignment{ID: 1, CarePlanIDs: []uint{60}}

	got := ComputeAvailableRooms(rooms, beds, assignments, &rooms[0], &beds[0], carePlan, testNow)
	// room 101 still offered; 102 is male and free so it qualifies too
	assert.Equal(t, []uint{101, 102}, roomIDs(got))
}

func TestComputeAvailableRooms_MainCarePlan(t *testing.T) {
	rooms, beds, assignments := wardFixture()
	rooms[2].MainCarePlanID = uintPtr(5)

	cases := []struct {
		name     string
		carePlan *models.CarePlanAssignment
		want     []uint
	}{
		{"no care plan", nil, []uint{101, 103}},
		{"empty plan list", &models.CarePlanAssignment{ID: 1}, []uint{101, 103}},
		{"matching main plan", &models.CarePlanAssignment{ID: 1, CarePlanIDs: []uint{5, 9}}, []uint{101, 103}},
		{"secondary plan does not count", &models.CarePlanAssignment{ID: 1, CarePlanIDs: []uint{9, 5}}, []uint{101}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeAvailableRooms(rooms, beds, assignments, &rooms[0], &beds[0], tc.carePlan, testNow)
			assert.Equal(t, tc.want, roomIDs(got))
		})
	}
}

func TestComputeAvailableRooms_EmptyInputs(t *testing.T) {
	rooms, beds, _ := wardFixture()

	got := ComputeAvailableRooms(nil, beds, nil, &rooms[0], &beds[0], nil, testNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = ComputeAvailableRooms(rooms, beds, nil, nil, nil, nil, testNow)
	assert.Empty(t, got)
}

func TestComputeAvailableRooms_NeverOffersOtherGender(t *testing.T) {
	rooms, beds, assignments := wardFixture()
	for i := range rooms {
		for j := range beds {
			if beds[j].RoomID != rooms[i].ID {
				continue
			}
			current := &rooms[i]
			for _, r := range ComputeAvailableRooms(rooms, beds, assignments, current, &beds[j], nil, testNow) {
				if r.ID != current.ID {
					assert.Equal(t, current.Gender, r.Gender, "room %d offered from room %d", r.ID, current.ID)
				}
			}
		}
	}
}

func TestComputeAvailableRooms_IsPure(t *testing.T) {
	rooms, beds, assignments := wardFixture()
	carePlan := &models.CarePlanAssignment{ID: 1, CarePlanIDs: []uint{5}}

	first := ComputeAvailableRooms(rooms, beds, assignments, &rooms[0], &beds[0], carePlan, testNow)
	second := ComputeAvailableRooms(rooms, beds, assignments, &rooms[0], &beds[0], carePlan, testNow)
	assert.Equal(t, first, second)

	rooms2, beds2, assignments2 := wardFixture()
	assert.Equal(t, rooms2, rooms)
	assert.Equal(t, beds2, beds)
	assert.Equal(t, assignments2, assignments)
}

func TestComputeAvailableBeds(t *testing.T) {
	rooms, beds, assignments := wardFixture()

	t.Run("own room excludes own bed", func(t *testing.T) {
		got := ComputeAvailableBeds(&rooms[0], beds, assignments, &rooms[0], &beds[0], testNow)
		assert.Equal(t, []uint{2}, bedIDs(got))
		for _, b := range got {
			assert.Equal(t, BedAvailable, b.Status)
		}
	})

	t.Run("other room lists free beds only", func(t *testing.T) {
		got := ComputeAvailableBeds(&rooms[2], beds, assignments, &rooms[0], &beds[0], testNow)
		assert.Equal(t, []uint{5}, bedIDs(got))
	})

	t.Run("full room", func(t *testing.T) {
		got := ComputeAvailableBeds(&rooms[3], beds, assignments, &rooms[0], &beds[0], testNow)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("own bed never offered even when its assignment ended", func(t *testing.T) {
		ended := append([]models.BedAssignment{}, assignments...)
		ended[0].UnassignedDate = timePtr(testNow.Add(-time.Minute))
		got := ComputeAvailableBeds(&rooms[0], beds, ended, &rooms[0], &beds[0], testNow)
		assert.Equal(t, []uint{2}, bedIDs(got))
	})
}

func TestComputeRoomOccupancy(t *testing.T) {
	rooms, beds, assignments := wardFixture()

	got := ComputeRoomOccupancy(rooms, beds, assignments, testNow)
	require.Len(t, got, 4)

	assert.Equal(t, 2, got[0].TotalBeds)
	assert.Equal(t, 1, got[0].OccupiedBeds)
	assert.Equal(t, 1, got[0].AvailableBeds)
	assert.Equal(t, 0, got[1].OccupiedBeds)
	assert.Equal(t, 1, got[3].OccupiedBeds)
	assert.Equal(t, 0, got[3].AvailableBeds)
}

func TestBedStatuses(t *testing.T) {
	rooms, beds, assignments := wardFixture()

	got := BedStatuses(&rooms[0], beds, assignments, testNow)
	require.Len(t, got, 2)
	assert.Equal(t, BedOccupied, got[0].Status)
	require.NotNil(t, got[0].Assignment)
	assert.Equal(t, uint(7), got[0].Assignment.ResidentID)
	assert.Equal(t, BedAvailable, got[1].Status)
	assert.Nil(t, got[1].Assignment)
}
