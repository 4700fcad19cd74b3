package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"nursing-home-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const occupancySheet = "Rooms"

var occupancyExportHeader = []string{
	"Room Number",
	"Floor",
	"Gender",
	"Room Type",
	"Bed Number",
	"Bed Type",
	"Status",
	"Resident ID",
	"Assigned Date",
}

// ExportOccupancy renders every bed with its derived status as an xlsx
// workbook.
func (s *TransferService) ExportOccupancy(ctx context.Context) ([]byte, error) {
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
	return buildOccupancyWorkbook(rooms, beds, assignments, s.now())
}

func buildOccupancyWorkbook(rooms []models.Room, beds []models.Bed, assignments []models.BedAssignment, asOf time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(occupancySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(occupancyExportHeader), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to address header: %w", err)
	}
	if err := f.SetSheetRow(occupancySheet, "A1", &occupancyExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(occupancySheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	row := 2
	for i := range rooms {
		room := &rooms[i]
		for _, bed := range BedStatuses(room, beds, assignments, asOf) {
			values := []interface{}{
				room.RoomNumber,
				room.Floor,
				room.Gender,
				room.RoomType,
				bed.BedNumber,
				bed.BedType,
				string(bed.Status),
				"",
				"",
			}
			if bed.Assignment != nil {
				values[7] = strconv.FormatUint(uint64(bed.Assignment.ResidentID), 10)
				values[8] = bed.Assignment.AssignedDate.Format("2006-01-02")
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to address row %d: %w", row, err)
			}
			if err := f.SetSheetRow(occupancySheet, cell, &values); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
