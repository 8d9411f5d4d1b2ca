package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"drfind/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetUpcoming = "Upcoming"
	SheetPast     = "Past"
)

var headers = []string{"Date", "Provider", "Name", "Contact", "Note"}

// WriteBookingsXLSX writes bookings as a workbook with an "Upcoming" and a
// "Past" sheet, split at now. Rows keep the list order.
func WriteBookingsXLSX(w io.Writer, bookings []models.Booking, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	var upcoming, past []models.Booking
	for _, b := range bookings {
		if b.IsUpcoming(now) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}

	for i, sheet := range []struct {
		name string
		rows []models.Booking
	}{
		{SheetUpcoming, upcoming},
		{SheetPast, past},
	} {
		index, err := f.NewSheet(sheet.name)
		if err != nil {
			return fmt.Errorf("error creating sheet %s: %w", sheet.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, sheet.name, sheet.rows, headerStyle); err != nil {
			return err
		}
	}

	// drop the default sheet
	_ = f.DeleteSheet("Sheet1")

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows []models.Booking, headerStyle int) error {
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
	}
	_ = f.SetCellStyle(sheet, "A1", "E1", headerStyle)

	for i, b := range rows {
		row := i + 2
		values := []interface{}{
			b.Date.Format("2006-01-02 15:04"),
			b.PlaceName,
			b.UserName,
			b.UserContact,
			b.NoteText(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("error writing row %d: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 30)
	_ = f.SetColWidth(sheet, "C", "D", 22)
	_ = f.SetColWidth(sheet, "E", "E", 40)
	return nil
}

// SaveBookingsXLSX writes the workbook into dir and returns the file path.
func SaveBookingsXLSX(dir string, bookings []models.Booking, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("bookings_%s.xlsx", now.Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating export file: %w", err)
	}

	if err := WriteBookingsXLSX(file, bookings, now); err != nil {
		file.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("error closing export file: %w", err)
	}
	return path, nil
}
