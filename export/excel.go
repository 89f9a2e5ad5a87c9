// api/export/excel.go
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"spellbee/api/models"
)

const sheetName = "Sessions"

// One column per session attribute, in storage order.
var headers = []string{
	"Session ID", "IP Address", "Country", "Region", "City",
	"Latitude", "Longitude", "User Agent", "First Visit", "Last Activity",
	"Total Visits", "Words Practiced", "AI Speech Used", "Classic Speech Used",
}

// SessionsWorkbook renders the session table as an Excel workbook with
// a bold, shaded header row and one row per session.
func SessionsWorkbook(sessions []models.Session) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, sess := range sessions {
		row := []any{
			sess.SessionID, sess.IPAddress, sess.Country, sess.Region, sess.City,
			floatOrEmpty(sess.Latitude), floatOrEmpty(sess.Longitude), sess.UserAgent,
			sess.FirstVisit.Format(time.RFC3339), sess.LastActivity.Format(time.RFC3339),
			sess.TotalVisits, sess.WordsPracticed, sess.AISpeechUsed, sess.ClassicSpeechUsed,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write session row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}

// Filename returns the download name for an export generated now,
// e.g. sessions-2026-09-01.xlsx.
func Filename(now time.Time) string {
	return fmt.Sprintf("sessions-%s.xlsx", now.Format("2006-01-02"))
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
