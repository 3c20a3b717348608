// Package export writes mood and journal history to a spreadsheet.
package export

import (
	"fmt"
	"io"
	"strings"

	"wave-client/internal/models"
	"wave-client/internal/service"

	"github.com/xuri/excelize/v2"
)

const (
	MoodSheet    = "Mood"
	JournalSheet = "Journal"

	timeLayout = "2006-01-02 15:04:05"
)

var (
	MoodHeader    = []string{"Date", "Mood", "Label", "Note"}
	JournalHeader = []string{"Date", "Content", "Tags", "Time Capsule", "Reflection"}

	moodWidths    = []float64{20, 8, 12, 50}
	journalWidths = []float64{20, 60, 25, 20, 50}
)

// WriteHistory writes an .xlsx workbook with one sheet per history to w.
func WriteHistory(w io.Writer, moods []models.MoodItem, journal []models.JournalItem) error {
	f := excelize.NewFile()
	defer f.Close()

	moodIndex, err := f.NewSheet(MoodSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(JournalSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(moodIndex)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	moodRows := make([][]any, 0, len(moods))
	for _, m := range moods {
		note := ""
		if m.Note != nil {
			note = *m.Note
		}
		moodRows = append(moodRows, []any{formatTime(m.CreatedAt), m.Mood, service.MoodMeta(m.Mood).Label, note})
	}
	if err := writeSheet(f, MoodSheet, MoodHeader, moodWidths, headerStyle, moodRows); err != nil {
		return err
	}

	journalRows := make([][]any, 0, len(journal))
	for _, j := range journal {
		capsule, reflection := "", ""
		if j.TimeCapsuleAt != nil {
			capsule = formatTime(*j.TimeCapsuleAt)
		}
		if j.Reflection != nil {
			reflection = *j.Reflection
		}
		journalRows = append(journalRows, []any{formatTime(j.CreatedAt), j.Content, strings.Join(j.Tags, ", "), capsule, reflection})
	}
	if err := writeSheet(f, JournalSheet, JournalHeader, journalWidths, headerStyle, journalRows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, widths []float64, headerStyle int, rows [][]any) error {
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		for col, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell value at row %d, col %d: %w", i+2, col+1, err)
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func formatTime(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
