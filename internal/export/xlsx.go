package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Staj Defteri"

var summaryHeader = []string{"Gün", "Tarih", "Kategori", "Konu", "Çalışma Başlığı", "Özet", "Görsel"}

// RenderXLSX writes a one row per day overview of the exported sections.
func RenderXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range summaryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F3A5F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "G1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for r, s := range doc.Sections {
		row := []any{s.DayNumber, s.Date, s.CategoryLabel, s.Topic, s.Title, summaryOf(s), hasImage(s)}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", s.DayNumber, err)
		}
	}

	widths := map[string]float64{"A": 6, "B": 12, "C": 16, "D": 40, "E": 36, "F": 80, "G": 8}
	for col, w := range widths {
		if err := f.SetColWidth(summarySheet, col, col, w); err != nil {
			return nil, fmt.Errorf("xlsx width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryOf(s Section) string {
	if len(s.Paragraphs) == 0 {
		return ""
	}
	return strings.TrimSpace(s.Paragraphs[0])
}

func hasImage(s Section) string {
	if s.ImageURL != "" {
		return "Var"
	}
	return "Yok"
}
