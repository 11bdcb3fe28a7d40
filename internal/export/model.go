// Package export compiles saved journal days into DOCX, PDF and XLSX files.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/pkg/utils"
)

type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOCX, FormatPDF, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", utils.ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Section is one exported day. Image holds JPEG bytes or nil when the day
// has no image or fetching it failed.
type Section struct {
	DayNumber     int
	Date          string
	Heading       string
	CategoryLabel string
	Topic         string
	Title         string
	Paragraphs    []string
	ImageURL      string
	Image         []byte
	Caption       string
}

// Document is what every renderer consumes.
type Document struct {
	Profile  dm.StudentProfile
	Sections []Section
	Cover    []byte
}

// File is a rendered export ready to be sent to the client.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

var blankLines = regexp.MustCompile(`\n[ \t]*\n+`)

// Paragraphs splits a body on blank lines. Single newlines stay inside a
// paragraph.
func Paragraphs(body string) []string {
	body = strings.ReplaceAll(strings.TrimSpace(body), "\r\n", "\n")
	if body == "" {
		return nil
	}
	var out []string
	for _, p := range blankLines.Split(body, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BuildSections keeps saved days that have generated content, in day order.
func BuildSections(days []dm.DayEntry) []Section {
	var out []Section
	for _, d := range days {
		if !d.IsSaved || !d.IsGenerated {
			continue
		}
		title := strings.TrimSpace(d.WorkTitle)
		out = append(out, Section{
			DayNumber:     d.DayNumber,
			Date:          d.Date,
			Heading:       fmt.Sprintf("%d. Gün - %s", d.DayNumber, d.Date),
			CategoryLabel: d.Category.Label(),
			Topic:         d.SpecificTopic,
			Title:         title,
			Paragraphs:    Paragraphs(d.Content),
			ImageURL:      d.ImageURL,
			Caption:       strings.TrimSpace(d.ImageCaption),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Filename derives a stable ASCII file name from the student name.
func Filename(studentName string, f Format) string {
	name := unsafeFilename.ReplaceAllString(utils.FoldASCII(studentName), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "Ogrenci"
	}
	return fmt.Sprintf("Staj_Defteri_%s.%s", name, f)
}
