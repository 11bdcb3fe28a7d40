package domain_models

// Category is one of the two internship activity classes.
type Category string

const (
	CategoryProduction Category = "production"
	CategoryManagement Category = "management"
)

func (c Category) Valid() bool {
	return c == CategoryProduction || c == CategoryManagement
}

// Label is the heading used in prompts and exported documents.
func (c Category) Label() string {
	switch c {
	case CategoryProduction:
		return "Üretim/Tasarım"
	case CategoryManagement:
		return "Yönetim"
	default:
		return string(c)
	}
}

// VisualGuide tells the image picker what kind of picture fits a topic.
type VisualGuide string

const (
	VisualTechnicalDrawing VisualGuide = "technical_drawing"
	VisualFieldPhoto       VisualGuide = "field_photo"
	VisualDiagramTable     VisualGuide = "diagram_table"
)

func (v VisualGuide) Valid() bool {
	switch v {
	case VisualTechnicalDrawing, VisualFieldPhoto, VisualDiagramTable:
		return true
	}
	return false
}

type ImageSource string

const (
	ImageSourceSearch   ImageSource = "search"
	ImageSourceStock    ImageSource = "stock"
	ImageSourceAnalyzed ImageSource = "analyzed"
)

// DayEntry is one working day of the journal: plan fields plus generated
// content and per-day status flags.
type DayEntry struct {
	DayNumber       int         `json:"day_number"`
	Date            string      `json:"date"`
	Category        Category    `json:"category"`
	SpecificTopic   string      `json:"specific_topic"`
	VisualGuide     VisualGuide `json:"visual_guide"`
	RequiresVisual  bool        `json:"requires_visual"`
	WorkTitle       string      `json:"work_title,omitempty"`
	Content         string      `json:"content"`
	CustomDirective string      `json:"custom_directive,omitempty"`

	ImageURL     string      `json:"image_url,omitempty"`
	ImageSource  ImageSource `json:"image_source,omitempty"`
	ImageCaption string      `json:"image_caption,omitempty"`

	IsGenerated    bool `json:"is_generated"`
	IsLoading      bool `json:"is_loading"`
	IsSaved        bool `json:"is_saved"`
	IsEdited       bool `json:"is_edited"`
	IsImageLoading bool `json:"is_image_loading"`
	// BusySince is the unix millisecond time the running action started.
	BusySince int64 `json:"busy_since,omitempty"`
}

func (d DayEntry) HasImage() bool { return d.ImageURL != "" }

// Busy reports whether an action is already running for the day.
func (d DayEntry) Busy() bool { return d.IsLoading || d.IsImageLoading }

// PlanSlot is the structural part of a day, stored in the plan document.
type PlanSlot struct {
	DayNumber      int         `json:"day_number"`
	Date           string      `json:"date"`
	Category       Category    `json:"category"`
	SpecificTopic  string      `json:"specific_topic"`
	VisualGuide    VisualGuide `json:"visual_guide"`
	RequiresVisual bool        `json:"requires_visual"`
}

func (d DayEntry) Slot() PlanSlot {
	return PlanSlot{
		DayNumber:      d.DayNumber,
		Date:           d.Date,
		Category:       d.Category,
		SpecificTopic:  d.SpecificTopic,
		VisualGuide:    d.VisualGuide,
		RequiresVisual: d.RequiresVisual,
	}
}

func EntryFromSlot(s PlanSlot) DayEntry {
	return DayEntry{
		DayNumber:      s.DayNumber,
		Date:           s.Date,
		Category:       s.Category,
		SpecificTopic:  s.SpecificTopic,
		VisualGuide:    s.VisualGuide,
		RequiresVisual: s.RequiresVisual,
	}
}

// StudentProfile feeds prompts and export headers.
type StudentProfile struct {
	Name       string `json:"name"`
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Field      string `json:"field,omitempty"`
}

// Journal is the working state of one student.
type Journal struct {
	StudentID string         `json:"student_id"`
	Profile   StudentProfile `json:"profile"`
	Days      []DayEntry     `json:"days"`
}

// SavedDayNumbers returns the set of days currently persisted.
func SavedDayNumbers(days []DayEntry) map[int]bool {
	out := make(map[int]bool, len(days))
	for _, d := range days {
		if d.IsSaved {
			out[d.DayNumber] = true
		}
	}
	return out
}

func FindDay(days []DayEntry, dayNumber int) (DayEntry, bool) {
	for _, d := range days {
		if d.DayNumber == dayNumber {
			return d, true
		}
	}
	return DayEntry{}, false
}
