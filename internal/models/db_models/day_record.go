package db_models

import dm "stajdefteri/internal/models/domain_models"

// DayRecord is one saved journal day.
type DayRecord struct {
	BaseModel
	StudentID       string `gorm:"size:128;not null;uniqueIndex:idx_student_day"`
	DayNumber       int    `gorm:"not null;uniqueIndex:idx_student_day"`
	Date            string `gorm:"size:10"`
	Category        string `gorm:"size:32"`
	SpecificTopic   string `gorm:"size:512"`
	VisualGuide     string `gorm:"size:32"`
	RequiresVisual  bool
	WorkTitle       string `gorm:"size:512"`
	Content         string `gorm:"type:text"`
	CustomDirective string `gorm:"type:text"`
	ImageURL        string `gorm:"type:text"`
	ImageSource     string `gorm:"size:16"`
	ImageCaption    string `gorm:"type:text"`
}

func (DayRecord) TableName() string { return "day_records" }

func DayRecordFromEntry(studentID string, d dm.DayEntry) DayRecord {
	return DayRecord{
		StudentID:       studentID,
		DayNumber:       d.DayNumber,
		Date:            d.Date,
		Category:        string(d.Category),
		SpecificTopic:   d.SpecificTopic,
		VisualGuide:     string(d.VisualGuide),
		RequiresVisual:  d.RequiresVisual,
		WorkTitle:       d.WorkTitle,
		Content:         d.Content,
		CustomDirective: d.CustomDirective,
		ImageURL:        d.ImageURL,
		ImageSource:     string(d.ImageSource),
		ImageCaption:    d.ImageCaption,
	}
}

// ToEntry rebuilds a saved day entry.
func (r DayRecord) ToEntry() dm.DayEntry {
	return dm.DayEntry{
		DayNumber:       r.DayNumber,
		Date:            r.Date,
		Category:        dm.Category(r.Category),
		SpecificTopic:   r.SpecificTopic,
		VisualGuide:     dm.VisualGuide(r.VisualGuide),
		RequiresVisual:  r.RequiresVisual,
		WorkTitle:       r.WorkTitle,
		Content:         r.Content,
		CustomDirective: r.CustomDirective,
		ImageURL:        r.ImageURL,
		ImageSource:     dm.ImageSource(r.ImageSource),
		ImageCaption:    r.ImageCaption,
		IsGenerated:     r.Content != "",
		IsSaved:         true,
	}
}
