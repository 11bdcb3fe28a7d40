package response_models

import (
	"stajdefteri/internal/curriculum"
	dm "stajdefteri/internal/models/domain_models"
)

type JournalSummary struct {
	TotalDays     int `json:"total_days"`
	GeneratedDays int `json:"generated_days"`
	SavedDays     int `json:"saved_days"`
	VisualDays    int `json:"visual_days"`
}

type JournalResponse struct {
	Profile dm.StudentProfile `json:"profile"`
	Summary JournalSummary    `json:"summary"`
	Days    []dm.DayEntry     `json:"days"`
}

func NewJournalResponse(j *dm.Journal) JournalResponse {
	resp := JournalResponse{Profile: j.Profile, Days: j.Days}
	resp.Summary.TotalDays = len(j.Days)
	for _, d := range j.Days {
		if d.IsGenerated {
			resp.Summary.GeneratedDays++
		}
		if d.IsSaved {
			resp.Summary.SavedDays++
		}
		if d.RequiresVisual {
			resp.Summary.VisualDays++
		}
	}
	return resp
}

type CurriculumResponse struct {
	Available bool               `json:"available"`
	Bundle    *curriculum.Bundle `json:"bundle,omitempty"`
}
