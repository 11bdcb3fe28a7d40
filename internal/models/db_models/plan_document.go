package db_models

import (
	"encoding/json"

	"gorm.io/datatypes"

	dm "stajdefteri/internal/models/domain_models"
)

// PlanDocument is the singleton plan of a student: profile plus the
// structural fields of every day.
type PlanDocument struct {
	BaseModel
	StudentID  string `gorm:"size:128;not null;uniqueIndex"`
	Name       string `gorm:"size:256"`
	Company    string `gorm:"size:256"`
	Department string `gorm:"size:256"`
	Field      string `gorm:"size:256"`
	Days       datatypes.JSON
}

func (PlanDocument) TableName() string { return "plan_documents" }

func NewPlanDocument(studentID string, profile dm.StudentProfile, slots []dm.PlanSlot) (PlanDocument, error) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return PlanDocument{}, err
	}
	return PlanDocument{
		StudentID:  studentID,
		Name:       profile.Name,
		Company:    profile.Company,
		Department: profile.Department,
		Field:      profile.Field,
		Days:       datatypes.JSON(raw),
	}, nil
}

func (p PlanDocument) Profile() dm.StudentProfile {
	return dm.StudentProfile{Name: p.Name, Company: p.Company, Department: p.Department, Field: p.Field}
}

func (p PlanDocument) Slots() ([]dm.PlanSlot, error) {
	if len(p.Days) == 0 {
		return nil, nil
	}
	var slots []dm.PlanSlot
	if err := json.Unmarshal(p.Days, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
