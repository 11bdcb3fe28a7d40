package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stajdefteri/internal/models/db_models"
)

type IDayRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]db_models.DayRecord, error)
	GetDay(ctx context.Context, studentID string, dayNumber int) (*db_models.DayRecord, error)
	UpsertDay(ctx context.Context, record *db_models.DayRecord) error
	// DeleteDay reports whether a row existed.
	DeleteDay(ctx context.Context, studentID string, dayNumber int) (bool, error)
}

type DayRepository struct {
	db *gorm.DB
}

func NewDayRepository(db *gorm.DB) IDayRepository {
	return &DayRepository{db: db}
}

func (r DayRepository) ListByStudent(ctx context.Context, studentID string) ([]db_models.DayRecord, error) {
	var records []db_models.DayRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("day_number ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r DayRepository) GetDay(ctx context.Context, studentID string, dayNumber int) (*db_models.DayRecord, error) {
	var record db_models.DayRecord
	err := r.db.WithContext(ctx).
		First(&record, "student_id = ? AND day_number = ?", studentID, dayNumber).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r DayRepository) UpsertDay(ctx context.Context, record *db_models.DayRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "day_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"date", "category", "specific_topic", "visual_guide", "requires_visual",
			"work_title", "content", "custom_directive",
			"image_url", "image_source", "image_caption", "updated_at",
		}),
	}).Create(record).Error
}

func (r DayRepository) DeleteDay(ctx context.Context, studentID string, dayNumber int) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("student_id = ? AND day_number = ?", studentID, dayNumber).
		Delete(&db_models.DayRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
