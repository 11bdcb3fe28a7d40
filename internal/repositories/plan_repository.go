package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stajdefteri/internal/infra"
	"stajdefteri/internal/models/db_models"
)

type IPlanRepository interface {
	GetPlanByStudent(ctx context.Context, studentID string) (*db_models.PlanDocument, error)
	UpsertPlan(ctx context.Context, plan *db_models.PlanDocument) error
	// ResetStudent removes the plan and every saved day in one transaction.
	ResetStudent(ctx context.Context, studentID string) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p PlanRepository) GetPlanByStudent(ctx context.Context, studentID string) (*db_models.PlanDocument, error) {
	var plan db_models.PlanDocument
	err := p.db.WithContext(ctx).First(&plan, "student_id = ?", studentID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (p PlanRepository) UpsertPlan(ctx context.Context, plan *db_models.PlanDocument) error {
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "company", "department", "field", "days", "updated_at"}),
	}).Create(plan).Error
}

func (p PlanRepository) ResetStudent(ctx context.Context, studentID string) error {
	return infra.WithTransaction(p.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&db_models.DayRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("student_id = ?", studentID).Delete(&db_models.PlanDocument{}).Error
	})
}
