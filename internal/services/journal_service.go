package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stajdefteri/internal/curriculum"
	"stajdefteri/internal/journal"
	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/internal/models/request_models"
	"stajdefteri/internal/planner"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

var tracer = otel.Tracer("stajdefteri/services")

type JournalServiceInterface interface {
	GetJournal(ctx context.Context, studentID string) (*dm.Journal, error)
	CreatePlan(ctx context.Context, studentID string, req request_models.CreatePlanRequest) (*dm.Journal, error)
	UpdateProfile(ctx context.Context, studentID string, req request_models.UpdateProfileRequest) (*dm.Journal, error)
	GenerateDay(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error)
	EditPlan(ctx context.Context, studentID string, dayNumber int, req request_models.EditPlanRequest) (dm.DayEntry, error)
	EditContent(ctx context.Context, studentID string, dayNumber int, req request_models.EditContentRequest) (dm.DayEntry, error)
	SaveDay(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error)
	DeleteDay(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error)
	ResetJournal(ctx context.Context, studentID string) error
	Curriculum(ctx context.Context, studentID string, dayNumber int) (*curriculum.Bundle, error)
}

type JournalService struct {
	workspace     *Workspace
	generator     *planner.Generator
	table         *curriculum.Table
	ai            utils.GenerativeClientInterface
	contextWindow int
	log           *logger.Logger
}

func NewJournalService(
	workspace *Workspace,
	generator *planner.Generator,
	table *curriculum.Table,
	ai utils.GenerativeClientInterface,
	contextWindow int,
	log *logger.Logger,
) JournalServiceInterface {
	return &JournalService{
		workspace:     workspace,
		generator:     generator,
		table:         table,
		ai:            ai,
		contextWindow: contextWindow,
		log:           log.With("service", "JournalService"),
	}
}

func (s *JournalService) GetJournal(ctx context.Context, studentID string) (*dm.Journal, error) {
	return s.workspace.View(ctx, studentID)
}

// CreatePlan generates a fresh plan. An existing plan must be reset first.
func (s *JournalService) CreatePlan(ctx context.Context, studentID string, req request_models.CreatePlanRequest) (*dm.Journal, error) {
	existing, err := s.workspace.View(ctx, studentID)
	switch {
	case err == nil && existing != nil:
		return nil, utils.ErrPlanExists
	case err != nil && !errors.Is(err, utils.ErrPlanNotFound):
		return nil, err
	}

	j := &dm.Journal{
		StudentID: studentID,
		Profile:   profileFrom(req),
	}
	j.Days = journal.Reduce(nil, journal.PlanLoaded{Days: s.generator.Generate()})

	if err := s.workspace.PersistPlan(ctx, j); err != nil {
		return nil, err
	}
	if err := s.workspace.Replace(ctx, j); err != nil {
		return nil, err
	}
	s.log.Info("plan created", "student_id", studentID, "days", len(j.Days))
	return j, nil
}

func (s *JournalService) UpdateProfile(ctx context.Context, studentID string, req request_models.UpdateProfileRequest) (*dm.Journal, error) {
	return s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		j.Profile = profileFrom(req)
		if err := s.workspace.PersistPlan(ctx, j); err != nil {
			return nil, err
		}
		return j, nil
	})
}

func profileFrom(req request_models.CreatePlanRequest) dm.StudentProfile {
	return dm.StudentProfile{
		Name:       strings.TrimSpace(req.Name),
		Company:    strings.TrimSpace(req.Company),
		Department: strings.TrimSpace(req.Department),
		Field:      strings.TrimSpace(req.Field),
	}
}

// GenerateDay writes the narrative for one day. The model call runs outside
// the student lock; on failure the day only loses its loading flag.
func (s *JournalService) GenerateDay(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error) {
	var (
		target  dm.DayEntry
		request journal.Request
	)
	_, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		day, err := findDay(j, dayNumber)
		if err != nil {
			return nil, err
		}
		if day.Busy() {
			return nil, utils.ErrDayBusy
		}
		if day.RequiresVisual && !day.HasImage() {
			return nil, utils.ErrImageRequired
		}
		target = day
		request = journal.BuildRequest(j.Profile, day, j.Days, s.contextWindow)
		j.Days = journal.Reduce(j.Days, journal.GenerateStarted{DayNumber: dayNumber, At: s.workspace.stamp()})
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}

	ctx, span := tracer.Start(ctx, "journal.generate_day")
	span.SetAttributes(attribute.Int("day_number", dayNumber), attribute.String("category", string(target.Category)))
	defer span.End()

	// Clears the flag when the model call panics.
	finished := false
	defer func() {
		if !finished {
			s.workspace.clearBusy(ctx, studentID, journal.GenerateFailed{DayNumber: dayNumber})
		}
	}()

	raw, genErr := s.ai.Generate(ctx, utils.GenerateRequest{
		System:      request.System,
		Prompt:      request.User,
		Temperature: 0.7,
	})
	var parsed journal.ParsedContent
	if genErr == nil {
		parsed = journal.ParseResponse(raw)
		if parsed.Body == "" {
			genErr = fmt.Errorf("%w: empty body", utils.ErrUnexpectedAI)
		}
	}

	finished = true
	if genErr != nil {
		span.RecordError(genErr)
		span.SetStatus(codes.Error, "generation failed")
		s.log.Warn("generation failed", "student_id", studentID, "day", dayNumber, "error", genErr)
		s.workspace.clearBusy(ctx, studentID, journal.GenerateFailed{DayNumber: dayNumber})
		if errors.Is(genErr, utils.ErrUnexpectedAI) {
			return dm.DayEntry{}, genErr
		}
		return dm.DayEntry{}, fmt.Errorf("%w: %v", utils.ErrGenerationFailed, genErr)
	}

	j, err := s.workspace.Apply(context.WithoutCancel(ctx), studentID, journal.GenerateSucceeded{
		DayNumber:     dayNumber,
		Content:       parsed.Body,
		WorkTitle:     parsed.WorkTitle,
		VisualCaption: parsed.VisualCaption,
	})
	if err != nil {
		return dm.DayEntry{}, err
	}
	s.log.Info("day generated", "student_id", studentID, "day", dayNumber, "has_title", parsed.HasTitle)
	return findDay(j, dayNumber)
}

func (s *JournalService) EditPlan(ctx context.Context, studentID string, dayNumber int, req request_models.EditPlanRequest) (dm.DayEntry, error) {
	action := journal.PlanEdited{DayNumber: dayNumber, CustomDirective: req.CustomDirective}
	if req.Category != nil {
		cat := dm.Category(*req.Category)
		if !cat.Valid() {
			return dm.DayEntry{}, utils.ErrInvalidInput
		}
		action.Category = &cat
	}
	if req.SpecificTopic != nil {
		topic := utils.CollapseSpaces(*req.SpecificTopic)
		if topic == "" {
			return dm.DayEntry{}, utils.ErrInvalidInput
		}
		action.SpecificTopic = &topic
	}
	return s.editPlan(ctx, studentID, action)
}

// editPlan applies a structural edit and writes the plan document before the
// working copy changes.
func (s *JournalService) editPlan(ctx context.Context, studentID string, action journal.PlanEdited) (dm.DayEntry, error) {
	j, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		day, err := findDay(j, action.DayNumber)
		if err != nil {
			return nil, err
		}
		if day.IsLoading {
			return nil, utils.ErrDayBusy
		}
		j.Days = journal.Reduce(j.Days, action)
		if err := s.workspace.PersistPlan(ctx, j); err != nil {
			return nil, err
		}
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}
	return findDay(j, action.DayNumber)
}

func (s *JournalService) EditContent(ctx context.Context, studentID string, dayNumber int, req request_models.EditContentRequest) (dm.DayEntry, error) {
	action := journal.ContentEdited{
		DayNumber: dayNumber,
		Content:   strings.TrimSpace(req.Content),
		WorkTitle: req.WorkTitle,
	}
	j, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		day, err := findDay(j, dayNumber)
		if err != nil {
			return nil, err
		}
		if day.IsLoading {
			return nil, utils.ErrDayBusy
		}
		j.Days = journal.Reduce(j.Days, action)
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}
	return findDay(j, dayNumber)
}

// SaveDay persists the day. A failed write leaves the working copy as it was.
func (s *JournalService) SaveDay(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error) {
	j, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		day, err := findDay(j, dayNumber)
		if err != nil {
			return nil, err
		}
		if day.Busy() {
			return nil, utils.ErrDayBusy
		}
		if !day.IsGenerated || strings.TrimSpace(day.Content) == "" {
			return nil, utils.ErrNothingToSave
		}
		if err := s.workspace.PersistDay(ctx, studentID, day); err != nil {
			return nil, err
		}
		j.Days = journal.Reduce(j.Days, journal.Saved{DayNumber: dayNumber})
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}
	s.log.Info("day saved", "student_id", studentID, "day", dayNumber)
	return findDay(j, dayNumber)
}

// DeleteDay removes the persisted record. The entry and its content stay in
// the working list with the saved flag cleared.
func (s *JournalService) DeleteDay(ctx context.Context, studentID string, dayNumber int) (dm.DayEntry, error) {
	j, err := s.workspace.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		if _, err := findDay(j, dayNumber); err != nil {
			return nil, err
		}
		if err := s.workspace.RemoveDay(ctx, studentID, dayNumber); err != nil {
			return nil, err
		}
		j.Days = journal.Reduce(j.Days, journal.Deleted{DayNumber: dayNumber})
		return j, nil
	})
	if err != nil {
		return dm.DayEntry{}, err
	}
	s.log.Info("day deleted", "student_id", studentID, "day", dayNumber)
	return findDay(j, dayNumber)
}

// ResetJournal wipes the plan and every saved day. The next GetJournal
// reports that no plan exists.
func (s *JournalService) ResetJournal(ctx context.Context, studentID string) error {
	if err := s.workspace.ResetStudent(ctx, studentID); err != nil {
		return err
	}
	if err := s.workspace.Forget(ctx, studentID); err != nil {
		s.log.Warn("workspace delete failed after reset", "student_id", studentID, "error", err)
	}
	s.log.Info("journal reset", "student_id", studentID)
	return nil
}

// Curriculum returns nil without error when the table has no data for the day.
func (s *JournalService) Curriculum(ctx context.Context, studentID string, dayNumber int) (*curriculum.Bundle, error) {
	j, err := s.workspace.View(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if _, err := findDay(j, dayNumber); err != nil {
		return nil, err
	}
	bundle, ok := s.table.Resolve(dayNumber, dm.SavedDayNumbers(j.Days))
	if !ok {
		return nil, nil
	}
	return &bundle, nil
}
