package services

import (
	"context"
	"fmt"
	"time"

	"stajdefteri/internal/journal"
	"stajdefteri/internal/models/db_models"
	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/internal/repositories"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

// Workspace owns the working copy of every journal. All mutations go through
// Update, which serializes per student and stores the result.
type Workspace struct {
	store WorkspaceStore
	plans repositories.IPlanRepository
	days  repositories.IDayRepository
	locks WorkspaceLocker
	log   *logger.Logger

	// A busy flag older than busyTimeout belongs to a call that never
	// finished and is cleared on the next load.
	busyTimeout time.Duration
	now         func() time.Time
}

const defaultBusyTimeout = 5 * time.Minute

// NewWorkspace uses the store's own lock when it has one, otherwise a mutex
// per student in this process.
func NewWorkspace(store WorkspaceStore, plans repositories.IPlanRepository, days repositories.IDayRepository, log *logger.Logger) *Workspace {
	var locks WorkspaceLocker = newStudentLocks()
	if l, ok := store.(WorkspaceLocker); ok {
		locks = l
	}
	return &Workspace{
		store: store,
		plans: plans,
		days:  days,
		locks: locks,
		log:   log.With("component", "Workspace"),

		busyTimeout: defaultBusyTimeout,
		now:         time.Now,
	}
}

// View returns a snapshot of the student's journal.
func (w *Workspace) View(ctx context.Context, studentID string) (*dm.Journal, error) {
	unlock, err := w.locks.Lock(ctx, studentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	j, err := w.loadLocked(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, utils.ErrPlanNotFound
	}
	return j, nil
}

// Update loads the journal, runs fn and stores what fn returns. fn receives a
// private copy; returning an error leaves the stored journal untouched.
func (w *Workspace) Update(ctx context.Context, studentID string, fn func(j *dm.Journal) (*dm.Journal, error)) (*dm.Journal, error) {
	unlock, err := w.locks.Lock(ctx, studentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	j, err := w.loadLocked(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, utils.ErrPlanNotFound
	}
	next, err := fn(j)
	if err != nil {
		return nil, err
	}
	if err := w.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("%w: save workspace: %v", utils.ErrDatabaseError, err)
	}
	return next, nil
}

// Apply folds one reducer action into the journal.
func (w *Workspace) Apply(ctx context.Context, studentID string, action journal.Action) (*dm.Journal, error) {
	return w.Update(ctx, studentID, func(j *dm.Journal) (*dm.Journal, error) {
		j.Days = journal.Reduce(j.Days, action)
		return j, nil
	})
}

// Replace stores j as the working copy without loading first. Used when a
// plan is created.
func (w *Workspace) Replace(ctx context.Context, j *dm.Journal) error {
	unlock, err := w.locks.Lock(ctx, j.StudentID)
	if err != nil {
		return err
	}
	defer unlock()
	if err := w.store.Save(ctx, j); err != nil {
		return fmt.Errorf("%w: save workspace: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (w *Workspace) Forget(ctx context.Context, studentID string) error {
	unlock, err := w.locks.Lock(ctx, studentID)
	if err != nil {
		return err
	}
	defer unlock()
	return w.store.Delete(ctx, studentID)
}

// loadLocked returns the working copy, rebuilding it from the document store
// when the cache has none. It returns nil when the student has no plan.
func (w *Workspace) loadLocked(ctx context.Context, studentID string) (*dm.Journal, error) {
	j, ok, err := w.store.Load(ctx, studentID)
	if err != nil {
		w.log.Warn("workspace load failed, rebuilding from database", "student_id", studentID, "error", err)
	} else if ok {
		return w.expireBusy(studentID, j), nil
	}

	plan, err := w.plans.GetPlanByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: load plan: %v", utils.ErrDatabaseError, err)
	}
	if plan == nil {
		return nil, nil
	}
	slots, err := plan.Slots()
	if err != nil {
		return nil, fmt.Errorf("%w: decode plan: %v", utils.ErrDatabaseError, err)
	}
	records, err := w.days.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: load days: %v", utils.ErrDatabaseError, err)
	}

	j = &dm.Journal{StudentID: studentID, Profile: plan.Profile()}
	j.Days = journal.Reduce(nil, journal.PlanLoaded{Days: mergeRecords(slots, records)})

	if err := w.store.Save(ctx, j); err != nil {
		w.log.Warn("workspace save failed after rebuild", "student_id", studentID, "error", err)
	}
	w.log.Debug("workspace rebuilt from database", "student_id", studentID, "saved_days", len(records))
	return j, nil
}

// clearBusy applies a failure action that drops a busy flag. It runs even
// when the request context is already cancelled.
func (w *Workspace) clearBusy(ctx context.Context, studentID string, action journal.Action) {
	if _, err := w.Apply(context.WithoutCancel(ctx), studentID, action); err != nil {
		w.log.Error("could not clear busy flag", "student_id", studentID, "action", fmt.Sprintf("%T", action), "error", err)
	}
}

// stamp is the start time recorded with a busy flag.
func (w *Workspace) stamp() int64 { return w.now().UnixMilli() }

func (w *Workspace) expireBusy(studentID string, j *dm.Journal) *dm.Journal {
	before := w.now().Add(-w.busyTimeout).UnixMilli()
	for _, d := range j.Days {
		if d.Busy() && d.BusySince < before {
			w.log.Warn("clearing stale busy flag", "student_id", studentID, "day", d.DayNumber, "busy_since", d.BusySince)
		}
	}
	j.Days = journal.Reduce(j.Days, journal.BusyExpired{Before: before})
	return j
}

// mergeRecords lays saved day records over the plan skeleton. Structural
// fields always come from the plan; a record only counts as saved while its
// category and topic still match the plan slot.
func mergeRecords(slots []dm.PlanSlot, records []db_models.DayRecord) []dm.DayEntry {
	byDay := make(map[int]db_models.DayRecord, len(records))
	for _, r := range records {
		byDay[r.DayNumber] = r
	}
	days := make([]dm.DayEntry, 0, len(slots))
	for _, s := range slots {
		d := dm.EntryFromSlot(s)
		if r, ok := byDay[s.DayNumber]; ok {
			rec := r.ToEntry()
			d.WorkTitle = rec.WorkTitle
			d.Content = rec.Content
			d.CustomDirective = rec.CustomDirective
			d.ImageURL = rec.ImageURL
			d.ImageSource = rec.ImageSource
			d.ImageCaption = rec.ImageCaption
			d.IsGenerated = rec.IsGenerated
			d.IsSaved = rec.Category == s.Category && rec.SpecificTopic == s.SpecificTopic
			d.IsEdited = !d.IsSaved && d.IsGenerated
		}
		days = append(days, d)
	}
	return days
}

func (w *Workspace) PersistDay(ctx context.Context, studentID string, entry dm.DayEntry) error {
	rec := db_models.DayRecordFromEntry(studentID, entry)
	if err := w.days.UpsertDay(ctx, &rec); err != nil {
		return fmt.Errorf("%w: save day %d: %v", utils.ErrDatabaseError, entry.DayNumber, err)
	}
	return nil
}

func (w *Workspace) PersistPlan(ctx context.Context, j *dm.Journal) error {
	slots := make([]dm.PlanSlot, 0, len(j.Days))
	for _, d := range j.Days {
		slots = append(slots, d.Slot())
	}
	doc, err := db_models.NewPlanDocument(j.StudentID, j.Profile, slots)
	if err != nil {
		return fmt.Errorf("%w: encode plan: %v", utils.ErrDatabaseError, err)
	}
	if err := w.plans.UpsertPlan(ctx, &doc); err != nil {
		return fmt.Errorf("%w: save plan: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (w *Workspace) RemoveDay(ctx context.Context, studentID string, dayNumber int) error {
	if _, err := w.days.DeleteDay(ctx, studentID, dayNumber); err != nil {
		return fmt.Errorf("%w: delete day %d: %v", utils.ErrDatabaseError, dayNumber, err)
	}
	return nil
}

func (w *Workspace) ResetStudent(ctx context.Context, studentID string) error {
	if err := w.plans.ResetStudent(ctx, studentID); err != nil {
		return fmt.Errorf("%w: reset: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func findDay(j *dm.Journal, dayNumber int) (dm.DayEntry, error) {
	d, ok := dm.FindDay(j.Days, dayNumber)
	if !ok {
		return dm.DayEntry{}, utils.ErrDayNotFound
	}
	return d, nil
}
