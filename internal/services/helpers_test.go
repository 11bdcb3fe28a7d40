package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stajdefteri/internal/curriculum"
	"stajdefteri/internal/infra"
	"stajdefteri/internal/models/db_models"
	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/internal/planner"
	"stajdefteri/internal/repositories"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := infra.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// fakeAI answers every call with fn and records the requests it saw.
type fakeAI struct {
	mu    sync.Mutex
	fn    func(req utils.GenerateRequest) (string, error)
	calls []utils.GenerateRequest
}

func (f *fakeAI) Generate(_ context.Context, req utils.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return "", errors.New("no answer scripted")
	}
	return fn(req)
}

func (f *fakeAI) Close() error { return nil }

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAI) lastCall() utils.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// failingDays lets tests break writes to the day table.
type failingDays struct {
	repositories.IDayRepository
	failUpsert bool
	failDelete bool
}

func (f *failingDays) UpsertDay(ctx context.Context, rec *db_models.DayRecord) error {
	if f.failUpsert {
		return errors.New("disk full")
	}
	return f.IDayRepository.UpsertDay(ctx, rec)
}

func (f *failingDays) DeleteDay(ctx context.Context, studentID string, dayNumber int) (bool, error) {
	if f.failDelete {
		return false, errors.New("connection reset")
	}
	return f.IDayRepository.DeleteDay(ctx, studentID, dayNumber)
}

type testEnv struct {
	db    *gorm.DB
	plans repositories.IPlanRepository
	days  *failingDays
	ws    *Workspace
	ai    *fakeAI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	env := &testEnv{
		db:    db,
		plans: repositories.NewPlanRepository(db),
		days:  &failingDays{IDayRepository: repositories.NewDayRepository(db)},
		ai:    &fakeAI{},
	}
	env.ws = NewWorkspace(NewMemoryWorkspaceStore(time.Hour), env.plans, env.days, logger.Nop())
	return env
}

// restart returns a workspace with an empty cache over the same database.
func (e *testEnv) restart() *Workspace {
	return NewWorkspace(NewMemoryWorkspaceStore(time.Hour), e.plans, e.days, logger.Nop())
}

func (e *testEnv) journalService(t *testing.T) JournalServiceInterface {
	t.Helper()
	start, _ := utils.ParseDate("2025-09-01")
	end, _ := utils.ParseDate("2025-10-10")
	pools, err := planner.DefaultTopicPools()
	if err != nil {
		t.Fatalf("pools: %v", err)
	}
	gen, err := planner.NewGenerator(planner.Config{
		Start: start, End: end, TotalDays: 30, ProductionDays: 20, ManagementDays: 10, VisualDays: 7,
	}, pools, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	table, err := curriculum.Default()
	if err != nil {
		t.Fatalf("curriculum: %v", err)
	}
	return NewJournalService(e.ws, gen, table, e.ai, 5, logger.Nop())
}

// seed stores a hand-made journal as both plan document and working copy.
func (e *testEnv) seed(t *testing.T, studentID string, days ...dm.DayEntry) {
	t.Helper()
	ctx := context.Background()
	j := &dm.Journal{StudentID: studentID, Profile: dm.StudentProfile{Name: "Deniz Kaya"}, Days: days}
	if err := e.ws.PersistPlan(ctx, j); err != nil {
		t.Fatalf("persist plan: %v", err)
	}
	for _, d := range days {
		if d.IsSaved {
			if err := e.ws.PersistDay(ctx, studentID, d); err != nil {
				t.Fatalf("persist day: %v", err)
			}
		}
	}
	if err := e.ws.Replace(ctx, j); err != nil {
		t.Fatalf("replace: %v", err)
	}
}

func (e *testEnv) day(t *testing.T, studentID string, n int) dm.DayEntry {
	t.Helper()
	j, err := e.ws.View(context.Background(), studentID)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	d, ok := dm.FindDay(j.Days, n)
	if !ok {
		t.Fatalf("day %d missing", n)
	}
	return d
}

func plainDay(n int) dm.DayEntry {
	return dm.DayEntry{
		DayNumber:     n,
		Date:          fmt.Sprintf("%02d.09.2025", n),
		Category:      dm.CategoryProduction,
		SpecificTopic: "Pano montajı",
		VisualGuide:   dm.VisualFieldPhoto,
	}
}
