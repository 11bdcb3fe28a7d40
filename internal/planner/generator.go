package planner

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/pkg/utils"
)

// Config describes the calendar window and the shape of the plan.
type Config struct {
	Start          time.Time
	End            time.Time
	TotalDays      int
	ProductionDays int
	ManagementDays int
	VisualDays     int
	Holidays       []time.Time
}

func (c Config) Validate() error {
	if c.TotalDays < 1 {
		return errors.New("planner: total days must be positive")
	}
	if c.End.Before(c.Start) {
		return errors.New("planner: end date is before start date")
	}
	if c.ProductionDays < 0 || c.ManagementDays < 0 {
		return errors.New("planner: category counts must not be negative")
	}
	if c.ProductionDays+c.ManagementDays != c.TotalDays {
		return fmt.Errorf("planner: category ratio %d:%d does not add up to %d days",
			c.ProductionDays, c.ManagementDays, c.TotalDays)
	}
	if c.VisualDays < 0 {
		return errors.New("planner: visual days must not be negative")
	}
	return nil
}

// Generator builds plan skeletons. The random source is injected so plans can
// be reproduced in tests.
type Generator struct {
	cfg   Config
	pools TopicPools

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(cfg Config, pools TopicPools, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for _, cat := range []dm.Category{dm.CategoryProduction, dm.CategoryManagement} {
		if len(pools[cat]) == 0 {
			return nil, fmt.Errorf("planner: no topics for category %s", cat)
		}
	}
	return &Generator{cfg: cfg, pools: pools, rng: rng}, nil
}

// Generate returns up to TotalDays entries, one per working day in the window.
// A window with fewer working days yields a shorter plan without error.
func (g *Generator) Generate() []dm.DayEntry {
	g.mu.Lock()
	defer g.mu.Unlock()

	categories := g.shuffledCategories()
	dates := WorkingDays(g.cfg.Start, g.cfg.End, g.cfg.Holidays, g.cfg.TotalDays)

	days := make([]dm.DayEntry, 0, len(dates))
	for i, date := range dates {
		cat := categories[i]
		topic := g.pickTopic(cat)
		days = append(days, dm.DayEntry{
			DayNumber:     i + 1,
			Date:          utils.FormatDisplayTR(date),
			Category:      cat,
			SpecificTopic: topic,
			VisualGuide:   ClassifyTopic(topic),
		})
	}

	for _, idx := range g.visualSubset(len(days)) {
		days[idx].RequiresVisual = true
	}
	return days
}

// Config returns the settings the generator was built with.
func (g *Generator) Config() Config { return g.cfg }

// shuffledCategories builds the category multiset of the configured ratio and
// shuffles it with Fisher–Yates.
func (g *Generator) shuffledCategories() []dm.Category {
	pool := make([]dm.Category, 0, g.cfg.TotalDays)
	for i := 0; i < g.cfg.ProductionDays; i++ {
		pool = append(pool, dm.CategoryProduction)
	}
	for i := 0; i < g.cfg.ManagementDays; i++ {
		pool = append(pool, dm.CategoryManagement)
	}
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// visualSubset picks VisualDays distinct indexes in [0,n). The size is clamped
// to n so an oversized request cannot spin.
func (g *Generator) visualSubset(n int) []int {
	k := g.cfg.VisualDays
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	return g.rng.Perm(n)[:k]
}

func (g *Generator) pickTopic(cat dm.Category) string {
	pool := g.pools[cat]
	return pool[g.rng.Intn(len(pool))]
}

// WorkingDays walks start..end inclusive and returns at most limit dates that
// are neither weekend days nor holidays.
func WorkingDays(start, end time.Time, holidays []time.Time, limit int) []time.Time {
	off := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		off[utils.FormatDisplayTR(h)] = struct{}{}
	}

	var out []time.Time
	last := utils.DateOnly(end)
	for d := utils.DateOnly(start); !d.After(last) && len(out) < limit; d = d.AddDate(0, 0, 1) {
		if utils.IsWeekend(d) {
			continue
		}
		if _, ok := off[utils.FormatDisplayTR(d)]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}
