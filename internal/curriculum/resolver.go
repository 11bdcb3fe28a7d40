package curriculum

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed curriculum.yaml
var defaultCurriculumYAML []byte

type WeekTheme struct {
	Week  int    `yaml:"week" json:"week"`
	Theme string `yaml:"theme" json:"theme"`
	Focus string `yaml:"focus" json:"focus"`
}

type Day struct {
	Day           int      `yaml:"day"`
	Objectives    []string `yaml:"objectives"`
	Prerequisites []int    `yaml:"prerequisites"`
	Difficulty    int      `yaml:"difficulty"`
}

type document struct {
	DaysPerWeek int         `yaml:"days_per_week"`
	Weeks       []WeekTheme `yaml:"weeks"`
	Days        []Day       `yaml:"days"`
}

// Bundle is the advisory guidance shown next to a day. It never gates
// generation.
type Bundle struct {
	DayNumber        int       `json:"day_number"`
	Week             int       `json:"week"`
	Theme            WeekTheme `json:"theme"`
	Objectives       []string  `json:"objectives"`
	Difficulty       int       `json:"difficulty"`
	Prerequisites    []int     `json:"prerequisites"`
	CompletedPrereqs []int     `json:"completed_prereqs"`
	AllPrereqsMet    bool      `json:"all_prereqs_met"`
}

// Table is a read-only curriculum keyed by day number.
type Table struct {
	daysPerWeek int
	weeks       map[int]WeekTheme
	days        map[int]Day
}

func Load(raw []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("curriculum: %w", err)
	}
	if doc.DaysPerWeek < 1 {
		return nil, fmt.Errorf("curriculum: days_per_week must be positive, got %d", doc.DaysPerWeek)
	}

	t := &Table{
		daysPerWeek: doc.DaysPerWeek,
		weeks:       make(map[int]WeekTheme, len(doc.Weeks)),
		days:        make(map[int]Day, len(doc.Days)),
	}
	for _, w := range doc.Weeks {
		t.weeks[w.Week] = w
	}
	for _, d := range doc.Days {
		if d.Day < 1 {
			return nil, fmt.Errorf("curriculum: invalid day number %d", d.Day)
		}
		if _, dup := t.days[d.Day]; dup {
			return nil, fmt.Errorf("curriculum: day %d listed twice", d.Day)
		}
		t.days[d.Day] = d
	}
	return t, nil
}

// Default returns the embedded table.
func Default() (*Table, error) {
	return Load(defaultCurriculumYAML)
}

// WeekOf returns ceil(day / daysPerWeek).
func (t *Table) WeekOf(day int) int {
	return (day + t.daysPerWeek - 1) / t.daysPerWeek
}

// Resolve builds the bundle for day given the set of saved day numbers.
// The second result is false when the table has no record for the day.
func (t *Table) Resolve(day int, saved map[int]bool) (Bundle, bool) {
	rec, ok := t.days[day]
	if !ok {
		return Bundle{}, false
	}

	week := t.WeekOf(day)
	theme, ok := t.weeks[week]
	if !ok {
		theme = WeekTheme{Week: week}
	}

	prereqs := uniqueSorted(rec.Prerequisites)
	completed := make([]int, 0, len(prereqs))
	for _, p := range prereqs {
		if saved[p] {
			completed = append(completed, p)
		}
	}

	return Bundle{
		DayNumber:        day,
		Week:             week,
		Theme:            theme,
		Objectives:       append([]string(nil), rec.Objectives...),
		Difficulty:       rec.Difficulty,
		Prerequisites:    prereqs,
		CompletedPrereqs: completed,
		AllPrereqsMet:    len(completed) == len(prereqs),
	}, true
}

func uniqueSorted(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
