// Package journal holds the pure parts of the day list: state transitions,
// prompt assembly and response parsing.
package journal

import (
	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/internal/planner"
)

// Action is a single typed mutation of the day list.
type Action interface {
	apply(days []dm.DayEntry) []dm.DayEntry
}

// PlanLoaded replaces the whole list, e.g. after plan creation or a reload.
type PlanLoaded struct{ Days []dm.DayEntry }

// GenerateStarted marks the day as loading. At is a unix millisecond
// timestamp used to expire flags left behind by an abandoned call.
type GenerateStarted struct {
	DayNumber int
	At        int64
}

// GenerateSucceeded stores freshly generated text. The stored copy no longer
// matches what was persisted, so the day becomes unsaved.
type GenerateSucceeded struct {
	DayNumber     int
	Content       string
	WorkTitle     string
	VisualCaption *string
}

// GenerateFailed only clears the loading flag; earlier content stays.
type GenerateFailed struct{ DayNumber int }

type ImageLoading struct {
	DayNumber int
	At        int64
}

type ImageSelected struct {
	DayNumber int
	URL       string
	Source    dm.ImageSource
	Caption   string
}

type ImageFailed struct{ DayNumber int }

type ImageCleared struct{ DayNumber int }

// BusyExpired clears busy flags that were set before Before (unix ms).
type BusyExpired struct{ Before int64 }

type Saved struct{ DayNumber int }

// Deleted flips the saved flag off. The entry and its content stay in the list.
type Deleted struct{ DayNumber int }

// PlanEdited changes the structural fields of a day. Nil fields are left as is.
type PlanEdited struct {
	DayNumber       int
	Category        *dm.Category
	SpecificTopic   *string
	CustomDirective *string
}

type ContentEdited struct {
	DayNumber int
	Content   string
	WorkTitle *string
}

// Reduce returns the list after applying action. The input slice is never
// modified.
func Reduce(days []dm.DayEntry, action Action) []dm.DayEntry {
	if action == nil {
		return clone(days)
	}
	return action.apply(days)
}

func clone(days []dm.DayEntry) []dm.DayEntry {
	if days == nil {
		return nil
	}
	out := make([]dm.DayEntry, len(days))
	copy(out, days)
	return out
}

// update copies the list and runs fn on the entry with the given number.
func update(days []dm.DayEntry, dayNumber int, fn func(*dm.DayEntry)) []dm.DayEntry {
	out := clone(days)
	for i := range out {
		if out[i].DayNumber == dayNumber {
			fn(&out[i])
			break
		}
	}
	return out
}

func (a PlanLoaded) apply(_ []dm.DayEntry) []dm.DayEntry { return clone(a.Days) }

func (a GenerateStarted) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.IsLoading = true
		d.BusySince = a.At
	})
}

func (a GenerateSucceeded) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.Content = a.Content
		d.WorkTitle = a.WorkTitle
		if a.VisualCaption != nil {
			d.ImageCaption = *a.VisualCaption
		}
		d.IsGenerated = true
		d.IsLoading = false
		d.BusySince = 0
		d.IsEdited = false
		d.IsSaved = false
	})
}

func (a GenerateFailed) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.IsLoading = false
		d.BusySince = 0
	})
}

func (a ImageLoading) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.IsImageLoading = true
		d.BusySince = a.At
	})
}

func (a ImageSelected) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.ImageURL = a.URL
		d.ImageSource = a.Source
		d.ImageCaption = a.Caption
		d.IsImageLoading = false
		d.BusySince = 0
	})
}

func (a ImageFailed) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.IsImageLoading = false
		d.BusySince = 0
	})
}

func (a ImageCleared) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.ImageURL = ""
		d.ImageSource = ""
		d.ImageCaption = ""
		d.IsImageLoading = false
		d.BusySince = 0
	})
}

func (a BusyExpired) apply(days []dm.DayEntry) []dm.DayEntry {
	out := clone(days)
	for i := range out {
		if out[i].Busy() && out[i].BusySince < a.Before {
			out[i].IsLoading = false
			out[i].IsImageLoading = false
			out[i].BusySince = 0
		}
	}
	return out
}

func (a Saved) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.IsSaved = true
		d.IsEdited = false
	})
}

func (a Deleted) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) { d.IsSaved = false })
}

func (a PlanEdited) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		changed := false
		if a.Category != nil && *a.Category != d.Category {
			d.Category = *a.Category
			changed = true
		}
		if a.SpecificTopic != nil && *a.SpecificTopic != d.SpecificTopic {
			d.SpecificTopic = *a.SpecificTopic
			d.VisualGuide = planner.ClassifyTopic(d.SpecificTopic)
			changed = true
		}
		if a.CustomDirective != nil {
			d.CustomDirective = *a.CustomDirective
		}
		if changed && d.IsGenerated {
			d.IsEdited = true
			d.IsSaved = false
		}
	})
}

func (a ContentEdited) apply(days []dm.DayEntry) []dm.DayEntry {
	return update(days, a.DayNumber, func(d *dm.DayEntry) {
		d.Content = a.Content
		if a.WorkTitle != nil {
			d.WorkTitle = *a.WorkTitle
		}
		d.IsGenerated = d.Content != ""
		d.IsEdited = true
		d.IsSaved = false
	})
}
