// utils/timeutil.go
package utils

import (
	"fmt"
	"time"
)

// DisplayDateLayout is the day format used on journal pages and holiday lists.
const DisplayDateLayout = "02.01.2006"

// ISODateLayout is accepted for configuration values.
const ISODateLayout = "2006-01-02"

// Turkey time location (TRT, +03:00)
var trLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/Istanbul"); err == nil {
		return loc
	}
	return time.FixedZone("TRT", 3*3600)
}()

// DateOnly truncates t to midnight in Turkey time.
func DateOnly(t time.Time) time.Time {
	t = t.In(trLoc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, trLoc)
}

func FormatDisplayTR(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(trLoc).Format(DisplayDateLayout)
}

// ParseDate accepts either 02.01.2006 or 2006-01-02 and returns midnight TRT.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{DisplayDateLayout, ISODateLayout} {
		if t, err := time.ParseInLocation(layout, s, trLoc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
