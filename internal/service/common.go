package service

import (
	"fmt"
	"strings"
	"time"
)

func beginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateOnlyUTC collapses a timestamp to its UTC calendar date. Streak and
// consistency arithmetic compares calendar days, so mixed-offset
// activity dates are normalized here first.
func dateOnlyUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func validatePositiveFloat(name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%s must be > 0", name)
	}
	return nil
}

func parseDateArg(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", name, value)
	}
	return t, nil
}
