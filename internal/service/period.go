package service

import (
	"fmt"
	"time"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

// PeriodKey returns the canonical bucket label for the period containing
// date: day "2024-01-20", week "2024-W03" (ISO, Monday start), month
// "2024-01", quarter "2024-Q1", year "2024". An empty or unrecognized
// period gets day semantics.
func PeriodKey(date time.Time, period model.Period) string {
	switch period {
	case model.PeriodWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case model.PeriodMonth:
		return date.Format("2006-01")
	case model.PeriodQuarter:
		quarter := (int(date.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", date.Year(), quarter)
	case model.PeriodYear:
		return date.Format("2006")
	default:
		return date.Format("2006-01-02")
	}
}

// PeriodBounds returns the [start, end) boundaries of the period bucket
// containing date.
func PeriodBounds(date time.Time, period model.Period) (time.Time, time.Time) {
	switch period {
	case model.PeriodWeek:
		start := beginningOfWeek(date)
		return start, start.AddDate(0, 0, 7)
	case model.PeriodMonth:
		start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		return start, start.AddDate(0, 1, 0)
	case model.PeriodQuarter:
		firstMonth := time.Month((int(date.Month())-1)/3*3 + 1)
		start := time.Date(date.Year(), firstMonth, 1, 0, 0, 0, 0, date.Location())
		return start, start.AddDate(0, 3, 0)
	case model.PeriodYear:
		start := time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		start := beginningOfDay(date)
		return start, start.AddDate(0, 0, 1)
	}
}

// PeriodStarts enumerates the start of every period bucket from the
// bucket containing from through the bucket containing to, in order.
// The buckets are contiguous and non-overlapping; a partial bucket at
// either boundary is included whole.
func PeriodStarts(from, to time.Time, period model.Period) []time.Time {
	if to.Before(from) {
		return nil
	}
	starts := make([]time.Time, 0)
	start, end := PeriodBounds(from, period)
	for !start.After(to) {
		starts = append(starts, start)
		start = end
		_, end = PeriodBounds(start, period)
	}
	return starts
}

func beginningOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := t.AddDate(0, 0, -(weekday - 1))
	return beginningOfDay(start)
}
