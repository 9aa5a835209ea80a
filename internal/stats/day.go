package stats

import (
	"time"

	"github.com/vytor/wrongnote/internal/models"
)

// DateOnly truncates t to its calendar day in loc and returns that day as UTC
// midnight, which is the key every DailyStat row is stored under. A nil loc
// uses t's own location.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a day key in storage format.
func FormatDay(day time.Time) string {
	return day.Format(models.DateLayout)
}

// ParseDay parses a storage-format day key.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, s, time.UTC)
}
