package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	minutesPerDay = 24 * 60
	clockFormat   = "%02d:%02d"
)

// ParseClock reads "HH:MM" (24h) into minutes since midnight.
func ParseClock(s string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, false
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 || len(m) != 2 {
		return 0, false
	}
	return hh*60 + mm, true
}

func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf(clockFormat, minutes/60, minutes%60)
}

// ParseDate validates a YYYY-MM-DD calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClockWindow is a display window over the clock. Start and End are minutes
// since midnight; End <= Start means the window wraps past midnight.
type ClockWindow struct {
	Start int
	End   int
}

var (
	DayWindow       = ClockWindow{Start: 6 * 60, End: 21 * 60}
	OvernightWindow = ClockWindow{Start: 18 * 60, End: 9 * 60}
)

func (w ClockWindow) Wraps() bool { return w.End <= w.Start }

func (w ClockWindow) Length() int {
	if w.Wraps() {
		return w.End - w.Start + minutesPerDay
	}
	return w.End - w.Start
}

// Position maps a clock minute to [0,1] inside the window. Times outside the
// window are clipped to the nearest edge.
func (w ClockWindow) Position(minute int) float64 {
	length := w.Length()
	offset := minute - w.Start
	if w.Wraps() {
		offset = ((offset % minutesPerDay) + minutesPerDay) % minutesPerDay
		if offset > length {
			if offset-length <= minutesPerDay-offset {
				return 1
			}
			return 0
		}
	}
	switch {
	case offset <= 0:
		return 0
	case offset >= length:
		return 1
	}
	return float64(offset) / float64(length)
}

func (w ClockWindow) Bounds() (string, string) {
	return FormatClock(w.Start), FormatClock(w.End)
}
