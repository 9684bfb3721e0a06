package scale

import (
	"fmt"
	"time"
)

// DefaultTickCount is the tick density used by Nice and Ticks when a caller
// has no preference.
const DefaultTickCount = 10

// Time maps instants onto a continuous pixel range.
type Time struct {
	d0, d1 time.Time
	r0, r1 float64
	loc    *time.Location
	empty  bool
}

// NewTime returns a time scale over [d0, d1] mapped onto [r0, r1]. Calendar
// arithmetic for niceing, ticks and labels happens in loc (nil means UTC).
func NewTime(d0, d1 time.Time, r0, r1 float64, loc *time.Location) *Time {
	if loc == nil {
		loc = time.UTC
	}
	return &Time{d0: d0.In(loc), d1: d1.In(loc), r0: r0, r1: r1, loc: loc}
}

// EmptyTime returns a scale with no data behind it. Its domain is the zero-width
// instant of the Unix epoch; it maps everything to the middle of the range and
// has no ticks.
func EmptyTime(r0, r1 float64, loc *time.Location) *Time {
	s := NewTime(time.Unix(0, 0), time.Unix(0, 0), r0, r1, loc)
	s.empty = true
	return s
}

// Nice extends the domain outwards to the boundaries of the tick interval
// chosen for count ticks.
func (s *Time) Nice(count int) *Time {
	if s.empty {
		return s
	}
	lo, hi := s.d0, s.d1
	reverse := hi.Before(lo)
	if reverse {
		lo, hi = hi, lo
	}
	iv := TickInterval(lo, hi, count, s.loc)
	lo, hi = iv.Floor(lo), iv.Ceil(hi)
	if reverse {
		lo, hi = hi, lo
	}
	s.d0, s.d1 = lo, hi
	return s
}

// Map returns the pixel position of t.
func (s *Time) Map(t time.Time) float64 {
	span := millis(s.d1) - millis(s.d0)
	if span == 0 {
		return (s.r0 + s.r1) / 2
	}
	return s.r0 + (millis(t)-millis(s.d0))/span*(s.r1-s.r0)
}

// Domain returns the (possibly niced) domain bounds.
func (s *Time) Domain() (time.Time, time.Time) { return s.d0, s.d1 }

// Range returns the pixel range bounds.
func (s *Time) Range() (float64, float64) { return s.r0, s.r1 }

// Empty reports whether the scale was built without any data.
func (s *Time) Empty() bool { return s.empty }

// Location returns the location calendar arithmetic is done in.
func (s *Time) Location() *time.Location { return s.loc }

// Ticks returns about count calendar-aligned instants covering the domain,
// both ends inclusive.
func (s *Time) Ticks(count int) []time.Time {
	if s.empty {
		return nil
	}
	lo, hi := s.d0, s.d1
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	iv := TickInterval(lo, hi, count, s.loc)
	return iv.Range(lo, hi.Add(time.Millisecond))
}

// TickFormat labels t with the coarsest calendar unit it is not aligned to:
// milliseconds, seconds, minutes, hours, weekday, month-day, month name or year.
func (s *Time) TickFormat(t time.Time) string {
	t = t.In(s.loc)
	floor := func(u unit) time.Time { return newInterval(u, 1, s.loc).Floor(t) }

	switch {
	case floor(unitSecond).Before(t):
		return fmt.Sprintf(".%03d", t.Nanosecond()/int(time.Millisecond))
	case floor(unitMinute).Before(t):
		return t.Format(":05")
	case floor(unitHour).Before(t):
		return t.Format("03:04")
	case floor(unitDay).Before(t):
		return t.Format("03 PM")
	case floor(unitMonth).Before(t):
		if floor(unitWeek).Before(t) {
			return t.Format("Mon 02")
		}
		return t.Format("Jan 02")
	case floor(unitYear).Before(t):
		return t.Format("January")
	}
	return t.Format("2006")
}
