package scale

import (
	"math"
	"time"
)

type unit int

const (
	unitMillisecond unit = iota
	unitSecond
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

// Interval is a calendar interval such as "every 5 minutes" or "every 3 months",
// evaluated in a fixed location. Boundaries of a stepped interval are the
// instants whose calendar field is a multiple of the step (minute 0, 5, 10...),
// matching d3's interval.every.
type Interval struct {
	unit unit
	step int
	loc  *time.Location
}

func newInterval(u unit, step int, loc *time.Location) Interval {
	if step < 1 {
		step = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	return Interval{unit: u, step: step, loc: loc}
}

// Floor returns the latest interval boundary at or before t.
func (iv Interval) Floor(t time.Time) time.Time {
	if iv.unit == unitMillisecond {
		return iv.floorMillis(t)
	}
	b := iv.base(t)
	for !iv.aligned(b) {
		b = iv.base(b.Add(-time.Millisecond))
	}
	return b
}

// Ceil returns the earliest interval boundary at or after t.
func (iv Interval) Ceil(t time.Time) time.Time {
	f := iv.Floor(t)
	if f.Equal(t) {
		return f
	}
	return iv.Next(f)
}

// Next returns the boundary following the boundary b.
func (iv Interval) Next(b time.Time) time.Time {
	if iv.unit == unitMillisecond {
		return b.Add(time.Duration(iv.step) * time.Millisecond)
	}
	n := b
	for {
		next := iv.base(iv.advance(n, 1))
		if !next.After(n) {
			// Repeated wall clock hour at a DST transition.
			next = iv.advance(n, 1)
		}
		n = next
		if iv.aligned(n) {
			return n
		}
	}
}

// Range returns every boundary in [start, stop).
func (iv Interval) Range(start, stop time.Time) []time.Time {
	var out []time.Time
	for t := iv.Ceil(start); t.Before(stop); t = iv.Next(t) {
		out = append(out, t)
	}
	return out
}

func (iv Interval) floorMillis(t time.Time) time.Time {
	ms := t.UnixMilli()
	step := int64(iv.step)
	q := ms / step
	if ms%step != 0 && ms < 0 {
		q--
	}
	return time.UnixMilli(q * step).In(iv.loc)
}

// base floors t to the start of its unit, ignoring the step.
func (iv Interval) base(t time.Time) time.Time {
	t = t.In(iv.loc)
	y, mo, d := t.Date()
	switch iv.unit {
	case unitSecond:
		return t.Truncate(time.Second)
	case unitMinute:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, iv.loc)
	case unitHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, iv.loc)
	case unitDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, iv.loc)
	case unitWeek:
		return time.Date(y, mo, d-int(t.Weekday()), 0, 0, 0, 0, iv.loc)
	case unitMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, iv.loc)
	case unitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, iv.loc)
	}
	return t
}

func (iv Interval) advance(t time.Time, n int) time.Time {
	switch iv.unit {
	case unitSecond:
		return t.Add(time.Duration(n) * time.Second)
	case unitMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case unitDay:
		return t.AddDate(0, 0, n)
	case unitWeek:
		return t.AddDate(0, 0, 7*n)
	case unitMonth:
		return t.AddDate(0, n, 0)
	case unitYear:
		return t.AddDate(n, 0, 0)
	}
	return t.Add(time.Duration(n) * time.Millisecond)
}

func (iv Interval) aligned(t time.Time) bool {
	if iv.step == 1 {
		return true
	}
	var field int
	switch iv.unit {
	case unitSecond:
		field = t.Second()
	case unitMinute:
		field = t.Minute()
	case unitHour:
		field = t.Hour()
	case unitDay:
		field = t.Day() - 1
	case unitMonth:
		field = int(t.Month()) - 1
	case unitYear:
		field = t.Year()
	default:
		return true
	}
	return field%iv.step == 0
}

const (
	durationSecond = 1000.0
	durationMinute = durationSecond * 60
	durationHour   = durationMinute * 60
	durationDay    = durationHour * 24
	durationWeek   = durationDay * 7
	durationMonth  = durationDay * 30
	durationYear   = durationDay * 365
)

var tickIntervals = []struct {
	unit     unit
	step     int
	duration float64
}{
	{unitSecond, 1, durationSecond},
	{unitSecond, 5, 5 * durationSecond},
	{unitSecond, 15, 15 * durationSecond},
	{unitSecond, 30, 30 * durationSecond},
	{unitMinute, 1, durationMinute},
	{unitMinute, 5, 5 * durationMinute},
	{unitMinute, 15, 15 * durationMinute},
	{unitMinute, 30, 30 * durationMinute},
	{unitHour, 1, durationHour},
	{unitHour, 3, 3 * durationHour},
	{unitHour, 6, 6 * durationHour},
	{unitHour, 12, 12 * durationHour},
	{unitDay, 1, durationDay},
	{unitDay, 2, 2 * durationDay},
	{unitWeek, 1, durationWeek},
	{unitMonth, 1, durationMonth},
	{unitMonth, 3, 3 * durationMonth},
	{unitYear, 1, durationYear},
}

// TickInterval picks the calendar interval that yields roughly count ticks
// between start and stop.
func TickInterval(start, stop time.Time, count int, loc *time.Location) Interval {
	a, b := millis(start), millis(stop)
	target := math.Abs(b-a) / float64(count)

	i := 0
	for i < len(tickIntervals) && tickIntervals[i].duration <= target {
		i++
	}
	switch {
	case i == len(tickIntervals):
		step := tickStep(a/durationYear, b/durationYear, count)
		return newInterval(unitYear, int(math.Max(step, 1)), loc)
	case i == 0:
		step := tickStep(a, b, count)
		return newInterval(unitMillisecond, int(math.Max(step, 1)), loc)
	}
	lo, hi := tickIntervals[i-1], tickIntervals[i]
	if target/lo.duration < hi.duration/target {
		return newInterval(lo.unit, lo.step, loc)
	}
	return newInterval(hi.unit, hi.step, loc)
}

// tickStep returns a 1, 2 or 5 times power-of-ten step splitting [start, stop]
// into about count pieces.
func tickStep(start, stop float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	step0 := math.Abs(stop-start) / float64(count)
	if step0 == 0 || math.IsNaN(step0) || math.IsInf(step0, 0) {
		return 0
	}
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	switch e := step0 / step1; {
	case e >= math.Sqrt(50):
		step1 *= 10
	case e >= math.Sqrt(10):
		step1 *= 5
	case e >= math.Sqrt(2):
		step1 *= 2
	}
	return step1
}

func millis(t time.Time) float64 {
	return float64(t.Unix())*1e3 + float64(t.Nanosecond())/1e6
}
