package game

import (
	"strconv"
	"time"
)

// Period is a fixed-width, clock-aligned round. The height is the number of
// whole widths since the unix epoch, so periods are totally ordered and
// previous = height-1.
type Period int64

func (p Period) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// ParsePeriod parses the decimal form produced by String.
func ParsePeriod(s string) (Period, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return Period(n), err
}

// Clock derives periods from wall-clock time.
type Clock struct {
	Width time.Duration
	Grace time.Duration

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (c *Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Time returns the clock's current instant.
func (c *Clock) Time() time.Time {
	return c.now()
}

// PeriodAt returns the period containing t.
func (c *Clock) PeriodAt(t time.Time) Period {
	return Period(t.Unix() / int64(c.Width/time.Second))
}

// Current returns the period containing the present instant.
func (c *Clock) Current() Period {
	return c.PeriodAt(c.now())
}

// Previous returns the period one window before Current.
func (c *Clock) Previous() Period {
	return c.Current() - 1
}

// NextBoundary returns the instant the current period ends.
func (c *Clock) NextBoundary() time.Time {
	next := int64(c.Current()+1) * int64(c.Width/time.Second)
	return time.Unix(next, 0)
}

// UntilBoundary returns the time remaining in the current period.
func (c *Clock) UntilBoundary() time.Duration {
	return c.NextBoundary().Sub(c.now())
}

// InGrace reports whether t falls within the grace window immediately after
// a period boundary, during which a deposit may be folded back onto the
// previous period's record.
func (c *Clock) InGrace(t time.Time) bool {
	start := int64(c.PeriodAt(t)) * int64(c.Width/time.Second)
	return t.Sub(time.Unix(start, 0)) < c.Grace
}
