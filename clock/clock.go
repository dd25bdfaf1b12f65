// Package clock keeps wall time and date, advanced by the 1 Hz pulse
// from the tick loop.
package clock

import "sync"

// Time is a 24-hour wall clock reading.
type Time struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

// Date is a calendar date. Years 2000..2099 are supported.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// Supported calendar range.
const (
	MinYear = 2000
	MaxYear = 2099
)

// monthDays is indexed by month 1..12.
var monthDays = [13]uint8{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth applies the leap rule over the supported year range.
// Within 2000..2099 the Gregorian rule reduces to divisibility by 4:
// the only century year, 2000, is leap by the 400-year exception.
func DaysInMonth(month uint8, year uint16) uint8 {
	if month < 1 || month > 12 {
		return 0
	}
	days := monthDays[month]
	if month == 2 && year%4 == 0 {
		days++
	}
	return days
}

// Clock is the timekeeper. Accessors serialize against the 1 Hz
// updater; a run flag gates advancement.
type Clock struct {
	mu  sync.Mutex
	t   Time
	d   Date
	run bool
}

// New returns a clock holding the power-on default, noon on
// 1 Jan 2000, stopped.
func New() *Clock {
	return &Clock{
		t: Time{Hour: 12},
		d: Date{Year: 2000, Month: 1, Day: 1},
	}
}

// SetRunning gates the 1 Hz advance.
func (c *Clock) SetRunning(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run = on
}

// Running reports whether the clock advances.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run
}

// Time returns the current 24-hour time.
func (c *Clock) Time() Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// SetTime stores a 24-hour time. Values are the caller's contract.
func (c *Clock) SetTime(t Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Time12 returns the time in 12-hour form plus a PM flag.
func (c *Clock) Time12() (Time, bool) {
	c.mu.Lock()
	t := c.t
	c.mu.Unlock()

	pm := t.Hour >= 12
	switch {
	case t.Hour == 0:
		t.Hour = 12
	case t.Hour > 12:
		t.Hour -= 12
	}
	return t, pm
}

// SetTime12 stores a 12-hour time: hour24 = hour12 mod 12, plus 12
// when PM.
func (c *Clock) SetTime12(t Time, pm bool) {
	t.Hour = t.Hour % 12
	if pm {
		t.Hour += 12
	}
	c.SetTime(t)
}

// Date returns the current date.
func (c *Clock) Date() Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.d
}

// SetDate stores a date. Values are the caller's contract.
func (c *Clock) SetDate(d Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.d = d
}

// Advance moves time forward one second, rolling through minutes,
// hours, and the calendar. Called once per 1 Hz pulse; a no-op while
// the run flag is clear.
func (c *Clock) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.run {
		return
	}

	c.t.Second++
	if c.t.Second < 60 {
		return
	}
	c.t.Second = 0
	c.t.Minute++
	if c.t.Minute < 60 {
		return
	}
	c.t.Minute = 0
	c.t.Hour++
	if c.t.Hour < 24 {
		return
	}
	c.t.Hour = 0
	c.d.Day++
	if c.d.Day <= DaysInMonth(c.d.Month, c.d.Year) {
		return
	}
	c.d.Day = 1
	c.d.Month++
	if c.d.Month <= 12 {
		return
	}
	c.d.Month = 1
	c.d.Year++
}
