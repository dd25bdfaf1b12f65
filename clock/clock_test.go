package clock

import "testing"

func running(t Time, d Date) *Clock {
	c := New()
	c.SetTime(t)
	c.SetDate(d)
	c.SetRunning(true)
	return c
}

func TestSecondRollover(t *testing.T) {
	c := running(Time{12, 34, 59}, Date{2024, 6, 1})
	c.Advance()
	if got := c.Time(); got != (Time{12, 35, 0}) {
		t.Fatalf("time = %v", got)
	}
}

func TestMidnightRollover(t *testing.T) {
	c := running(Time{23, 59, 59}, Date{2024, 6, 30})
	c.Advance()
	if got := c.Time(); got != (Time{0, 0, 0}) {
		t.Fatalf("time = %v", got)
	}
	if got := c.Date(); got != (Date{2024, 7, 1}) {
		t.Fatalf("date = %v", got)
	}
}

func TestYearRollover(t *testing.T) {
	c := running(Time{23, 59, 59}, Date{2031, 12, 31})
	c.Advance()
	if got := c.Date(); got != (Date{2032, 1, 1}) {
		t.Fatalf("date = %v", got)
	}
}

func TestDayResetsToOne(t *testing.T) {
	c := running(Time{23, 59, 59}, Date{2023, 2, 28})
	c.Advance()
	if got := c.Date(); got != (Date{2023, 3, 1}) {
		t.Fatalf("date = %v", got)
	}
}

func TestLeapRule(t *testing.T) {
	for year := uint16(2000); year <= 2099; year++ {
		want := uint8(28)
		if year%4 == 0 {
			want = 29
		}
		if got := DaysInMonth(2, year); got != want {
			t.Errorf("DaysInMonth(2, %d) = %d, want %d", year, got, want)
		}
	}
	if DaysInMonth(2, 2000) != 29 {
		t.Error("2000 must be leap in the supported window")
	}
	if DaysInMonth(2, 2001) != 28 {
		t.Error("2001 must not be leap")
	}
}

func TestLeapFebruaryRollover(t *testing.T) {
	c := running(Time{23, 59, 59}, Date{2024, 2, 28})
	c.Advance()
	if got := c.Date(); got != (Date{2024, 2, 29}) {
		t.Fatalf("date = %v, want Feb 29", got)
	}
}

func TestStoppedClockHolds(t *testing.T) {
	c := New()
	c.SetTime(Time{1, 2, 3})
	c.Advance()
	if got := c.Time(); got != (Time{1, 2, 3}) {
		t.Fatalf("stopped clock advanced to %v", got)
	}
}

func TestTwelveHourConversion(t *testing.T) {
	cases := []struct {
		h24 uint8
		h12 uint8
		pm  bool
	}{
		{0, 12, false},
		{1, 1, false},
		{11, 11, false},
		{12, 12, true},
		{13, 1, true},
		{23, 11, true},
	}
	c := New()
	for _, cs := range cases {
		c.SetTime(Time{Hour: cs.h24})
		t12, pm := c.Time12()
		if t12.Hour != cs.h12 || pm != cs.pm {
			t.Errorf("%d:00 -> (%d, pm=%v), want (%d, pm=%v)", cs.h24, t12.Hour, pm, cs.h12, cs.pm)
		}

		c.SetTime12(Time{Hour: cs.h12}, cs.pm)
		if got := c.Time().Hour; got != cs.h24 {
			t.Errorf("SetTime12(%d, pm=%v) -> %d, want %d", cs.h12, cs.pm, got, cs.h24)
		}
	}
}
