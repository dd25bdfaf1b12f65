package app

import (
	"fmt"
	"time"

	"nixieclock/clock"
	"nixieclock/event"
	"nixieclock/timer"
)

type displayMode uint8

const (
	modeClock12 displayMode = iota
	modeClock24
	modeDate
)

const (
	blinkLow  = '1'
	blinkHigh = '9'
	normal    = '9'
)

// Editor field selector. Hours/month, minutes/day and seconds/year share
// positions 1..3; 4 and 5 terminate the editor.
const (
	selectHours  = 1
	selectFirst  = 1
	selectLast   = 3
	selectSet    = 4
	selectCancel = 5
)

type repeatMode uint8

const (
	repeatOff repeatMode = iota
	repeatOn
	repeatInhibit
)

func hour12(h uint8) (uint8, bool) {
	pm := h >= 12
	h %= 12
	if h == 0 {
		h = 12
	}
	return h, pm
}

func amPmChar(pm bool) byte {
	if pm {
		return 'X'
	}
	return 'x'
}

// clockDisplay is the top level mode loop: render the time or date into
// the secondary buffer and crossfade once per update, forever.
func (s *system) clockDisplay() {
	mode := modeClock24
	clockMode := modeClock24

	s.secondary.WriteByte('\f')
	s.display.SetCrossfadeRate(1)

	for {
		const annunciator = 'y' // alarm indicator, unused for now
		switch mode {
		case modeClock12:
			t := s.clock.Time()
			h, pm := hour12(t.Hour)
			fmt.Fprintf(s.secondary, "\r~%2d.%02d.%02d%c%c",
				h, t.Minute, t.Second, amPmChar(pm), annunciator)

		case modeClock24:
			t := s.clock.Time()
			fmt.Fprintf(s.secondary, "\r~x%02d.%02d.%02d%c",
				t.Hour, t.Minute, t.Second, annunciator)

		case modeDate:
			d := s.clock.Date()
			fmt.Fprintf(s.secondary, "\r~`x%02d%02d%02d%c",
				d.Month, d.Day, d.Year%100, annunciator)
		}

		s.display.Crossfade(s.secondary)

		ev := s.events.Wait(0)
		switch {
		case ev.Kind == event.Button0Pressed:
			if mode == modeDate {
				mode = clockMode
			} else {
				mode = modeDate
			}

		case ev.Kind == event.Button5Pressed:
			if mode == modeClock12 || mode == modeClock24 {
				if clockMode == modeClock12 {
					clockMode = modeClock24
					s.secondary.Write([]byte("\f  24"))
				} else {
					clockMode = modeClock12
					s.secondary.Write([]byte("\f  12"))
				}
				s.display.Crossfade(s.secondary)
				time.Sleep(500 * time.Millisecond)
			}
			mode = clockMode

		case ev.Kind == event.Button1Long:
			s.terminalMode()

		case ev.Kind == event.RightButtonLong:
			if mode == modeDate {
				d := s.clock.Date()
				if s.setDate(&d) {
					s.clock.SetDate(d)
				}
			} else {
				t := s.clock.Time()
				if s.setTime(clockMode, &t) {
					s.clock.SetTime(t)
				}
			}
		}
	}
}

// setTime runs the time editor on a scratch copy. The left encoder picks
// the field, the right encoder and the six buttons adjust it, chords
// reset fields. Returns true if the right encoder button accepted the
// edit, false if the left one cancelled.
func (s *system) setTime(clockMode displayMode, t *clock.Time) bool {
	selected := selectHours
	blink := byte(blinkLow)
	refresh := true
	repeat := repeatOff

	blinkTimer := s.timers.Start(timer.MsToTicks(200), true)
	repeatTimer := s.timers.Start(timer.MsToTicks(100), true)
	defer s.timers.Stop(blinkTimer)
	defer s.timers.Stop(repeatTimer)

	for selected <= selectLast {
		if refresh {
			refresh = false
			hi := fieldIntensity(selected, 1, blink)
			mi := fieldIntensity(selected, 2, blink)
			si := fieldIntensity(selected, 3, blink)
			hour := t.Hour
			amPm := byte('x')
			if clockMode == modeClock12 {
				var pm bool
				hour, pm = hour12(t.Hour)
				amPm = amPmChar(pm)
			}
			fmt.Fprintf(s.primary, "\r*%c%2d~.*%c%02d~.*%c%02d*%c%c",
				hi, hour, mi, t.Minute, si, t.Second, hi, amPm)
		}

		ev := s.events.Wait(0)
		switch {
		case ev.Kind == event.TimerExpired && ev.Data == blinkTimer:
			blink = toggleBlink(blink)
			refresh = true

		case ev.Kind == event.TimerExpired && ev.Data == repeatTimer:
			if repeat == repeatOn {
				s.repeatHeldButtons()
			}

		case ev.Kind == event.Button0Pressed:
			t.Hour = wrapDec(t.Hour, 23)
			selected, refresh = 1, true
		case ev.Kind == event.Button1Pressed:
			t.Hour = wrapInc(t.Hour, 23)
			selected, refresh = 1, true
		case ev.Kind == event.Button2Pressed:
			t.Minute = wrapDec(t.Minute, 59)
			selected, refresh = 2, true
		case ev.Kind == event.Button3Pressed:
			t.Minute = wrapInc(t.Minute, 59)
			selected, refresh = 2, true
		case ev.Kind == event.Button4Pressed:
			t.Second = wrapDec(t.Second, 59)
			selected, refresh = 3, true
		case ev.Kind == event.Button5Pressed:
			t.Second = wrapInc(t.Second, 59)
			selected, refresh = 3, true

		case ev.Kind == event.Chord:
			switch ev.Data {
			case 0x03:
				t.Hour = 0
				selected = 1
			case 0x0C:
				t.Minute = 0
				selected = 2
			case 0x30:
				t.Second = 0
				selected = 3
			case 0x21:
				*t = clock.Time{}
				selected = 1
			default:
				continue
			}
			repeat = repeatInhibit
			refresh = true

		case ev.Kind == event.LeftRotaryMoved:
			selected = wrapSelect(selected + int(ev.Delta()))
			blink = blinkLow
			refresh = true

		case ev.Kind == event.RightRotaryMoved:
			refresh = true
			switch selected {
			case 1:
				t.Hour = wrapAdd(t.Hour, ev.Delta(), 24)
			case 2:
				t.Minute = wrapAdd(t.Minute, ev.Delta(), 60)
			case 3:
				t.Second = wrapAdd(t.Second, ev.Delta(), 60)
			}

		case ev.Kind == event.RightButtonPressed:
			selected = selectSet
		case ev.Kind == event.LeftButtonPressed:
			selected = selectCancel

		case repeat == repeatOff && isDigitButtonLong(ev.Kind):
			repeat = repeatOn
		case isDigitButtonReleased(ev.Kind):
			repeat = repeatOff
		}
	}

	return selected == selectSet
}

// setDate mirrors setTime for month, day and year. Whenever month or
// year change, the day is clamped to the new month length.
func (s *system) setDate(d *clock.Date) bool {
	selected := selectFirst
	blink := byte(blinkLow)
	refresh := true
	clamp := false
	repeat := repeatOff

	blinkTimer := s.timers.Start(timer.MsToTicks(200), true)
	repeatTimer := s.timers.Start(timer.MsToTicks(100), true)
	defer s.timers.Stop(blinkTimer)
	defer s.timers.Stop(repeatTimer)

	for selected <= selectLast {
		if refresh {
			if clamp {
				clamp = false
				if max := clock.DaysInMonth(d.Month, d.Year); d.Day > max {
					d.Day = max
				}
			}
			refresh = false
			mi := fieldIntensity(selected, 1, blink)
			di := fieldIntensity(selected, 2, blink)
			yi := fieldIntensity(selected, 3, blink)
			fmt.Fprintf(s.primary, "\r*%c%02d*%c%02d*%c%02d",
				mi, d.Month, di, d.Day, yi, d.Year%100)
		}

		ev := s.events.Wait(0)
		switch {
		case ev.Kind == event.TimerExpired && ev.Data == blinkTimer:
			blink = toggleBlink(blink)
			refresh = true

		case ev.Kind == event.TimerExpired && ev.Data == repeatTimer:
			if repeat == repeatOn {
				s.repeatHeldButtons()
			}

		case ev.Kind == event.Button0Pressed:
			d.Month--
			if d.Month < 1 {
				d.Month = 12
			}
			selected, refresh, clamp = 1, true, true
		case ev.Kind == event.Button1Pressed:
			d.Month++
			if d.Month > 12 {
				d.Month = 1
			}
			selected, refresh, clamp = 1, true, true
		case ev.Kind == event.Button2Pressed:
			d.Day--
			if d.Day < 1 {
				d.Day = clock.DaysInMonth(d.Month, d.Year)
			}
			selected, refresh, clamp = 2, true, true
		case ev.Kind == event.Button3Pressed:
			d.Day++
			if d.Day > clock.DaysInMonth(d.Month, d.Year) {
				d.Day = 1
			}
			selected, refresh, clamp = 2, true, true
		case ev.Kind == event.Button4Pressed:
			if d.Year <= clock.MinYear {
				d.Year = clock.MaxYear
			} else {
				d.Year--
			}
			selected, refresh, clamp = 3, true, true
		case ev.Kind == event.Button5Pressed:
			if d.Year >= clock.MaxYear {
				d.Year = clock.MinYear
			} else {
				d.Year++
			}
			selected, refresh, clamp = 3, true, true

		case ev.Kind == event.Chord:
			switch ev.Data {
			case 0x03:
				d.Month = 1
				selected = 1
			case 0x0C:
				d.Day = 1
				selected = 2
			case 0x30:
				d.Year = clock.MinYear
				selected = 3
			case 0x21:
				*d = clock.Date{Year: clock.MinYear, Month: 1, Day: 1}
				selected = 1
			default:
				continue
			}
			repeat = repeatInhibit
			refresh, clamp = true, true

		case ev.Kind == event.LeftRotaryMoved:
			selected = wrapSelect(selected + int(ev.Delta()))
			blink = blinkLow
			refresh = true

		case ev.Kind == event.RightRotaryMoved:
			refresh, clamp = true, true
			switch selected {
			case 1:
				m := int(d.Month) + int(ev.Delta())
				for m < 1 {
					m += 12
				}
				for m > 12 {
					m -= 12
				}
				d.Month = uint8(m)
			case 2:
				max := int(clock.DaysInMonth(d.Month, d.Year))
				day := int(d.Day) + int(ev.Delta())
				if day < 1 {
					day = max
				} else if day > max {
					day = 1
				}
				d.Day = uint8(day)
			case 3:
				y := int(d.Year) + int(ev.Delta())
				if y < clock.MinYear {
					y = clock.MaxYear
				} else if y > clock.MaxYear {
					y = clock.MinYear
				}
				d.Year = uint16(y)
			}

		case ev.Kind == event.RightButtonPressed:
			selected = selectSet
		case ev.Kind == event.LeftButtonPressed:
			selected = selectCancel

		case repeat == repeatOff && isDigitButtonLong(ev.Kind):
			repeat = repeatOn
		case isDigitButtonReleased(ev.Kind):
			repeat = repeatOff
		}
	}

	return selected == selectSet
}

// terminalMode mirrors serial input to the primary display until ESC
// arrives or button 1 is pressed.
func (s *system) terminalMode() {
	_ = s.port.WriteString("\r\nterminal mode ready\r\n")
	s.primary.Write([]byte("\v\f"))

	for {
		if ev := s.events.Next(0); ev.Kind == event.Button1Pressed {
			break
		}

		ch, ok := s.port.TryReadByte()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		if ch == 0x1B {
			break
		}
		_ = s.port.WriteByte(ch)
		s.primary.WriteByte(ch)
	}

	_ = s.port.WriteString("\r\nterminal mode exit\r\n")
	s.primary.WriteByte('\v')
}

// repeatHeldButtons re-injects pressed events for every digit button
// still held, implementing auto-repeat.
func (s *system) repeatHeldButtons() {
	held := s.buttons.Debounced()
	for i := uint8(0); i < 6; i++ {
		if held&(1<<i) != 0 {
			s.events.Queue().Add(event.ButtonKind(i, event.Pressed), 0)
		}
	}
}

func fieldIntensity(selected, field int, blink byte) byte {
	if selected == field {
		return blink
	}
	return normal
}

func toggleBlink(blink byte) byte {
	if blink == blinkLow {
		return blinkHigh
	}
	return blinkLow
}

func wrapSelect(selected int) int {
	if selected < selectFirst {
		return selectLast
	}
	if selected > selectLast {
		return selectFirst
	}
	return selected
}

func wrapInc(v, max uint8) uint8 {
	if v >= max {
		return 0
	}
	return v + 1
}

func wrapDec(v, max uint8) uint8 {
	if v == 0 {
		return max
	}
	return v - 1
}

func wrapAdd(v uint8, delta int8, modulo int) uint8 {
	n := int(v) + int(delta)
	if n < 0 {
		n += modulo
	} else if n >= modulo {
		n -= modulo
	}
	return uint8(n)
}

func isDigitButtonLong(k event.Kind) bool {
	return k.IsLong() && k.Button() < 6
}

func isDigitButtonReleased(k event.Kind) bool {
	return k.IsReleased() && k.Button() < 6
}
