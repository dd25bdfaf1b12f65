// Package app is the clock application: it wires the input, display,
// player and timekeeping layers to the hardware and runs the user
// interface loop.
package app

import (
	"nixieclock/button"
	"nixieclock/clock"
	"nixieclock/event"
	"nixieclock/hal"
	"nixieclock/internal/buildinfo"
	"nixieclock/nixie"
	"nixieclock/player"
	"nixieclock/rotary"
	"nixieclock/serial"
	"nixieclock/timer"
)

const startupScore = "TQ:120:M8:O4:CHGFIED>CH<GFIED>CH<GFIEFDH."

type Config struct {
	// SkipIntro suppresses the startup tune and digit roll.
	SkipIntro bool
}

// New initializes the clock and starts its goroutines with the default
// config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// Run starts the clock and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s := newSystem(h, cfg)
	s.start()
	return func() error { return nil }
}

type system struct {
	h   hal.HAL
	cfg Config

	clock   *clock.Clock
	timers  *timer.Pool
	buttons *button.Scanner
	dials   *rotary.Decoder
	events  *event.Scanner
	tunes   *player.Player
	port    *serial.Port

	display   *nixie.Display
	primary   *nixie.Stream
	secondary *nixie.Stream

	secondDiv uint16
}

func newSystem(h hal.HAL, cfg Config) *system {
	primaryBuf := nixie.NewBuffer()
	secondaryBuf := nixie.NewBuffer()

	s := &system{
		h:         h,
		cfg:       cfg,
		clock:     clock.New(),
		timers:    timer.NewPool(),
		buttons:   button.NewScanner(h.Buttons()),
		dials:     rotary.NewDecoder(h.LeftEncoder(), h.RightEncoder()),
		tunes:     player.New(h.Tone()),
		port:      serial.New(h.Serial(), serial.Config{AutoCRLF: true}),
		display:   nixie.NewDisplay(h.Segments(), primaryBuf),
		primary:   nixie.NewStream(primaryBuf),
		secondary: nixie.NewStream(secondaryBuf),
	}
	s.events = event.NewScanner(event.NewQueue(), s.buttons, s.dials, s.timers)

	s.clock.SetRunning(true)
	s.buttons.SetEnabled(true)
	s.display.SetEnabled(true)

	return s
}

func (s *system) start() {
	go s.tickLoop()
	go s.run()
}

func (s *system) tickLoop() {
	for range s.h.Time().Ticks() {
		s.tick()
	}
}

// tick is the heartbeat fan-out. Refresh runs first to bound visual
// jitter; the player runs last because tone updates are the least
// time-critical.
func (s *system) tick() {
	s.display.RefreshStep()
	s.buttons.Scan()
	s.timers.Update()
	s.tunes.Service()

	s.secondDiv++
	if s.secondDiv >= hal.TickHz {
		s.secondDiv = 0
		s.clock.Advance()
		s.events.Queue().Add(event.OneSecondElapsed, 0)
	}

	s.events.Kick()
}

func (s *system) run() {
	s.h.Logger().WriteLineString("nixieclock " + buildinfo.Short())
	_ = s.port.WriteString("\r\nnixieclock " + buildinfo.Short() + "\r\n")

	if !s.cfg.SkipIntro {
		s.tunes.Start(startupScore)
		s.displayTest()
	}

	s.clockDisplay()
}

// displayTest rolls each digit across all six tubes, one per second,
// alternating the lamp and aux annunciators. Any input cuts it short.
func (s *system) displayTest() {
	s.display.SetCrossfadeRate(nixie.MaxCrossfadeRate)

	for digit := byte('0'); digit <= '9'; digit++ {
		if digit&0x01 != 0 {
			s.secondary.Write([]byte("\r`XY"))
		} else {
			s.secondary.Write([]byte("\r<>xy"))
		}
		for i := 0; i < nixie.Width; i++ {
			s.secondary.WriteByte(digit)
		}

		s.display.Crossfade(s.secondary)

		if ev := s.events.Wait(0); ev.Kind != event.OneSecondElapsed {
			break
		}
	}
}
