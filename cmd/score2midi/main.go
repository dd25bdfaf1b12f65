//go:build !tinygo

// Command score2midi renders a music score in the clock's notation to a
// Standard MIDI File. The score is interpreted by the same player state
// machine the firmware uses, so timing quirks (note/rest ratio, bookmark
// repeats, tempo commands) survive the conversion.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"nixieclock/hal"
	"nixieclock/player"
)

// recorder captures tone generator programming instead of making sound.
type recorder struct {
	period   uint16
	prescale hal.Prescale
	muted    bool
	gain     uint8
}

func (r *recorder) SetPeriod(period uint16, p hal.Prescale) {
	r.period = period
	r.prescale = p
}

func (r *recorder) Mute(mute bool)     { r.muted = mute }
func (r *recorder) SetGain(gain uint8) { r.gain = gain }

// key returns the sounding MIDI key, or -1 while silent.
func (r *recorder) key() int {
	if r.muted || r.prescale == hal.PrescaleOff {
		return -1
	}
	div := float64(r.prescale.Divisor())
	freq := float64(hal.ToneClockHz) / (div * (float64(r.period) + 1) * 2)
	k := int(math.Round(69 + 12*math.Log2(freq/440)))
	if k < 0 {
		k = 0
	} else if k > 127 {
		k = 127
	}
	return k
}

func (r *recorder) velocity() uint8 {
	return 48 + 10*r.gain
}

func main() {
	out := flag.String("o", "score.mid", "output MIDI file")
	maxTicks := flag.Int("max-ticks", 10*player.TicksPerSecond*60, "tick cap for scores with infinite repeats")
	flag.Parse()

	var score string
	if flag.NArg() > 0 {
		score = strings.Join(flag.Args(), " ")
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("score2midi: read stdin: %v", err)
		}
		score = strings.TrimSpace(string(data))
	}
	if score == "" {
		fmt.Fprintln(os.Stderr, "usage: score2midi [-o file] [score]")
		os.Exit(2)
	}

	rec := &recorder{}
	p := player.New(rec)
	p.Start(score)

	// One SMF tick per player tick: 625 ticks per quarter at 60 BPM
	// makes the delta times line up without rescaling.
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(player.TicksPerSecond)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(60))

	const channel = 0
	sounding := -1
	delta := uint32(0)
	for i := 0; i < *maxTicks && !p.Stopped(); i++ {
		p.Service()
		k := rec.key()
		if k == sounding {
			delta++
			continue
		}
		if sounding >= 0 {
			tr.Add(delta, midi.NoteOff(channel, uint8(sounding)))
			delta = 0
		}
		if k >= 0 {
			tr.Add(delta, midi.NoteOn(channel, uint8(k), rec.velocity()))
			delta = 0
		}
		sounding = k
		delta++
	}
	if sounding >= 0 {
		tr.Add(delta, midi.NoteOff(channel, uint8(sounding)))
		delta = 0
	}
	tr.Close(delta)
	if err := s.Add(tr); err != nil {
		log.Fatalf("score2midi: %v", err)
	}

	if err := s.WriteFile(*out); err != nil {
		log.Fatalf("score2midi: write %s: %v", *out, err)
	}
}
