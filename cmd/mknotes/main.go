//go:build !tinygo

// Command mknotes regenerates the player note table. Periods are the
// toggle-on-compare values for a 16 MHz timer clock, equal temperament
// anchored at A4 = 440 Hz. The lowest three octaves need the /8 prescale
// to fit a 16-bit compare register.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"math"
	"os"
)

const (
	octaves        = 10
	notesPerOctave = 12

	toneClockHz = 16000000
	pitchA4     = 440.0
	indexA4     = 4*notesPerOctave + 9

	// First note index rendered with the /1 prescale. Everything below
	// would overflow uint16 without /8.
	firstPrescale1 = 2*notesPerOctave + 11 // B2
)

var noteNames = [notesPerOctave]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

func main() {
	out := flag.String("o", "notes_gen.go", "output file")
	flag.Parse()

	var buf bytes.Buffer
	buf.WriteString("// Code generated by mknotes. DO NOT EDIT.\n\n")
	buf.WriteString("package player\n\n")
	buf.WriteString("import \"nixieclock/hal\"\n\n")
	buf.WriteString("// noteTable maps [octave][semitone] to the tone generator compare period\n")
	buf.WriteString("// and prescale for that pitch, equal temperament with A4 = 440 Hz.\n")
	buf.WriteString("var noteTable = [octaves][notesPerOctave]note{\n")

	for oct := 0; oct < octaves; oct++ {
		buf.WriteString("{\n")
		for semi := 0; semi < notesPerOctave; semi++ {
			n := oct*notesPerOctave + semi
			freq := pitchA4 * math.Pow(2, float64(n-indexA4)/notesPerOctave)
			div := 8.0
			prescale := "hal.Prescale8"
			if n >= firstPrescale1 {
				div = 1.0
				prescale = "hal.Prescale1"
			}
			period := uint16(toneClockHz/(freq*div*2) - 0.5)
			fmt.Fprintf(&buf, "{%d, %s}, // %s%d\n", period, prescale, noteNames[semi], oct)
		}
		buf.WriteString("},\n")
	}
	buf.WriteString("}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatalf("mknotes: format: %v", err)
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		log.Fatalf("mknotes: %v", err)
	}
}
