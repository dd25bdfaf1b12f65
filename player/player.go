// Package player interprets music scores written in a compact character
// notation and drives the speaker tone generator. Scores mix notes (A..G),
// rests, duration letters and inline commands for octave, tempo, key
// signature, volume, transposition and repeat bookmarks. Service must be
// called once per system tick for playback to advance.
package player

//go:generate go run nixieclock/cmd/mknotes -o notes_gen.go

import (
	"sync"

	"nixieclock/hal"
)

// TicksPerSecond is the Service call rate all note timing is derived from.
const TicksPerSecond = hal.TickHz

const (
	octaves        = 10
	notesPerOctave = 12
	numBookmarks   = 10

	defaultTempo = 120
	defaultBeat  = 4 // quarter note gets one beat
)

// Note duration denominators selected by the W H Q I S Y letters.
const (
	noteWhole   = 1
	noteHalf    = 2
	noteQuarter = 4
	note8th     = 8
	note16th    = 16
	note32nd    = 32
)

// Duration modifier flags. A duration letter clears all of them.
const (
	modDotted uint8 = 1 << iota
	modTriplet
	modTied
	modStaccato
)

const (
	accidentalFlat    = -1
	accidentalNatural = 0
	accidentalSharp   = +1
)

// noteRest marks a rest in place of a scale degree.
const noteRest = -1

// Semitone offsets of the letters A..G in C major.
var cMajorScale = [7]int8{9, 11, 0, 2, 4, 5, 7}

type runMode uint8

const (
	modeStopped runMode = iota
	modeRun
	modeInit
)

type state uint8

const (
	stateReset state = iota
	stateGetNote
	stateGetModifier
	stateStartNote
	stateWaitNote
	stateStartRest
	stateWaitRest
	stateGetDigit
	stateGetNumber
	stateGetNumber2
	stateSetOctave
	stateSetNoteRatio
	stateSetVolume
	stateSetTransposition
	stateSetKey
	stateSetKey2
	stateSetTempo
	stateSetTempo2
	stateSetBookmark
	stateSetBookmark2
	stateGotoBookmark
	stateStop
)

// note is one tone table entry: a compare period and the clock prescale
// it was computed for.
type note struct {
	period   uint16
	prescale hal.Prescale
}

type bookmark struct {
	repeat   uint16 // 0xFF = infinite
	position int    // score offset just past the bookmark spec, -1 = unset
}

// Player is a score interpreter bound to a tone generator. The zero value
// is not usable; construct with New.
type Player struct {
	tone hal.ToneGen

	mu    sync.Mutex
	score []byte
	pos   int
	mode  runMode
	st    state
	next  state

	note          int
	octave        int
	accidental    int
	transposition int
	noteSize      int
	sizeMod       uint8
	ratio         int // note-to-rest ratio in eighths

	wholeNote  uint16 // ticks per whole note
	notePeriod uint16
	restPeriod uint16
	timer      uint16

	scale [7]int8
	marks [numBookmarks]bookmark
}

func New(tone hal.ToneGen) *Player {
	return &Player{tone: tone}
}

// Start begins playback of a score. Any score already playing is stopped
// first. Bookmarks are pre-scanned so forward references work without
// rescanning during playback.
func (p *Player) Start(score string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.silence()
	p.score = []byte(score)
	p.pos = 0
	for i := range p.marks {
		p.marks[i] = bookmark{position: -1}
	}
	p.findBookmark(0xFF)
	p.st = stateReset
	p.mode = modeInit
}

// Stop halts playback and silences the speaker.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.silence()
}

func (p *Player) silence() {
	p.mode = modeStopped
	p.tone.Mute(true)
	p.tone.SetPeriod(0xFF, hal.PrescaleOff)
}

// Stopped reports whether playback has finished or been stopped.
func (p *Player) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode == modeStopped
}

// nextChar fetches the next score character, folding lowercase to upper.
// Past the end of the score it returns 0.
func (p *Player) nextChar() byte {
	var ch byte
	if p.pos >= 0 && p.pos < len(p.score) {
		ch = p.score[p.pos]
	}
	if ch >= 'a' && ch <= 'z' {
		ch &^= 0x20
	}
	p.pos++
	return ch
}

// findBookmark scans the score for bookmark specs. With mark 0xFF every
// bookmark found is recorded; otherwise scanning stops at the requested
// mark and its position is returned (-1 if absent). The read position is
// preserved.
func (p *Player) findBookmark(mark uint8) int {
	savePos := p.pos
	found := false

	var ch byte
	for {
		ch = p.nextChar()
		if isBookmark(ch) {
			m := p.nextChar()
			switch {
			case isSeparator(m):
				m = 0
			case isDigit(m):
				m -= '0'
			default:
				continue
			}

			ch = p.nextChar()
			if isSeparator(ch) {
				ch = p.nextChar()
			}
			repeat := uint16(0)
			for isDigit(ch) {
				repeat = repeat*10 + uint16(ch-'0')
				ch = p.nextChar()
			}
			p.pos--

			repeat = clampRepeat(repeat)

			found = m == mark
			if found || mark == 0xFF {
				p.marks[m] = bookmark{repeat: repeat, position: p.pos}
			}
		}
		if ch == 0 || found {
			break
		}
	}

	ret := p.pos
	p.pos = savePos
	if !found {
		return -1
	}
	return ret
}

// Repeat counts are held in a byte on the wire: 0 means infinite
// (never decremented) and anything above 254 is clamped.
func clampRepeat(repeat uint16) uint16 {
	if repeat > 0xFE {
		repeat = 0xFE
	}
	if repeat == 0 {
		repeat = 0xFF
	}
	return repeat
}

// Service advances playback by one tick. It runs the interpreter until a
// note or rest delay is in progress, then returns. Safe to call while
// stopped.
func (p *Player) Service() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == modeStopped {
		return
	}

	p.timer++

	var (
		ch     byte
		digit  int
		number int
	)

	for {
		switch {
		// Reset returns every interpreter variable to its default and
		// is forced as the first state of a freshly started score.
		case p.st == stateReset || p.mode == modeInit:
			p.scale = cMajorScale
			p.note = 0
			p.octave = 4
			p.accidental = accidentalNatural
			p.transposition = 0
			p.noteSize = defaultBeat
			p.sizeMod = 0
			p.ratio = 7
			p.wholeNote = uint16(TicksPerSecond * 60 * defaultBeat / defaultTempo)
			p.timer = 0
			p.tone.SetPeriod(0xFF, hal.PrescaleOff)
			p.tone.Mute(false)
			p.tone.SetGain(5)
			p.mode = modeRun
			p.st = stateGetNote

		// Base state: fetch characters and dispatch notes or commands.
		case p.st == stateGetNote:
			ch = p.nextChar()
			switch {
			case isSeparator(ch):
			case isNote(ch):
				p.note = int(p.scale[ch-'A'])
				p.accidental = accidentalNatural
				p.st = stateGetModifier
				p.next = stateStartNote
			case isRest(ch):
				p.note = noteRest
				p.st = stateGetModifier
				p.next = stateStartNote
			case isRepeatNote(ch):
				p.st = stateStartNote
			case isOctaveCmd(ch):
				p.st = stateGetDigit
				p.next = stateSetOctave
			case isOctaveUp(ch):
				if p.octave < octaves-1 {
					p.octave++
				}
			case isOctaveDown(ch):
				if p.octave > 0 {
					p.octave--
				}
			case isRatioCmd(ch):
				p.st = stateGetDigit
				p.next = stateSetNoteRatio
			case isVolumeCmd(ch):
				p.st = stateGetDigit
				p.next = stateSetVolume
			case isTransposeCmd(ch):
				p.st = stateGetNumber
				p.next = stateSetTransposition
			case isKeyCmd(ch):
				p.st = stateSetKey
			case isTempoCmd(ch):
				// Beat unit defaults to a quarter note when the tempo
				// command goes straight to the beats/min figure.
				p.noteSize = defaultBeat
				p.sizeMod = 0
				ch = p.nextChar()
				if isSeparator(ch) || isDigit(ch) {
					p.pos--
					p.st = stateGetNumber
					p.next = stateSetTempo2
				} else {
					p.pos--
					p.st = stateGetModifier
					p.next = stateSetTempo
				}
			case isBookmark(ch):
				p.st = stateGetDigit
				p.next = stateSetBookmark
			case isGotoMark(ch):
				p.st = stateGetDigit
				p.next = stateGotoBookmark
			case isResetCmd(ch):
				p.st = stateReset
			default:
				// End of score or unrecognized character.
				if ch == 0 {
					p.pos--
				}
				p.st = stateStop
			}

		// Modifier state: after a note or rest, collect duration
		// letters, accidentals and articulation flags.
		case p.st == stateGetModifier:
			ch = p.nextChar()
			switch {
			case isSeparator(ch):
				p.st = p.next
			case isDigit(ch):
				p.octave = int(ch - '0')
			case isDotted(ch):
				p.sizeMod |= modDotted
			case isTriplet(ch):
				p.sizeMod |= modTriplet
			case isTied(ch):
				p.sizeMod |= modTied
			case isStaccato(ch):
				p.sizeMod |= modStaccato
			case isFlat(ch):
				p.accidental = accidentalFlat
			case isNatural(ch):
				p.accidental = accidentalNatural
			case isSharp(ch):
				p.accidental = accidentalSharp
			case ch == 'W':
				p.noteSize = noteWhole
				p.sizeMod = 0
			case ch == 'H':
				p.noteSize = noteHalf
				p.sizeMod = 0
			case ch == 'Q':
				p.noteSize = noteQuarter
				p.sizeMod = 0
			case ch == 'I':
				p.noteSize = note8th
				p.sizeMod = 0
			case ch == 'S':
				p.noteSize = note16th
				p.sizeMod = 0
			case ch == 'Y':
				p.noteSize = note32nd
				p.sizeMod = 0
			default:
				p.pos--
				p.st = p.next
			}

		// Compute note and rest durations, look up the tone period and
		// start the beeper.
		case p.st == stateStartNote:
			rest := int(p.wholeNote)
			if p.sizeMod&modDotted != 0 {
				rest += rest >> 1
			}
			if p.sizeMod&modTriplet != 0 {
				rest /= 3
			}
			rest /= p.noteSize
			if p.note == noteRest {
				p.restPeriod = uint16(rest)
				p.st = stateStartRest
				continue
			}
			// Split note time between sound and silence per the
			// note-to-rest ratio in eighths. Tied and staccato notes
			// override the ratio with 8 and 2 respectively.
			ratio := p.ratio
			if p.sizeMod&modTied != 0 {
				ratio = 8
			} else if p.sizeMod&modStaccato != 0 {
				ratio = 2
			}
			p.notePeriod = uint16((rest * ratio) >> 3)
			p.restPeriod = uint16(rest) - p.notePeriod

			semi := p.note + p.accidental + p.transposition
			oct := p.octave
			if semi < 0 {
				semi += notesPerOctave
				oct--
			} else if semi >= notesPerOctave {
				semi -= notesPerOctave
				oct++
			}
			if oct < 0 {
				oct = 0
			} else if oct >= octaves {
				oct = octaves - 1
			}
			n := noteTable[oct][semi]
			p.tone.SetPeriod(n.period, n.prescale)
			p.st = stateWaitNote

		// Idle while the note sounds. The period is subtracted from
		// the tick counter rather than zeroing it so missed ticks do
		// not slip the tempo.
		case p.st == stateWaitNote:
			if p.timer < p.notePeriod {
				return
			}
			p.timer -= p.notePeriod
			if p.restPeriod != 0 {
				p.st = stateStartRest
			} else {
				p.st = stateGetNote
			}

		case p.st == stateStartRest:
			p.tone.SetPeriod(0xFF, hal.PrescaleOff)
			p.st = stateWaitRest

		case p.st == stateWaitRest:
			if p.timer < p.restPeriod {
				return
			}
			p.timer -= p.restPeriod
			p.st = stateGetNote

		// Single decimal digit parameter. A separator reads as 0 and
		// anything else is a malformed score.
		case p.st == stateGetDigit:
			p.st = p.next
			ch = p.nextChar()
			switch {
			case isSeparator(ch):
				digit = 0
			case isDigit(ch):
				digit = int(ch - '0')
			default:
				p.st = stateStop
			}

		// Multi-digit decimal parameter, optionally preceded by a
		// separator.
		case p.st == stateGetNumber:
			number = 0
			ch = p.nextChar()
			if isSeparator(ch) {
				ch = p.nextChar()
			}
			p.st = stateGetNumber2

		case p.st == stateGetNumber2:
			for isDigit(ch) {
				number = number*10 + int(ch-'0')
				ch = p.nextChar()
			}
			p.pos--
			p.st = p.next

		case p.st == stateSetOctave:
			p.octave = digit
			p.st = stateGetNote

		case p.st == stateSetNoteRatio:
			if digit > 8 {
				digit = 8
			}
			p.ratio = digit
			p.st = stateGetNote

		case p.st == stateSetVolume:
			if digit == 0 {
				p.tone.Mute(true)
			} else {
				digit--
				if digit > 7 {
					digit = 7
				}
				p.tone.SetGain(uint8(digit))
				p.tone.Mute(false)
			}
			p.st = stateGetNote

		case p.st == stateSetTransposition:
			if number < notesPerOctave {
				p.transposition = number
			} else {
				p.transposition = 0
			}
			p.st = stateGetNote

		// Key signature: start from C major with sharps assumed, then
		// apply accidentals to the listed letters.
		case p.st == stateSetKey:
			p.scale = cMajorScale
			p.accidental = accidentalSharp
			p.st = stateSetKey2

		case p.st == stateSetKey2:
			ch = p.nextChar()
			switch {
			case isNote(ch):
				p.scale[ch-'A'] = cMajorScale[ch-'A'] + int8(p.accidental)
			case isFlat(ch):
				p.accidental = accidentalFlat
			case isNatural(ch):
				p.accidental = accidentalNatural
			case isSharp(ch):
				p.accidental = accidentalSharp
			default:
				p.pos--
				p.st = stateGetNote
			}

		case p.st == stateSetTempo:
			p.st = stateGetNumber
			p.next = stateSetTempo2

		case p.st == stateSetTempo2:
			if number == 0 {
				number = defaultTempo
			}
			p.wholeNote = uint16(TicksPerSecond * 60 * p.noteSize / number)
			if p.sizeMod&modDotted != 0 {
				p.wholeNote += p.wholeNote >> 1
			}
			if p.sizeMod&modTriplet != 0 {
				p.wholeNote /= 3
			}
			p.st = stateGetNote

		case p.st == stateSetBookmark:
			p.st = stateGetNumber
			p.next = stateSetBookmark2

		case p.st == stateSetBookmark2:
			p.marks[digit] = bookmark{
				repeat:   clampRepeat(uint16(number)),
				position: p.pos,
			}
			p.st = stateGetNote

		// Jump to a bookmark if it is set and has repeats left.
		case p.st == stateGotoBookmark:
			m := &p.marks[digit]
			if m.repeat != 0 && m.position >= 0 {
				if m.repeat != 0xFF {
					m.repeat--
				}
				p.pos = m.position
			}
			p.st = stateGetNote

		case p.st == stateStop:
			p.silence()
			p.st = stateReset
			return

		default:
			p.st = stateStop
		}
	}
}

func isSeparator(ch byte) bool    { return ch == ' ' || ch == ':' }
func isDigit(ch byte) bool        { return ch >= '0' && ch <= '9' }
func isNote(ch byte) bool         { return ch >= 'A' && ch <= 'G' }
func isRest(ch byte) bool         { return ch == 'R' || ch == ',' }
func isRepeatNote(ch byte) bool   { return ch == '!' }
func isFlat(ch byte) bool         { return ch == '-' }
func isNatural(ch byte) bool      { return ch == 'N' || ch == '=' }
func isSharp(ch byte) bool        { return ch == '+' || ch == '#' }
func isDotted(ch byte) bool       { return ch == '.' }
func isTriplet(ch byte) bool      { return ch == '/' }
func isTied(ch byte) bool         { return ch == '|' || ch == '_' }
func isStaccato(ch byte) bool     { return ch == '^' }
func isOctaveUp(ch byte) bool     { return ch == '>' }
func isOctaveDown(ch byte) bool   { return ch == '<' }
func isOctaveCmd(ch byte) bool    { return ch == 'O' }
func isRatioCmd(ch byte) bool     { return ch == 'M' }
func isVolumeCmd(ch byte) bool    { return ch == 'V' }
func isTempoCmd(ch byte) bool     { return ch == 'T' }
func isTransposeCmd(ch byte) bool { return ch == 'P' }
func isKeyCmd(ch byte) bool       { return ch == 'K' }
func isBookmark(ch byte) bool     { return ch == '[' }
func isGotoMark(ch byte) bool     { return ch == ']' }
func isResetCmd(ch byte) bool     { return ch == '*' }
