package nixie

// Parser states for the two-byte parametric commands.
type parseState uint8

const (
	stateNormal parseState = iota
	stateIntensity
	stateCursor
)

// Control flag lanes, packed for whole-word clears.
const (
	ctlNoCursorInc uint8 = 1 << iota
	ctlSingleNoInc
	ctlOverlay
	ctlSingleOverlay
	ctlNoCursorWrap
)

// Stream is a virtual display: a byte-at-a-time protocol that mutates
// an intensity buffer. It implements io.Writer so formatted output can
// be sent straight to the tubes.
//
// The protocol is forgiving: every byte either advances the parser
// deterministically or is ignored. See WriteByte for the grammar.
type Stream struct {
	buf       *Buffer
	cursor    uint8
	intensity uint8
	state     parseState
	ctl       uint8
}

func NewStream(buf *Buffer) *Stream {
	return &Stream{buf: buf, intensity: MaxIntensity}
}

// Buffer returns the segment buffer this stream writes.
func (s *Stream) Buffer() *Buffer { return s.buf }

// Cursor returns the current tube position, 0..Width.
func (s *Stream) Cursor() uint8 { return s.cursor }

// Intensity returns the current write intensity.
func (s *Stream) Intensity() uint8 { return s.intensity }

func (s *Stream) Write(p []byte) (int, error) {
	for _, c := range p {
		s.WriteByte(c)
	}
	return len(p), nil
}

// WriteByte feeds one byte of the display protocol.
//
//	0..9        light segment n at the cursor, advance
//	A..I a..i   light segment 0 and segment c-'A'+1, advance
//	space       blank the tube at the cursor, advance
//	< > ( ) `   left/right lamp on, off, both off
//	. ,         lamp adjacent to the cursor on
//	X x Y y     aux A/B on and off
//	[ ] * ~     intensity down, up, *d set to digit, nominal
//	$ # ! & | _ ^  cursor and overlay control
//	@d { }      cursor set, wrap off, wrap on
//	\f \r \n \b \t \v  clear and cursor motion
func (s *Stream) WriteByte(c byte) error {
	switch s.state {
	case stateIntensity:
		s.state = stateNormal
		if c >= '0' && c <= '9' {
			s.intensity = c - '0'
		}
		return nil
	case stateCursor:
		s.state = stateNormal
		if c >= '0' && c <= '0'+Width {
			s.cursor = c - '0'
		}
		return nil
	}

	switch {
	case c >= '0' && c <= '9':
		s.put(int(c - '0'))
	case c >= 'A' && c <= 'I':
		s.putPair(int(c - 'A' + 1))
	case c >= 'a' && c <= 'i':
		s.putPair(int(c - 'a' + 1))
	case c == ' ':
		if s.cursor < Width {
			s.buf.clearTube(int(s.cursor))
		}
		s.advance(true)

	case c == '<':
		s.buf.Set(LeftLamp, s.intensity)
	case c == '>':
		s.buf.Set(RightLamp, s.intensity)
	case c == '(':
		s.buf.Set(LeftLamp, 0)
	case c == ')':
		s.buf.Set(RightLamp, 0)
	case c == '`':
		s.buf.Set(LeftLamp, 0)
		s.buf.Set(RightLamp, 0)
	case c == '.':
		// Lamp to the cursor's left.
		if s.cursor > 3 {
			s.buf.Set(RightLamp, s.intensity)
		} else if s.cursor > 1 {
			s.buf.Set(LeftLamp, s.intensity)
		}
	case c == ',':
		// Lamp to the cursor's right.
		if s.cursor < 2 {
			s.buf.Set(LeftLamp, s.intensity)
		} else if s.cursor < 4 {
			s.buf.Set(RightLamp, s.intensity)
		}

	case c == 'X':
		s.buf.Set(AuxA, s.intensity)
	case c == 'x':
		s.buf.Set(AuxA, 0)
	case c == 'Y':
		s.buf.Set(AuxB, s.intensity)
	case c == 'y':
		s.buf.Set(AuxB, 0)

	case c == '[':
		if s.intensity > 0 {
			s.intensity--
		}
	case c == ']':
		if s.intensity < MaxIntensity {
			s.intensity++
		}
	case c == '*':
		s.state = stateIntensity
	case c == '~':
		s.intensity = MaxIntensity

	case c == '$':
		s.ctl &^= ctlNoCursorInc
	case c == '#':
		s.ctl |= ctlNoCursorInc
	case c == '!':
		s.ctl |= ctlSingleNoInc
	case c == '&':
		s.ctl &^= ctlOverlay
	case c == '|':
		s.ctl |= ctlOverlay
	case c == '_':
		s.ctl |= ctlSingleOverlay
	case c == '^':
		s.retreat()
		s.ctl |= ctlSingleOverlay
	case c == '@':
		s.state = stateCursor
	case c == '{':
		s.ctl |= ctlNoCursorWrap
	case c == '}':
		s.ctl &^= ctlNoCursorWrap

	case c == '\f':
		s.buf.Clear()
		s.cursor = 0
	case c == '\r':
		s.cursor = 0
	case c == '\n':
		s.buf.Clear()
	case c == '\b':
		s.retreat()
	case c == '\t':
		s.advance(false)
	case c == '\v':
		s.intensity = MaxIntensity
		s.cursor = 0
		s.ctl = 0
	}
	return nil
}

// put writes one digit cathode at the cursor.
func (s *Stream) put(segment int) {
	if s.cursor < Width {
		if s.ctl&(ctlOverlay|ctlSingleOverlay) == 0 {
			s.buf.clearTube(int(s.cursor))
		}
		s.buf.setTube(int(s.cursor), segment, s.intensity)
	}
	s.ctl &^= ctlSingleOverlay
	s.advance(true)
}

// putPair writes cathode 0 plus one more, the letter forms.
func (s *Stream) putPair(segment int) {
	if s.cursor < Width {
		if s.ctl&(ctlOverlay|ctlSingleOverlay) == 0 {
			s.buf.clearTube(int(s.cursor))
		}
		s.buf.setTube(int(s.cursor), 0, s.intensity)
		s.buf.setTube(int(s.cursor), segment, s.intensity)
	}
	s.ctl &^= ctlSingleOverlay
	s.advance(true)
}

// advance moves the cursor right. Displayable writes honor the no-inc
// flags; bare cursor motion does not.
func (s *Stream) advance(charMode bool) {
	if charMode {
		if s.ctl&ctlSingleNoInc != 0 {
			s.ctl &^= ctlSingleNoInc
			return
		}
		if s.ctl&ctlNoCursorInc != 0 {
			return
		}
	}
	s.cursor++
	if s.ctl&ctlNoCursorWrap != 0 {
		if s.cursor > Width {
			s.cursor = Width
		}
	} else if s.cursor >= Width {
		s.cursor = 0
	}
}

// retreat moves the cursor left.
func (s *Stream) retreat() {
	if s.cursor == 0 {
		if s.ctl&ctlNoCursorWrap == 0 {
			s.cursor = Width - 1
		}
		return
	}
	s.cursor--
}
