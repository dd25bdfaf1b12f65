// Package event turns scanner latches, rotary counts, and timer expiry
// flags into a single consumable queue.
package event

import "strconv"

// Kind enumerates event types. The four per-button kinds are laid out
// consecutively, in button bit order, so the scanner can compute a kind
// as ButtonKind(index, phase).
type Kind uint8

const (
	None Kind = iota

	Button0Pressed
	Button0Released
	Button0Short
	Button0Long
	Button1Pressed
	Button1Released
	Button1Short
	Button1Long
	Button2Pressed
	Button2Released
	Button2Short
	Button2Long
	Button3Pressed
	Button3Released
	Button3Short
	Button3Long
	Button4Pressed
	Button4Released
	Button4Short
	Button4Long
	Button5Pressed
	Button5Released
	Button5Short
	Button5Long
	LeftButtonPressed
	LeftButtonReleased
	LeftButtonShort
	LeftButtonLong
	RightButtonPressed
	RightButtonReleased
	RightButtonShort
	RightButtonLong

	lastButtonKind

	Chord
	LeftRotaryMoved
	RightRotaryMoved
	TimerExpired
	OneSecondElapsed
)

// Phase is one of the four per-button event flavors.
type Phase uint8

const (
	Pressed Phase = iota
	Released
	Short
	Long
)

// ButtonKind computes the kind for a button bit index and phase.
func ButtonKind(button uint8, phase Phase) Kind {
	return Button0Pressed + Kind(button)*4 + Kind(phase)
}

// Button returns the button bit index encoded in a per-button kind.
func (k Kind) Button() uint8 {
	return uint8((k - Button0Pressed) / 4)
}

func (k Kind) IsButton() bool   { return k > None && k < lastButtonKind }
func (k Kind) IsPressed() bool  { return k.IsButton() && (k-Button0Pressed)&0x03 == Kind(Pressed) }
func (k Kind) IsReleased() bool { return k.IsButton() && (k-Button0Pressed)&0x03 == Kind(Released) }
func (k Kind) IsShort() bool    { return k.IsButton() && (k-Button0Pressed)&0x03 == Kind(Short) }
func (k Kind) IsLong() bool     { return k.IsButton() && (k-Button0Pressed)&0x03 == Kind(Long) }
func (k Kind) IsRotary() bool   { return k == LeftRotaryMoved || k == RightRotaryMoved }
func (k Kind) IsTimer() bool    { return k == TimerExpired || k == OneSecondElapsed }

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Chord:
		return "chord"
	case LeftRotaryMoved:
		return "left-rotary"
	case RightRotaryMoved:
		return "right-rotary"
	case TimerExpired:
		return "timer-expired"
	case OneSecondElapsed:
		return "one-second"
	}
	if k.IsButton() {
		name := "button" + strconv.Itoa(int(k.Button()))
		switch b := k.Button(); b {
		case 6:
			name = "left-button"
		case 7:
			name = "right-button"
		}
		switch Phase((k - Button0Pressed) & 0x03) {
		case Pressed:
			return name + "-pressed"
		case Released:
			return name + "-released"
		case Short:
			return name + "-short"
		default:
			return name + "-long"
		}
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Event pairs a kind with its 8-bit payload: a debounced bitmap for
// button events, a chord pattern, a signed rotary delta, or a timer id.
type Event struct {
	Kind Kind
	Data uint8
}

// Delta reinterprets the payload as a signed rotary count.
func (e Event) Delta() int8 { return int8(e.Data) }
