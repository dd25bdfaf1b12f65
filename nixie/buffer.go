// Package nixie drives the six-tube display: a PWM refresh engine over
// a 64-segment intensity buffer, a character-stream protocol for
// writing to it, and a crossfade animation between buffers.
package nixie

import "sync"

const (
	// Segments is the driver chain width.
	Segments = 64
	// Width is the number of tubes. It doubles as the past-the-end
	// cursor sentinel.
	Width = 6
	// MaxIntensity is the brightest level; 0 is off.
	MaxIntensity = 9
)

// Fixed cathode wiring.
const (
	LeftLamp  = 20
	RightLamp = 42
	AuxA      = 31
	AuxB      = 63
)

// tubeBase is the first cathode index of each tube.
var tubeBase = [Width]int{0, 10, 21, 32, 43, 53}

// Buffer holds one intensity per cathode line. Writes are byte-wide;
// the refresh engine snapshots under the same lock, so a frame never
// tears.
type Buffer struct {
	mu  sync.Mutex
	seg [Segments]uint8
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Set stores an intensity, clamped to MaxIntensity.
func (b *Buffer) Set(i int, v uint8) {
	if i < 0 || i >= Segments {
		return
	}
	if v > MaxIntensity {
		v = MaxIntensity
	}
	b.mu.Lock()
	b.seg[i] = v
	b.mu.Unlock()
}

// At returns the intensity of one segment.
func (b *Buffer) At(i int) uint8 {
	if i < 0 || i >= Segments {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seg[i]
}

// Clear zeroes every segment.
func (b *Buffer) Clear() {
	b.mu.Lock()
	for i := range b.seg {
		b.seg[i] = 0
	}
	b.mu.Unlock()
}

// Snapshot copies the buffer contents.
func (b *Buffer) Snapshot() [Segments]uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seg
}

// setTube writes one cathode of a tube.
func (b *Buffer) setTube(tube, segment int, v uint8) {
	if tube < 0 || tube >= Width || segment < 0 || segment > 9 {
		return
	}
	b.Set(tubeBase[tube]+segment, v)
}

// clearTube blanks all ten cathodes of a tube.
func (b *Buffer) clearTube(tube int) {
	if tube < 0 || tube >= Width {
		return
	}
	base := tubeBase[tube]
	b.mu.Lock()
	for s := 0; s < 10; s++ {
		b.seg[base+s] = 0
	}
	b.mu.Unlock()
}

// stepToward moves each segment one intensity step toward the target:
// up when the target is higher, down when the target is zero. Returns
// the number of segments that changed.
func (b *Buffer) stepToward(target *Buffer) int {
	want := target.Snapshot()
	changed := 0
	b.mu.Lock()
	for i := range b.seg {
		switch {
		case want[i] > b.seg[i]:
			b.seg[i]++
			changed++
		case want[i] == 0 && b.seg[i] > 0:
			b.seg[i]--
			changed++
		}
	}
	b.mu.Unlock()
	return changed
}
