//go:build !tinygo && !sbc && cgo

package hal

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const hostSampleRate = 44100

// hostTone renders the tone timer as a square wave through Ebiten's
// audio pipeline.
type hostTone struct {
	mu sync.Mutex

	ctx    *audio.Context
	player *audio.Player

	// samples per half cycle, 0 = silent
	half  uint32
	phase uint32
	high  bool
	muted bool
	gain  uint8
}

func newHostTone() ToneGen {
	t := &hostTone{muted: true, gain: 7}
	t.ctx = audio.NewContext(hostSampleRate)
	p, err := t.ctx.NewPlayer(&hostToneReader{t: t})
	if err != nil {
		return t
	}
	t.player = p
	p.Play()
	return t
}

func (t *hostTone) SetPeriod(period uint16, p Prescale) {
	div := p.Divisor()

	t.mu.Lock()
	defer t.mu.Unlock()
	if div == 0 {
		t.half = 0
		return
	}
	// Timer toggles every div*(period+1) reference clocks.
	clocks := div * (uint32(period) + 1)
	t.half = uint32(uint64(clocks) * hostSampleRate / ToneClockHz)
	if t.half == 0 {
		t.half = 1
	}
	t.phase = 0
}

func (t *hostTone) Mute(mute bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = mute
}

func (t *hostTone) SetGain(gain uint8) {
	if gain > 7 {
		gain = 7
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gain = gain
}

type hostToneReader struct {
	t *hostTone
}

func (r *hostToneReader) Read(p []byte) (int, error) {
	t := r.t
	t.mu.Lock()
	half := t.half
	muted := t.muted
	amp := int16(0)
	if !muted && half > 0 {
		amp = int16(1024 * (int(t.gain) + 1))
	}

	// 16-bit little-endian stereo.
	for i := 0; i+3 < len(p); i += 4 {
		var s int16
		if half > 0 {
			if t.phase >= half {
				t.phase = 0
				t.high = !t.high
			}
			t.phase++
			if t.high {
				s = amp
			} else {
				s = -amp
			}
		}
		p[i+0] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	t.mu.Unlock()
	return len(p), nil
}
