//go:build !tinygo && sbc

package hal

import (
	"context"
	"time"
)

// HeadlessConfig controls the runner. On SBC builds the hardware clock
// paces the firmware, so Hz and Ticks only bound the supervisor loop.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	RawTTY  bool
}

// RunHeadless runs the firmware against the real hardware until the
// context is cancelled.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	h := New()
	step := newApp(h)

	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
		}
	}
}

// RunWindow has no window to open on an SBC; it behaves like RunHeadless.
func RunWindow(newApp func(HAL) func() error) error {
	return RunHeadless(context.Background(), newApp, HeadlessConfig{})
}
