//go:build !tinygo && !sbc && !cgo

package hal

// silentTone stands in when the audio backend is unavailable.
type silentTone struct{}

func newHostTone() ToneGen { return silentTone{} }

func (silentTone) SetPeriod(period uint16, p Prescale) {}
func (silentTone) Mute(mute bool)                      {}
func (silentTone) SetGain(gain uint8)                  {}
