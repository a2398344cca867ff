package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Downsampler converts mono float32 audio from one sample rate to
// another. When the rates already match it passes samples through
// untouched.
type Downsampler struct {
	inRate  int
	outRate int
	rs      resampling.Resampler
	buf     []float64
}

// NewDownsampler builds a converter from inRate to outRate.
func NewDownsampler(inRate, outRate int) (*Downsampler, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", inRate, outRate)
	}
	d := &Downsampler{inRate: inRate, outRate: outRate}
	if inRate == outRate {
		return d, nil
	}
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(inRate),
		OutputRate: float64(outRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler %d -> %d: %w", inRate, outRate, err)
	}
	d.rs = rs
	return d, nil
}

// OutputRate reports the rate samples leave the converter at.
func (d *Downsampler) OutputRate() int { return d.outRate }

// Process converts one block of samples. The returned slice may be
// shorter or longer than the input depending on the rate ratio, and is
// only valid until the next call.
func (d *Downsampler) Process(samples []float32) ([]float32, error) {
	if d.rs == nil {
		return samples, nil
	}
	if cap(d.buf) < len(samples) {
		d.buf = make([]float64, len(samples))
	}
	d.buf = d.buf[:len(samples)]
	for i, s := range samples {
		d.buf[i] = float64(s)
	}
	out, err := d.rs.Process(d.buf)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	converted := make([]float32, len(out))
	for i, s := range out {
		converted[i] = float32(s)
	}
	return converted, nil
}
