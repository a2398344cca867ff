// Package audio provides PCM encoding, level metering, resampling, and
// the capture batching pipeline used by the live session.
package audio

import "time"

// DefaultBlockSize is the number of float32 samples accumulated per
// capture block before it is pushed through the pipeline.
const DefaultBlockSize = 4096

// Config describes a PCM stream shape.
type Config struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultCaptureConfig is the format microphone audio is sent upstream
// in: 16 kHz mono s16le.
func DefaultCaptureConfig() Config {
	return Config{SampleRate: 16000, Channels: 1, BitsPerSample: 16}
}

// DefaultPlaybackConfig is the format model audio arrives in: 24 kHz
// mono s16le.
func DefaultPlaybackConfig() Config {
	return Config{SampleRate: 24000, Channels: 1, BitsPerSample: 16}
}

// BytesPerSecond returns the raw byte rate of the stream.
func (c Config) BytesPerSecond() int {
	return c.SampleRate * c.Channels * c.BitsPerSample / 8
}

// Duration returns the wall-clock length of n bytes of this stream.
func (c Config) Duration(n int) time.Duration {
	bps := c.BytesPerSecond()
	if bps <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bps)
}

// BytesFor returns the byte count covering duration d of this stream.
func (c Config) BytesFor(d time.Duration) int {
	return int(d * time.Duration(c.BytesPerSecond()) / time.Second)
}
