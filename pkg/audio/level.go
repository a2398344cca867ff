package audio

import (
	"encoding/binary"
	"math"
)

// RMSLevel computes the root-mean-square energy of s16le PCM,
// normalized to [0, 1]. Empty or odd-length input yields 0 for the
// unpaired remainder.
func RMSLevel(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}

// PeakLevel returns the largest absolute sample in s16le PCM,
// normalized to [0, 1].
func PeakLevel(pcm []byte) float64 {
	n := len(pcm) / 2
	var peak float64
	for i := 0; i < n; i++ {
		s := math.Abs(float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768)
		if s > peak {
			peak = s
		}
	}
	return peak
}
