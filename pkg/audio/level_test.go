package audio

import (
	"math"
	"testing"
)

func TestRMSLevel(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		want    float64
	}{
		{"empty", nil, 0},
		{"silence", []float32{0, 0, 0, 0}, 0},
		{"constant half", []float32{0.5, 0.5, 0.5, 0.5}, 0.5},
		{"alternating", []float32{0.5, -0.5, 0.5, -0.5}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMSLevel(EncodePCM16(tt.samples))
			if math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("RMSLevel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeakLevel(t *testing.T) {
	got := PeakLevel(EncodePCM16([]float32{0.1, -0.75, 0.3}))
	if math.Abs(got-0.75) > 1e-3 {
		t.Errorf("PeakLevel = %v, want 0.75", got)
	}
	if PeakLevel(nil) != 0 {
		t.Error("PeakLevel(nil) should be 0")
	}
}

func TestConfigDuration(t *testing.T) {
	cfg := DefaultCaptureConfig()
	if got := cfg.BytesPerSecond(); got != 32000 {
		t.Fatalf("BytesPerSecond = %d, want 32000", got)
	}
	oneSec := cfg.Duration(32000)
	if oneSec.Seconds() != 1 {
		t.Errorf("Duration(32000) = %v, want 1s", oneSec)
	}
	if got := cfg.BytesFor(oneSec); got != 32000 {
		t.Errorf("BytesFor(1s) = %d, want 32000", got)
	}
}
