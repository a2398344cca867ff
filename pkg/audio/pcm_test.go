package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodePCM16(t *testing.T) {
	tests := []struct {
		name   string
		sample float32
		want   int16
	}{
		{"zero", 0, 0},
		{"full scale positive saturates", 1.0, 32767},
		{"full scale negative", -1.0, -32768},
		{"half scale", 0.5, 16384},
		{"over range clamps high", 1.5, 32767},
		{"over range clamps low", -1.5, -32768},
		{"small value rounds", 1.0 / 65536, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := EncodePCM16([]float32{tt.sample})
			if len(out) != 2 {
				t.Fatalf("len = %d, want 2", len(out))
			}
			got := int16(binary.LittleEndian.Uint16(out))
			if got != tt.want {
				t.Errorf("EncodePCM16(%v) = %d, want %d", tt.sample, got, tt.want)
			}
		})
	}
}

func TestDecodePCM16RoundTrip(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 0.9, -0.9}
	got := DecodePCM16(EncodePCM16(in))
	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	for i := range in {
		if diff := math.Abs(float64(got[i] - in[i])); diff > 1.0/32768 {
			t.Errorf("sample %d: got %v, want %v within one LSB", i, got[i], in[i])
		}
	}
}

func TestDecodePCM16IgnoresTrailingByte(t *testing.T) {
	got := DecodePCM16([]byte{0, 0, 0xFF})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}
