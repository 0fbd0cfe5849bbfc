package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func pcm(samples ...int16) *bytes.Reader {
	var b bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&b, binary.LittleEndian, s)
	}
	return bytes.NewReader(b.Bytes())
}

func TestAnalyzer_RMS(t *testing.T) {
	tests := []struct {
		name    string
		samples []int16
		want    float64
		wantErr error
	}{
		{name: "silence", samples: []int16{0, 0, 0, 0}, want: 0},
		{name: "full scale square", samples: []int16{-32768, -32768}, want: 1},
		{name: "half scale", samples: []int16{16384, -16384, 16384, -16384}, want: 0.5},
		{name: "empty", samples: nil, wantErr: ErrNoSamples},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Analyzer{}.rms(context.Background(), pcm(tt.samples...))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("rms = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzer_MaxSamples(t *testing.T) {
	// The first read covers the loud half; the silent tail is never read.
	samples := make([]int16, 4096)
	for i := 0; i < 2048; i++ {
		samples[i] = 16384
	}
	got, err := Analyzer{MaxSamples: 10}.rms(context.Background(), pcm(samples...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("rms = %v, want 0.5", got)
	}
}

func TestAnalyzer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Analyzer{}).rms(ctx, pcm(1, 2, 3)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzer_AnalyzeEnergyErrors(t *testing.T) {
	_, err := Analyzer{}.AnalyzeEnergy(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	if _, err := (Analyzer{}).Energy(context.Background(), bytes.NewReader([]byte("not an mp3"))); err == nil {
		t.Fatal("expected decode error for garbage input")
	}
}
