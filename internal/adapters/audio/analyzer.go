// Package audio estimates track attributes from local MP3 files.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/ewilliams-labs/segue/internal/core/ports"
)

// ErrNoSamples is returned for a stream that decodes to silence of zero length.
var ErrNoSamples = errors.New("audio: stream contains no samples")

// fullScale is the magnitude of the largest 16-bit PCM sample.
const fullScale = 32768.0

// Analyzer estimates energy as the RMS level of the decoded PCM stream.
type Analyzer struct {
	// MaxSamples caps how many samples are read per file; 0 reads everything.
	MaxSamples int
}

var _ ports.FeatureAnalyzer = Analyzer{}

// AnalyzeEnergy decodes the MP3 at path and returns its RMS energy in [0,1].
func (a Analyzer) AnalyzeEnergy(ctx context.Context, path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	energy, err := a.Energy(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("audio: %s: %w", path, err)
	}
	return energy, nil
}

// Energy decodes an MP3 stream and returns its RMS energy in [0,1].
func (a Analyzer) Energy(ctx context.Context, r io.Reader) (float64, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("decode failed: %w", err)
	}
	return a.rms(ctx, decoder)
}

// rms reads little-endian 16-bit samples from r until EOF.
func (a Analyzer) rms(ctx context.Context, r io.Reader) (float64, error) {
	buf := make([]byte, 4096)
	var sumSquares float64
	var count int

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := r.Read(buf)
		for i := 0; i+1 < n; i += 2 {
			sample := int16(buf[i]) | int16(buf[i+1])<<8
			val := float64(sample)
			sumSquares += val * val
			count++
		}
		if a.MaxSamples > 0 && count >= a.MaxSamples {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, ErrNoSamples
	}

	energy := math.Sqrt(sumSquares/float64(count)) / fullScale
	return min(max(energy, 0), 1), nil
}
