package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTrack indicates a track whose attributes are outside their documented ranges.
var ErrInvalidTrack = errors.New("domain: invalid track")

// keyNames maps pitch classes to note names (C=0, C#=1, ...).
var keyNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// AudioFeatures holds the musical attributes compared when sequencing tracks.
type AudioFeatures struct {
	Tempo        float64 `json:"tempo"`        // beats per minute
	Energy       float64 `json:"energy"`       // 0.0 to 1.0
	Danceability float64 `json:"danceability"` // 0.0 to 1.0
	Key          int     `json:"key"`          // pitch class 0-11
	Mode         int     `json:"mode"`         // 1 major, 0 minor
}

// Track represents a musical track in the domain layer.
// Two tracks are the same track when their IDs match; every other field is data.
type Track struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Artist     string        `json:"artist"`
	Album      string        `json:"album,omitempty"`
	DurationMs int           `json:"duration_ms,omitempty"`
	Features   AudioFeatures `json:"features"`
}

// Same reports whether t and other identify the same track.
func (t Track) Same(other Track) bool {
	return t.ID == other.ID
}

// String renders the track as "Title - Artist".
func (t Track) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.Title, t.Artist)
}

// Validate checks the identity and the attribute ranges used by the cost model.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTrack)
	}
	f := t.Features
	switch {
	case math.IsNaN(f.Tempo) || f.Tempo <= 0:
		return fmt.Errorf("%w: %s: tempo must be positive, got %v", ErrInvalidTrack, t.ID, f.Tempo)
	case !unitInterval(f.Energy):
		return fmt.Errorf("%w: %s: energy must be within [0,1], got %v", ErrInvalidTrack, t.ID, f.Energy)
	case !unitInterval(f.Danceability):
		return fmt.Errorf("%w: %s: danceability must be within [0,1], got %v", ErrInvalidTrack, t.ID, f.Danceability)
	case f.Key < 0 || f.Key > 11:
		return fmt.Errorf("%w: %s: key must be within 0-11, got %d", ErrInvalidTrack, t.ID, f.Key)
	case f.Mode != 0 && f.Mode != 1:
		return fmt.Errorf("%w: %s: mode must be 0 or 1, got %d", ErrInvalidTrack, t.ID, f.Mode)
	}
	return nil
}

// KeyName returns the note name of the track's pitch class.
func (f AudioFeatures) KeyName() string {
	if f.Key < 0 || f.Key > 11 {
		return "?"
	}
	return keyNames[f.Key]
}

// ModeName returns "Major" or "Minor".
func (f AudioFeatures) ModeName() string {
	if f.Mode == 1 {
		return "Major"
	}
	return "Minor"
}

func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
