package domain

import (
	"errors"
	"time"
)

var (
	ErrDuplicateTrack = errors.New("domain: duplicate track")
	ErrNotFound       = errors.New("domain: not found")
)

// Playlist is an ordered list of tracks. Imported catalogs keep their input order;
// optimized playlists record the start track and the total transition cost of the order.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tracks    []Track   `json:"tracks"`
	SourceID  string    `json:"source_id,omitempty"`
	StartID   string    `json:"start_id,omitempty"`
	Cost      float64   `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPlaylist(id, name string) (*Playlist, error) {
	if id == "" || name == "" {
		return nil, errors.New("domain: invalid argument")
	}
	return &Playlist{
		ID:     id,
		Name:   name,
		Tracks: []Track{},
	}, nil
}

// AddTrack appends a track to the playlist while preventing duplicate IDs.
func (p *Playlist) AddTrack(t Track) error {
	for _, ex := range p.Tracks {
		if ex.Same(t) {
			return ErrDuplicateTrack
		}
	}
	p.Tracks = append(p.Tracks, t)
	return nil
}

// Optimized reports whether the playlist is the output of a sequencing run.
func (p Playlist) Optimized() bool {
	return p.StartID != ""
}

// Analyze returns the average tempo, energy and danceability across the playlist.
// Key and Mode are categorical: Key is the most frequent pitch class (lowest on ties)
// and Mode is major when at least half of the tracks are major.
func (p Playlist) Analyze() AudioFeatures {
	if len(p.Tracks) == 0 {
		return AudioFeatures{}
	}
	var tempo, energy, dance float64
	var keys [12]int
	major := 0
	for _, t := range p.Tracks {
		tempo += t.Features.Tempo
		energy += t.Features.Energy
		dance += t.Features.Danceability
		if t.Features.Key >= 0 && t.Features.Key < 12 {
			keys[t.Features.Key]++
		}
		major += t.Features.Mode
	}
	key := 0
	for k := range keys {
		if keys[k] > keys[key] {
			key = k
		}
	}
	mode := 0
	if 2*major >= len(p.Tracks) {
		mode = 1
	}
	n := float64(len(p.Tracks))
	return AudioFeatures{
		Tempo:        tempo / n,
		Energy:       energy / n,
		Danceability: dance / n,
		Key:          key,
		Mode:         mode,
	}
}
