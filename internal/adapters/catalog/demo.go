package catalog

import "github.com/ewilliams-labs/segue/internal/core/domain"

// DemoName is the catalog name of DemoTracks.
const DemoName = "Classic Crossfade"

// DemoTracks returns a small built-in catalog for trying the sequencer without a file.
func DemoTracks() []domain.Track {
	return []domain.Track{
		demo("1", "Bohemian Rhapsody", "Queen", 354000, 72, 0.9, 0.7, 0),
		demo("2", "Uptown Funk", "Mark Ronson", 270000, 115, 0.8, 0.9, 4),
		demo("3", "Sweet Child O' Mine", "Guns N' Roses", 356000, 125, 0.7, 0.6, 7),
		demo("4", "Billie Jean", "Michael Jackson", 294000, 117, 0.8, 0.9, 2),
	}
}

func demo(id, title, artist string, durationMs int, tempo, energy, dance float64, key int) domain.Track {
	return domain.Track{
		ID:         id,
		Title:      title,
		Artist:     artist,
		DurationMs: durationMs,
		Features: domain.AudioFeatures{
			Tempo:        tempo,
			Energy:       energy,
			Danceability: dance,
			Key:          key,
			Mode:         1,
		},
	}
}
