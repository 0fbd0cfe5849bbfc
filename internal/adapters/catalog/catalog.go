// Package catalog reads track catalogs from JSON, TOML and YAML files.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than json, toml, yaml and yml.
	ErrUnsupportedFormat = errors.New("catalog: unsupported format")
	// ErrMissingEnergy is returned for an entry with neither energy nor an audio file.
	ErrMissingEnergy = errors.New("catalog: energy missing")
)

// Format names a catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// File is the on-disk catalog layout.
type File struct {
	Name   string  `json:"name" toml:"name" yaml:"name"`
	Tracks []Entry `json:"tracks" toml:"tracks" yaml:"tracks"`
}

// Entry is one catalog track. Energy may be omitted when Audio points at an MP3 file
// the loader can analyze.
type Entry struct {
	ID           string   `json:"id" toml:"id" yaml:"id"`
	Title        string   `json:"title" toml:"title" yaml:"title"`
	Artist       string   `json:"artist" toml:"artist" yaml:"artist"`
	Album        string   `json:"album,omitempty" toml:"album" yaml:"album,omitempty"`
	DurationMs   int      `json:"duration_ms,omitempty" toml:"duration_ms" yaml:"duration_ms,omitempty"`
	Tempo        float64  `json:"tempo" toml:"tempo" yaml:"tempo"`
	Energy       *float64 `json:"energy,omitempty" toml:"energy" yaml:"energy,omitempty"`
	Danceability float64  `json:"danceability" toml:"danceability" yaml:"danceability"`
	Key          int      `json:"key" toml:"key" yaml:"key"`
	Mode         int      `json:"mode" toml:"mode" yaml:"mode"`
	Audio        string   `json:"audio,omitempty" toml:"audio" yaml:"audio,omitempty"`
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (File, error) {
	var f File
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return File{}, fmt.Errorf("catalog: decode %s: %w", format, err)
	}
	return f, nil
}

// Encode writes f in the given format.
func Encode(f File, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("catalog: encode json: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, fmt.Errorf("catalog: encode toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("catalog: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("catalog: encode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// FromTracks converts domain tracks back into a catalog file.
func FromTracks(name string, tracks []domain.Track) File {
	f := File{Name: name, Tracks: make([]Entry, len(tracks))}
	for i, t := range tracks {
		energy := t.Features.Energy
		f.Tracks[i] = Entry{
			ID:           t.ID,
			Title:        t.Title,
			Artist:       t.Artist,
			Album:        t.Album,
			DurationMs:   t.DurationMs,
			Tempo:        t.Features.Tempo,
			Energy:       &energy,
			Danceability: t.Features.Danceability,
			Key:          t.Features.Key,
			Mode:         t.Features.Mode,
		}
	}
	return f
}

// Catalog is a loaded, validated track list.
type Catalog struct {
	Name   string
	Tracks []domain.Track
}

// Loader turns catalog files into domain tracks.
type Loader struct {
	// Analyzer fills in energy for entries that only carry an audio path. Optional.
	Analyzer ports.FeatureAnalyzer
	Logger   *log.Logger
}

// Load reads, decodes and validates the catalog at path. The catalog name defaults to
// the file name without extension.
func (l Loader) Load(ctx context.Context, path string) (Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Catalog{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return Catalog{}, err
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return l.Build(ctx, f, filepath.Dir(path))
}

// Build converts decoded entries into validated tracks. Relative audio paths are
// resolved against dir.
func (l Loader) Build(ctx context.Context, f File, dir string) (Catalog, error) {
	if len(f.Tracks) == 0 {
		return Catalog{}, errors.New("catalog: no tracks")
	}
	out := Catalog{Name: f.Name, Tracks: make([]domain.Track, 0, len(f.Tracks))}
	seen := make(map[string]int, len(f.Tracks))
	for i, e := range f.Tracks {
		t, err := l.track(ctx, e, dir)
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog: entry %d: %w", i+1, err)
		}
		if prev, dup := seen[t.ID]; dup {
			return Catalog{}, fmt.Errorf("catalog: entries %d and %d: %w: %q", prev+1, i+1, domain.ErrDuplicateTrack, t.ID)
		}
		seen[t.ID] = i
		out.Tracks = append(out.Tracks, t)
	}
	return out, nil
}

func (l Loader) track(ctx context.Context, e Entry, dir string) (domain.Track, error) {
	t := domain.Track{
		ID:         strings.TrimSpace(e.ID),
		Title:      e.Title,
		Artist:     e.Artist,
		Album:      e.Album,
		DurationMs: e.DurationMs,
		Features: domain.AudioFeatures{
			Tempo:        e.Tempo,
			Danceability: e.Danceability,
			Key:          e.Key,
			Mode:         e.Mode,
		},
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	switch {
	case e.Energy != nil:
		t.Features.Energy = *e.Energy
	case e.Audio != "" && l.Analyzer != nil:
		path := e.Audio
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		energy, err := l.Analyzer.AnalyzeEnergy(ctx, path)
		if err != nil {
			return domain.Track{}, err
		}
		if l.Logger != nil {
			l.Logger.Debug("estimated energy", "track", t.ID, "audio", path, "energy", energy)
		}
		t.Features.Energy = energy
	default:
		return domain.Track{}, fmt.Errorf("%w: %s", ErrMissingEnergy, t.ID)
	}

	if err := t.Validate(); err != nil {
		return domain.Track{}, err
	}
	return t, nil
}
