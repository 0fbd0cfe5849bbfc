package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

const jsonCatalog = `{
  "name": "Warmup",
  "tracks": [
    {"id": "a", "title": "First", "artist": "One", "tempo": 100, "energy": 0.4, "danceability": 0.5, "key": 2, "mode": 1},
    {"id": "b", "title": "Second", "artist": "Two", "tempo": 110, "energy": 0.6, "danceability": 0.7, "key": 9, "mode": 0}
  ]
}`

const tomlCatalog = `
name = "Warmup"

[[tracks]]
id = "a"
title = "First"
artist = "One"
tempo = 100.0
energy = 0.4
danceability = 0.5
key = 2
mode = 1

[[tracks]]
id = "b"
title = "Second"
artist = "Two"
tempo = 110.0
energy = 0.6
danceability = 0.7
key = 9
mode = 0
`

const yamlCatalog = `
name: Warmup
tracks:
  - id: a
    title: First
    artist: One
    tempo: 100
    energy: 0.4
    danceability: 0.5
    key: 2
    mode: 1
  - id: b
    title: Second
    artist: Two
    tempo: 110
    energy: 0.6
    danceability: 0.7
    key: 9
    mode: 0
`

type fakeAnalyzer struct {
	energy float64
	err    error
	paths  []string
}

func (f *fakeAnalyzer) AnalyzeEnergy(ctx context.Context, path string) (float64, error) {
	f.paths = append(f.paths, path)
	return f.energy, f.err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoader_LoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{file: "warmup.json", content: jsonCatalog},
		{file: "warmup.toml", content: tomlCatalog},
		{file: "warmup.yaml", content: yamlCatalog},
		{file: "warmup.yml", content: yamlCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			c, err := Loader{}.Load(context.Background(), writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if c.Name != "Warmup" {
				t.Errorf("name: got %q", c.Name)
			}
			if len(c.Tracks) != 2 {
				t.Fatalf("tracks: got %d, want 2", len(c.Tracks))
			}
			want := domain.AudioFeatures{Tempo: 110, Energy: 0.6, Danceability: 0.7, Key: 9, Mode: 0}
			if c.Tracks[1].Features != want {
				t.Errorf("features: got %+v, want %+v", c.Tracks[1].Features, want)
			}
			if c.Tracks[0].ID != "a" || c.Tracks[0].Artist != "One" {
				t.Errorf("first track: got %+v", c.Tracks[0])
			}
		})
	}
}

func TestLoader_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "unsupported extension", file: "list.csv", content: "a,b", wantErr: ErrUnsupportedFormat},
		{
			name:    "missing energy",
			file:    "c.json",
			content: `{"tracks":[{"id":"a","title":"A","tempo":100,"danceability":0.5,"key":1,"mode":1}]}`,
			wantErr: ErrMissingEnergy,
		},
		{
			name:    "invalid attribute",
			file:    "c.json",
			content: `{"tracks":[{"id":"a","title":"A","tempo":100,"energy":1.5,"danceability":0.5,"key":1,"mode":1}]}`,
			wantErr: domain.ErrInvalidTrack,
		},
		{
			name: "duplicate id",
			file: "c.yaml",
			content: "tracks:\n" +
				"  - {id: a, title: A, tempo: 100, energy: 0.5, danceability: 0.5, key: 1, mode: 1}\n" +
				"  - {id: a, title: B, tempo: 101, energy: 0.5, danceability: 0.5, key: 1, mode: 1}\n",
			wantErr: domain.ErrDuplicateTrack,
		},
		{name: "empty", file: "c.json", content: `{"name":"x","tracks":[]}`},
		{name: "unknown field", file: "c.json", content: `{"tracks":[],"colour":"red"}`},
		{name: "malformed toml", file: "c.toml", content: "name = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Loader{}.Load(context.Background(), writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoader_NameDefaultsToFileName(t *testing.T) {
	path := writeFile(t, "late-night.json",
		`{"tracks":[{"id":"a","title":"A","tempo":90,"energy":0.2,"danceability":0.3,"key":0,"mode":0}]}`)
	c, err := Loader{}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Name != "late-night" {
		t.Fatalf("name: got %q, want late-night", c.Name)
	}
}

func TestLoader_AnalyzesAudioWhenEnergyMissing(t *testing.T) {
	path := writeFile(t, "set.json",
		`{"tracks":[{"title":"No ID","tempo":90,"danceability":0.3,"key":0,"mode":0,"audio":"songs/a.mp3"}]}`)
	fa := &fakeAnalyzer{energy: 0.42}

	c, err := Loader{Analyzer: fa}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Tracks[0].Features.Energy; got != 0.42 {
		t.Errorf("energy: got %v, want 0.42", got)
	}
	if c.Tracks[0].ID == "" {
		t.Error("expected a generated id")
	}
	wantPath := filepath.Join(filepath.Dir(path), "songs", "a.mp3")
	if len(fa.paths) != 1 || fa.paths[0] != wantPath {
		t.Errorf("analyzer paths: got %v, want [%s]", fa.paths, wantPath)
	}

	fa.err = errors.New("decode failed")
	if _, err := (Loader{Analyzer: fa}).Load(context.Background(), path); err == nil {
		t.Fatal("expected analyzer error to propagate")
	}
}

func TestEncode_ReadableByParse(t *testing.T) {
	tracks := DemoTracks()
	for _, format := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(FromTracks(DemoName, tracks), format)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			f, err := Parse(data, format)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			c, err := Loader{}.Build(context.Background(), f, "")
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if c.Name != DemoName || len(c.Tracks) != len(tracks) {
				t.Fatalf("got %q with %d tracks", c.Name, len(c.Tracks))
			}
			for i := range tracks {
				if c.Tracks[i] != tracks[i] {
					t.Errorf("track %d: got %+v, want %+v", i, c.Tracks[i], tracks[i])
				}
			}
		})
	}
}

func TestDemoTracksAreValid(t *testing.T) {
	for _, tr := range DemoTracks() {
		if err := tr.Validate(); err != nil {
			t.Errorf("demo track %s: %v", tr.ID, err)
		}
	}
}
