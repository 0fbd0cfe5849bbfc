package catalog

import (
	"errors"
	"testing"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "kitten sitting", a: "kitten", b: "sitting", want: 3},
		{name: "empty to word", a: "", b: "sound", want: 5},
		{name: "identical", a: "jean", b: "jean", want: 0},
		{name: "multibyte", a: "café", b: "cafe", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levenshtein(tt.a, tt.b); got != tt.want {
				t.Fatalf("distance: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatcher_Resolve(t *testing.T) {
	tracks := DemoTracks()
	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr bool
	}{
		{name: "exact id", query: "3", wantID: "3"},
		{name: "exact title", query: "Billie Jean", wantID: "4"},
		{name: "case and whitespace", query: "  uptown FUNK ", wantID: "2"},
		{name: "title prefix", query: "bohemian", wantID: "1"},
		{name: "title and artist without apostrophes", query: "Sweet Child O Mine - Guns N Roses", wantID: "3"},
		{name: "remaster decoration", query: "Bohemian Rhapsody (Remastered 2011) - Queen", wantID: "1"},
		{name: "typo", query: "Bilie Jean", wantID: "4"},
		{name: "wrong artist", query: "Uptown Funk - Bruno Mars", wantErr: true},
		{name: "unknown song", query: "Stairway to Heaven", wantErr: true},
		{name: "empty", query: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matcher{}.Resolve(tt.query, tracks)
			if tt.wantErr {
				if !errors.Is(err, ports.ErrNoConfidentMatch) {
					t.Fatalf("expected ErrNoConfidentMatch, got %v (track %s)", err, got.ID)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Fatalf("resolved %q to %s, want %s", tt.query, got.ID, tt.wantID)
			}
		})
	}
}

func TestMatcher_ResolveAmbiguousTitle(t *testing.T) {
	tracks := []domain.Track{
		{ID: "a", Title: "Intro", Artist: "The xx"},
		{ID: "b", Title: "Intro", Artist: "M83"},
	}

	_, err := Matcher{}.Resolve("Intro", tracks)
	var matchErr ports.NoConfidentMatchError
	if !errors.As(err, &matchErr) {
		t.Fatalf("expected NoConfidentMatchError, got %v", err)
	}
	if matchErr.Query != "Intro" {
		t.Errorf("query: got %q", matchErr.Query)
	}

	got, err := Matcher{}.Resolve("Intro - M83", tracks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "b" {
		t.Fatalf("resolved to %s, want b", got.ID)
	}
}
