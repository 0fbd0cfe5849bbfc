package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleTracks() []domain.Track {
	return []domain.Track{
		{
			ID:         "t1",
			Title:      "Song One",
			Artist:     "Artist A",
			Album:      "Album A",
			DurationMs: 123000,
			Features:   domain.AudioFeatures{Tempo: 120, Energy: 0.5, Danceability: 0.25, Key: 7, Mode: 1},
		},
		{
			ID:       "t2",
			Title:    "Song Two",
			Artist:   "Artist B",
			Features: domain.AudioFeatures{Tempo: 98.5, Energy: 0.75, Danceability: 0.6, Key: 0, Mode: 0},
		},
	}
}

func TestAdapter_GetByID(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name       string
		setup      func(t *testing.T, a *Adapter) string
		wantErr    error
		want       domain.Playlist
		wantTracks int
	}{
		{
			name: "not found",
			setup: func(t *testing.T, a *Adapter) string {
				return "missing"
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "returns playlist with tracks",
			setup: func(t *testing.T, a *Adapter) string {
				p := domain.Playlist{ID: "pl-1", Name: "Test Playlist", Tracks: sampleTracks(), Cost: 0.5, CreatedAt: created}
				if err := a.Save(context.Background(), p); err != nil {
					t.Fatalf("save playlist: %v", err)
				}
				return p.ID
			},
			want:       domain.Playlist{ID: "pl-1", Name: "Test Playlist", Cost: 0.5, CreatedAt: created},
			wantTracks: 2,
		},
		{
			name: "returns optimized playlist metadata",
			setup: func(t *testing.T, a *Adapter) string {
				p := domain.Playlist{
					ID: "pl-2", Name: "Opt", Tracks: sampleTracks(),
					SourceID: "pl-1", StartID: "t1", Cost: 0.25, CreatedAt: created,
				}
				if err := a.Save(context.Background(), p); err != nil {
					t.Fatalf("save playlist: %v", err)
				}
				return p.ID
			},
			want:       domain.Playlist{ID: "pl-2", Name: "Opt", SourceID: "pl-1", StartID: "t1", Cost: 0.25, CreatedAt: created},
			wantTracks: 2,
		},
		{
			name: "empty playlist",
			setup: func(t *testing.T, a *Adapter) string {
				if err := a.Save(context.Background(), domain.Playlist{ID: "pl-3", Name: "Empty", CreatedAt: created}); err != nil {
					t.Fatalf("save playlist: %v", err)
				}
				return "pl-3"
			},
			want: domain.Playlist{ID: "pl-3", Name: "Empty", CreatedAt: created},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)

			got, err := a.GetByID(context.Background(), tt.setup(t, a))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want.ID || got.Name != tt.want.Name || got.SourceID != tt.want.SourceID ||
				got.StartID != tt.want.StartID || got.Cost != tt.want.Cost {
				t.Fatalf("metadata: got %+v, want %+v", got, tt.want)
			}
			if !got.CreatedAt.Equal(tt.want.CreatedAt) {
				t.Fatalf("created_at: got %v, want %v", got.CreatedAt, tt.want.CreatedAt)
			}
			if len(got.Tracks) != tt.wantTracks {
				t.Fatalf("tracks: got %d, want %d", len(got.Tracks), tt.wantTracks)
			}
			if tt.wantTracks > 0 {
				want := sampleTracks()
				for i := range want {
					if got.Tracks[i] != want[i] {
						t.Errorf("track %d: got %+v, want %+v", i, got.Tracks[i], want[i])
					}
				}
			}
		})
	}
}

func TestAdapter_SaveKeepsOrderAndReplacesTracks(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	tracks := sampleTracks()
	p := domain.Playlist{ID: "pl", Name: "First", Tracks: []domain.Track{tracks[1], tracks[0]}}
	if err := a.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := a.GetByID(ctx, "pl")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tracks[0].ID != "t2" || got.Tracks[1].ID != "t1" {
		t.Fatalf("order not preserved: %s, %s", got.Tracks[0].ID, got.Tracks[1].ID)
	}

	p.Name = "Renamed"
	p.Tracks = tracks[:1]
	if err := a.Save(ctx, p); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, err = a.GetByID(ctx, "pl")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Renamed" || len(got.Tracks) != 1 {
		t.Fatalf("expected renamed playlist with one track, got %q with %d", got.Name, len(got.Tracks))
	}
}

func TestAdapter_SameTrackIDInDifferentPlaylists(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	one := sampleTracks()[:1]
	two := sampleTracks()[:1]
	two[0].Features.Tempo = 60

	if err := a.Save(ctx, domain.Playlist{ID: "a", Name: "A", Tracks: one}); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := a.Save(ctx, domain.Playlist{ID: "b", Name: "B", Tracks: two}); err != nil {
		t.Fatalf("save b: %v", err)
	}
	got, err := a.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if got.Tracks[0].Features.Tempo != 120 {
		t.Fatalf("playlist a was changed by saving b: tempo %v", got.Tracks[0].Features.Tempo)
	}
}

func TestAdapter_SaveRejectsDuplicateTrack(t *testing.T) {
	a := newTestAdapter(t)
	tr := sampleTracks()[0]
	err := a.Save(context.Background(), domain.Playlist{ID: "dup", Name: "Dup", Tracks: []domain.Track{tr, tr}})
	if err == nil {
		t.Fatal("expected unique constraint error")
	}
	if _, err := a.GetByID(context.Background(), "dup"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("failed save must roll back, got %v", err)
	}
}

func TestAdapter_List(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	pls, err := a.List(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(pls) != 0 {
		t.Fatalf("expected no playlists, got %d", len(pls))
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"late", "early"} {
		p := domain.Playlist{ID: id, Name: id, Tracks: sampleTracks(), CreatedAt: base.Add(time.Duration(1-i) * time.Hour)}
		if err := a.Save(ctx, p); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	pls, err = a.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pls) != 2 || pls[0].ID != "early" || pls[1].ID != "late" {
		t.Fatalf("unexpected list order: %+v", pls)
	}
	if len(pls[1].Tracks) != 2 {
		t.Fatalf("expected tracks to be loaded, got %d", len(pls[1].Tracks))
	}

	// Same creation time: ordered by ID.
	for _, id := range []string{"tie-b", "tie-a"} {
		p := domain.Playlist{ID: id, Name: id, Tracks: sampleTracks(), CreatedAt: base.Add(2 * time.Hour)}
		if err := a.Save(ctx, p); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	pls, err = a.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []string
	for _, p := range pls {
		got = append(got, p.ID)
	}
	if strings.Join(got, ",") != "early,late,tie-a,tie-b" {
		t.Fatalf("list order: got %v", got)
	}
}
