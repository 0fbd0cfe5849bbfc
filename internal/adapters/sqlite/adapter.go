// Package sqlite provides a SQLite-backed implementation of the repository port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Adapter implements the repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.PlaylistRepository = (*Adapter)(nil)

// NewAdapter opens the database at storagePath and runs the schema migration.
// ":memory:" gives a private in-memory database.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open db: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration failed: %w", err)
	}
	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Playlist, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, name, source_id, start_id, cost, created_at
		FROM playlists WHERE id = ?
	`, id)
	p, err := scanPlaylist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Playlist{}, domain.ErrNotFound
		}
		return domain.Playlist{}, fmt.Errorf("sqlite: failed to load playlist: %w", err)
	}
	if p.Tracks, err = a.tracks(ctx, p.ID); err != nil {
		return domain.Playlist{}, err
	}
	return p, nil
}

// List returns every playlist, oldest first, with its tracks.
func (a *Adapter) List(ctx context.Context) ([]domain.Playlist, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, source_id, start_id, cost, created_at
		FROM playlists ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list playlists: %w", err)
	}
	var out []domain.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: failed to scan playlist: %w", err)
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate playlists: %w", err)
	}

	// Tracks are loaded after the cursor is closed: the pool has a single connection.
	for i := range out {
		if out[i].Tracks, err = a.tracks(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Adapter) Save(ctx context.Context, p domain.Playlist) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlists (id, name, source_id, start_id, cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			source_id=excluded.source_id,
			start_id=excluded.start_id,
			cost=excluded.cost
	`, p.ID, p.Name, nullable(p.SourceID), nullable(p.StartID), p.Cost, created.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("sqlite: failed to save playlist metadata: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_tracks WHERE playlist_id = ?", p.ID); err != nil {
		return fmt.Errorf("sqlite: failed to clear old tracks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO playlist_tracks (
			playlist_id, position, track_id, title, artist, album, duration_ms,
			tempo, energy, danceability, pitch_key, mode
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range p.Tracks {
		f := t.Features
		if _, err := stmt.ExecContext(ctx,
			p.ID, i, t.ID, t.Title, t.Artist, t.Album, t.DurationMs,
			f.Tempo, f.Energy, f.Danceability, f.Key, f.Mode,
		); err != nil {
			return fmt.Errorf("sqlite: failed to save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: transaction commit failed: %w", err)
	}
	return nil
}

func (a *Adapter) tracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT track_id, title, artist, album, duration_ms,
			tempo, energy, danceability, pitch_key, mode
		FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to load playlist tracks: %w", err)
	}
	defer rows.Close()

	tracks := []domain.Track{}
	for rows.Next() {
		var t domain.Track
		var album sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Artist, &album, &duration,
			&t.Features.Tempo, &t.Features.Energy, &t.Features.Danceability,
			&t.Features.Key, &t.Features.Mode,
		); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan playlist track: %w", err)
		}
		t.Album = album.String
		t.DurationMs = int(duration.Int64)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate playlist tracks: %w", err)
	}
	return tracks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(s scanner) (domain.Playlist, error) {
	var p domain.Playlist
	var source, start sql.NullString
	var created string
	if err := s.Scan(&p.ID, &p.Name, &source, &start, &p.Cost, &created); err != nil {
		return domain.Playlist{}, err
	}
	p.SourceID = source.String
	p.StartID = start.String
	ts, err := time.Parse(timeLayout, created)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	p.CreatedAt = ts
	return p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (a *Adapter) migrate() error {
	query := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS playlists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source_id TEXT,
		start_id TEXT,
		cost REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS playlist_tracks (
		playlist_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		track_id TEXT NOT NULL,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		album TEXT,
		duration_ms INTEGER,
		tempo REAL NOT NULL,
		energy REAL NOT NULL,
		danceability REAL NOT NULL,
		pitch_key INTEGER NOT NULL,
		mode INTEGER NOT NULL,
		PRIMARY KEY (playlist_id, position),
		UNIQUE (playlist_id, track_id),
		FOREIGN KEY(playlist_id) REFERENCES playlists(id) ON DELETE CASCADE
	);
	`
	_, err := a.db.Exec(query)
	return err
}
