package ports

import (
	"context"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// PlaylistRepository persists catalogs and optimized playlists.
// GetByID returns domain.ErrNotFound for unknown IDs.
type PlaylistRepository interface {
	GetByID(ctx context.Context, id string) (domain.Playlist, error)
	Save(ctx context.Context, p domain.Playlist) error
	List(ctx context.Context) ([]domain.Playlist, error)
}
