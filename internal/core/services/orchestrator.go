// Package services implements the application use cases on top of the sequencer.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
)

var (
	ErrEmptyName   = errors.New("service: playlist name cannot be empty")
	ErrEmptyID     = errors.New("service: playlist id cannot be empty")
	ErrEmptyTracks = errors.New("service: no tracks given")
)

// Settings apply to every search the orchestrator runs.
type Settings struct {
	// Weights applies when a call passes nil weights; nil selects domain.DefaultWeights.
	Weights       *domain.Weights
	Heuristic     sequencer.Heuristic
	VisitMode     sequencer.VisitMode
	MaxExpansions int
	// Timeout bounds a single search; 0 disables it.
	Timeout time.Duration
	Logger  *log.Logger
}

// Orchestrator coordinates the playlist repository, start-track lookup and searches.
type Orchestrator struct {
	repo     ports.PlaylistRepository
	resolver ports.TrackResolver
	searcher ports.StartSearcher
	settings Settings
	logger   *log.Logger

	now   func() time.Time
	newID func() string
}

// NewOrchestrator constructs an Orchestrator. resolver and searcher may be nil: start
// tracks are then matched by ID only and best-start searches run sequentially.
func NewOrchestrator(repo ports.PlaylistRepository, resolver ports.TrackResolver, searcher ports.StartSearcher, settings Settings) *Orchestrator {
	logger := settings.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{
		repo:     repo,
		resolver: resolver,
		searcher: searcher,
		settings: settings,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Settings returns the search settings in effect.
func (o *Orchestrator) Settings() Settings { return o.settings }

// CostModel returns the model for w, or for the configured weights when w is nil.
func (o *Orchestrator) CostModel(w *domain.Weights) sequencer.CostModel {
	return sequencer.NewCostModel(o.weights(w))
}

// OptimizeTracks orders tracks from the start track start refers to. An empty start
// selects the first track. A nil w uses the configured weights; any other w is used as
// given, including all zeros.
func (o *Orchestrator) OptimizeTracks(ctx context.Context, tracks []domain.Track, start string, w *domain.Weights) (sequencer.Result, error) {
	e, err := o.engine(tracks, w)
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("service: invalid track set: %w", err)
	}
	first, err := o.resolveStart(start, e.Tracks())
	if err != nil {
		return sequencer.Result{}, err
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()
	res, err := e.Search(ctx, first)
	if err != nil {
		return res, fmt.Errorf("service: optimize from %s: %w", first.ID, err)
	}
	o.logger.Info("optimized", "tracks", len(tracks), "start", first.ID, "cost", res.Cost,
		"expanded", res.Expanded, "elapsed", res.Elapsed)
	return res, nil
}

// ImportPlaylist validates tracks and stores them as a new playlist in the given order.
func (o *Orchestrator) ImportPlaylist(ctx context.Context, name string, tracks []domain.Track) (domain.Playlist, error) {
	if name == "" {
		return domain.Playlist{}, ErrEmptyName
	}
	if len(tracks) == 0 {
		return domain.Playlist{}, ErrEmptyTracks
	}
	pl, err := domain.NewPlaylist(o.newID(), name)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("service: %w", err)
	}
	for _, t := range tracks {
		if err := t.Validate(); err != nil {
			return domain.Playlist{}, fmt.Errorf("service: domain rule violation: %w", err)
		}
		if err := pl.AddTrack(t); err != nil {
			return domain.Playlist{}, fmt.Errorf("service: domain rule violation: %s: %w", t.ID, err)
		}
	}
	pl.Cost = o.CostModel(nil).TotalCost(pl.Tracks)
	pl.CreatedAt = o.now().UTC()

	if err := o.repo.Save(ctx, *pl); err != nil {
		return domain.Playlist{}, fmt.Errorf("service: failed to persist new playlist: %w", err)
	}
	o.logger.Info("imported playlist", "id", pl.ID, "name", pl.Name, "tracks", len(pl.Tracks))
	return *pl, nil
}

// GetPlaylist loads a stored playlist.
func (o *Orchestrator) GetPlaylist(ctx context.Context, id string) (domain.Playlist, error) {
	if id == "" {
		return domain.Playlist{}, ErrEmptyID
	}
	pl, err := o.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("service: failed to load playlist: %w", err)
	}
	return pl, nil
}

// ListPlaylists returns every stored playlist.
func (o *Orchestrator) ListPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	pls, err := o.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list playlists: %w", err)
	}
	return pls, nil
}

// OptimizePlaylist sequences a stored playlist and stores the result as a new playlist
// that points back at its source.
func (o *Orchestrator) OptimizePlaylist(ctx context.Context, id, start string, w *domain.Weights) (domain.Playlist, sequencer.Result, error) {
	src, err := o.GetPlaylist(ctx, id)
	if err != nil {
		return domain.Playlist{}, sequencer.Result{}, err
	}
	res, err := o.OptimizeTracks(ctx, src.Tracks, start, w)
	if err != nil {
		return domain.Playlist{}, res, err
	}

	out := domain.Playlist{
		ID:        o.newID(),
		Name:      src.Name + " (optimized)",
		Tracks:    res.Order,
		SourceID:  src.ID,
		StartID:   res.Order[0].ID,
		Cost:      res.Cost,
		CreatedAt: o.now().UTC(),
	}
	if err := o.repo.Save(ctx, out); err != nil {
		return domain.Playlist{}, res, fmt.Errorf("service: failed to save playlist: %w", err)
	}
	return out, res, nil
}

// StartRanking is the outcome of searching from every start track.
type StartRanking struct {
	Best     ports.StartOutcome
	Outcomes []ports.StartOutcome
}

// BestStart searches from every track and returns the cheapest ordering overall.
// Ties go to the earlier start in input order. Failed starts are reported in Outcomes;
// an error is returned only when every start failed.
func (o *Orchestrator) BestStart(ctx context.Context, tracks []domain.Track, w *domain.Weights) (StartRanking, error) {
	e, err := o.engine(tracks, w)
	if err != nil {
		return StartRanking{}, fmt.Errorf("service: invalid track set: %w", err)
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	starts := e.Tracks()
	var outcomes []ports.StartOutcome
	if o.searcher != nil {
		outcomes = o.searcher.SearchStarts(ctx, e, starts)
	} else {
		outcomes = make([]ports.StartOutcome, len(starts))
		for i, s := range starts {
			res, err := e.Search(ctx, s)
			outcomes[i] = ports.StartOutcome{Start: s, Result: res, Err: err}
		}
	}

	ranking := StartRanking{Outcomes: outcomes}
	found := false
	var errs []error
	for _, oc := range outcomes {
		if oc.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", oc.Start.ID, oc.Err))
			continue
		}
		if !found || oc.Result.Cost < ranking.Best.Result.Cost {
			ranking.Best = oc
			found = true
		}
	}
	if !found {
		return ranking, fmt.Errorf("service: every start failed: %w", errors.Join(errs...))
	}
	o.logger.Info("best start", "start", ranking.Best.Start.ID, "cost", ranking.Best.Result.Cost,
		"failed", len(errs))
	return ranking, nil
}

// Analysis reports per-track attributes and per-transition costs of a stored playlist,
// compared against its reverse and, for optimized playlists, the source order.
func (o *Orchestrator) Analysis(ctx context.Context, id string) (Analysis, error) {
	pl, err := o.GetPlaylist(ctx, id)
	if err != nil {
		return Analysis{}, fmt.Errorf("service: failed to load playlist analysis: %w", err)
	}
	a := NewAnalysis(o.CostModel(nil), pl.Name, pl.Tracks)
	if pl.SourceID != "" {
		src, err := o.repo.GetByID(ctx, pl.SourceID)
		switch {
		case err == nil:
			a.Compare("input order", src.Tracks)
		case !errors.Is(err, domain.ErrNotFound):
			return Analysis{}, fmt.Errorf("service: failed to load source playlist: %w", err)
		}
	}
	a.Compare("reversed", reversed(pl.Tracks))
	return a, nil
}

// AnalyzeResult builds the analysis of an optimization run over input.
func (o *Orchestrator) AnalyzeResult(name string, input []domain.Track, res sequencer.Result, w *domain.Weights) Analysis {
	a := NewAnalysis(o.CostModel(w), name, res.Order)
	a.Compare("input order", input)
	a.Compare("reversed", reversed(res.Order))
	return a
}

func (o *Orchestrator) weights(w *domain.Weights) domain.Weights {
	switch {
	case w != nil:
		return *w
	case o.settings.Weights != nil:
		return *o.settings.Weights
	default:
		return domain.DefaultWeights()
	}
}

func (o *Orchestrator) engine(tracks []domain.Track, w *domain.Weights) (*sequencer.Engine, error) {
	return sequencer.New(tracks,
		sequencer.WithWeights(o.weights(w)),
		sequencer.WithHeuristic(o.settings.Heuristic),
		sequencer.WithVisitMode(o.settings.VisitMode),
		sequencer.WithMaxExpansions(o.settings.MaxExpansions),
		sequencer.WithLogger(o.settings.Logger),
	)
}

func (o *Orchestrator) resolveStart(query string, tracks []domain.Track) (domain.Track, error) {
	if query == "" {
		return tracks[0], nil
	}
	if o.resolver != nil {
		t, err := o.resolver.Resolve(query, tracks)
		if err != nil {
			return domain.Track{}, fmt.Errorf("service: start track: %w", err)
		}
		return t, nil
	}
	for _, t := range tracks {
		if t.ID == query {
			return t, nil
		}
	}
	return domain.Track{}, fmt.Errorf("service: start track %q: %w", query, domain.ErrNotFound)
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.settings.Timeout > 0 {
		return context.WithTimeout(ctx, o.settings.Timeout)
	}
	return context.WithCancel(ctx)
}

func reversed(ts []domain.Track) []domain.Track {
	out := slices.Clone(ts)
	slices.Reverse(out)
	return out
}
