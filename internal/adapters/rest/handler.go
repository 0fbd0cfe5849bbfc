package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ewilliams-labs/segue/internal/core/services"
)

const (
	// DefaultMaxTracks caps the tracks accepted in one request body.
	DefaultMaxTracks = 64
	// DefaultMaxBodyBytes caps the size of a request body.
	DefaultMaxBodyBytes = 1 << 20
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	logger *log.Logger
	router chi.Router

	maxTracks    int
	maxBodyBytes int64
}

// Option customizes a Handler.
type Option func(*Handler)

// WithMaxTracks rejects request bodies carrying more than n tracks with 400.
func WithMaxTracks(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxTracks = n
		}
	}
}

// WithMaxBodyBytes rejects request bodies larger than n bytes with 413.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler initializes the HTTP adapter and sets up routes.
// A nil logger disables request logging.
func NewHandler(svc *services.Orchestrator, logger *log.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{
		svc:          svc,
		logger:       logger,
		router:       chi.NewRouter(),
		maxTracks:    DefaultMaxTracks,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.Use(middleware.RequestID)
	h.router.Use(h.requestLogger)
	h.router.Use(middleware.Recoverer)
	h.router.Use(h.limitBody)

	// Health Check
	h.router.Get("/health", h.HealthCheck)

	// Ad-hoc sequencing of inline tracks
	h.router.Post("/optimize", h.Optimize)
	h.router.Post("/best-start", h.BestStart)

	// Stored playlists
	h.router.Route("/playlists", func(r chi.Router) {
		r.Get("/", h.ListPlaylists)
		r.Post("/", h.CreatePlaylist)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetPlaylist)
			r.Post("/optimize", h.OptimizePlaylist)
			r.Get("/analysis", h.GetPlaylistAnalysis)
			r.Get("/graph", h.GetPlaylistGraph)
		})
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "segue is live"})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// checkTrackCount writes a 400 and returns false when tracks exceeds the cap.
func (h *Handler) checkTrackCount(w http.ResponseWriter, tracks int) bool {
	if tracks > h.maxTracks {
		writeErrorWithCode(w, http.StatusBadRequest,
			fmt.Sprintf("too many tracks: %d, at most %d per request", tracks, h.maxTracks), errCodeInvalidInput)
		return false
	}
	return true
}

// decodeJSON enforces a JSON content type and decodes the body into dst.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorWithCode(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), errCodeInvalidInput)
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
