package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/segue/internal/core/sequencer"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "search.max_expansions")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return "config: " + e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "config: %d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	weights := map[string]float64{
		"weights.tempo":        c.Weights.Tempo,
		"weights.energy":       c.Weights.Energy,
		"weights.danceability": c.Weights.Danceability,
		"weights.key":          c.Weights.Key,
		"weights.mode":         c.Weights.Mode,
	}
	for _, field := range []string{"weights.tempo", "weights.energy", "weights.danceability", "weights.key", "weights.mode"} {
		if w := weights[field]; !(w >= 0) || math.IsInf(w, 1) {
			add(field, w, "must be a non-negative number")
		}
	}

	if _, err := sequencer.ParseHeuristic(c.Search.Heuristic); err != nil {
		add("search.heuristic", c.Search.Heuristic, "must be min-edge or min-hop")
	}
	if _, err := sequencer.ParseVisitMode(c.Search.VisitMode); err != nil {
		add("search.visit_mode", c.Search.VisitMode, "must be remaining-set or prefix")
	}
	if c.Search.MaxExpansions < 0 {
		add("search.max_expansions", c.Search.MaxExpansions, "must be >= 0")
	}
	if c.Search.Timeout < 0 {
		add("search.timeout", c.Search.Timeout, "must be >= 0")
	}

	if c.Storage.Driver != "sqlite" {
		add("storage.driver", c.Storage.Driver, "only sqlite is supported")
	}
	if c.Storage.Path == "" {
		add("storage.path", c.Storage.Path, "is required")
	}

	if c.Server.Addr == "" {
		add("server.addr", c.Server.Addr, "is required")
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		add("server.read_header_timeout", c.Server.ReadHeaderTimeout, "must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("server.shutdown_timeout", c.Server.ShutdownTimeout, "must be positive")
	}
	if c.Server.SearchTimeout <= 0 {
		add("server.search_timeout", c.Server.SearchTimeout, "must be positive")
	}
	if c.Server.MaxExpansions < 1 {
		add("server.max_expansions", c.Server.MaxExpansions, "must be >= 1")
	}
	if c.Server.MaxTracks < 1 {
		add("server.max_tracks", c.Server.MaxTracks, "must be >= 1")
	}
	if c.Server.MaxBodyBytes < 1 {
		add("server.max_body_bytes", c.Server.MaxBodyBytes, "must be >= 1")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		add("log.level", c.Log.Level, "must be debug, info, warn or error")
	}

	if c.Workers.Count < 1 {
		add("workers.count", c.Workers.Count, "must be >= 1")
	}
	if c.Workers.QueueSize < 1 {
		add("workers.queue_size", c.Workers.QueueSize, "must be >= 1")
	}

	return errs
}

// Heuristic returns the parsed search heuristic. Call Validate first.
func (c *Config) Heuristic() sequencer.Heuristic {
	h, _ := sequencer.ParseHeuristic(c.Search.Heuristic)
	return h
}

// VisitMode returns the parsed visit mode. Call Validate first.
func (c *Config) VisitMode() sequencer.VisitMode {
	v, _ := sequencer.ParseVisitMode(c.Search.VisitMode)
	return v
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}
