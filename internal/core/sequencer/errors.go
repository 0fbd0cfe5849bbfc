package sequencer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration covers an empty or malformed track set, invalid weights or
	// options, and a start track that is not part of the engine's track set.
	ErrInvalidConfiguration = errors.New("sequencer: invalid configuration")

	// ErrSearchExhausted means the frontier emptied before any complete ordering was reached.
	ErrSearchExhausted = errors.New("sequencer: search exhausted without a complete ordering")

	// ErrBudgetExceeded means the configured node-expansion budget ran out.
	ErrBudgetExceeded = errors.New("sequencer: expansion budget exceeded")

	// ErrSearchCanceled wraps the context error when a search is canceled or times out.
	ErrSearchCanceled = errors.New("sequencer: search canceled")
)

// ConfigError describes why an engine could not be built or a search could not start.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidConfiguration, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(err error, format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...), Err: err}
}
