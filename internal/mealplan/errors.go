package mealplan

import (
	"errors"
	"fmt"
)

// Sentinel errors for the generation/editing pipeline. Handlers map these to
// HTTP status codes; everything else is treated as an internal failure.
var (
	// ErrRateLimited means the upstream model returned HTTP 429. The caller
	// decides whether and when to retry; the pipeline never retries itself.
	ErrRateLimited = errors.New("generation service rate limited")

	// ErrGenerationFailed covers every non-429 upstream failure.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidModelOutput means the completion text could not be parsed
	// into the expected JSON structure.
	ErrInvalidModelOutput = errors.New("invalid model output")

	// ErrNoEditToUndo is returned when undo is called on an item whose edit
	// history is empty. It is safe: nothing was mutated.
	ErrNoEditToUndo = errors.New("no edit to undo")
)

// InvalidOutputError wraps ErrInvalidModelOutput with the raw completion text
// so it can be logged for debugging. The raw text is never shown to end users.
type InvalidOutputError struct {
	Reason    string
	RawOutput string
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("invalid model output: %s", e.Reason)
}

func (e *InvalidOutputError) Unwrap() error {
	return ErrInvalidModelOutput
}

func invalidOutput(raw, format string, args ...any) error {
	return &InvalidOutputError{Reason: fmt.Sprintf(format, args...), RawOutput: raw}
}
