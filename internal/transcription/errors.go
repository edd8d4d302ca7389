package transcription

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the declared MIME type is not allowed
	// or the declared size exceeds the maximum, before any work is done.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPayloadTooLarge is returned when the payload exceeds the absolute
	// maximum, before any chunk is produced.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNoTranscripts is returned when every chunk failed and nothing is
	// left to merge.
	ErrNoTranscripts = errors.New("no transcripts available")
)

// ProviderError wraps a failed provider call for one chunk. Chunk failures are
// collected, not fatal: the remaining chunks are still attempted.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s", e.Message)
}
