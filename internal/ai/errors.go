package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyMessages is returned when a caller provides an empty conversation.
// It is the only error that escapes the responder.
var ErrEmptyMessages = errors.New("message list is empty")

// ProviderError wraps any transport failure, non-2xx status or malformed
// response envelope from an upstream provider. The responder recovers from it
// by falling back to the next provider; adapters never retry on their own.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.Status, e.Body)
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
