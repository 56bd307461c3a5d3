package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")

	// ErrRetrievalUnavailable marks embedding or vector-store failures. The
	// caller decides whether to degrade to keyword-only search.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerationUnavailable marks generation failure after retry
	// exhaustion. It is surfaced as a generic unavailable response, never as
	// raw detail.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrInjectionDetected marks a guardrail pre-check match. The offending
	// query content is never echoed back.
	ErrInjectionDetected = errors.New("injection detected")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
