package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func retryOnlyConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesTransientBackendFailure(t *testing.T) {
	exec := NewExecutor(retryOnlyConfig())

	attempts := 0
	errBackendDown := errors.New("embedding backend down")
	err := exec.Execute(context.Background(), "ollama_embed", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errBackendDown
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, errBackendDown),
			RecordFailure: true,
		}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(retryOnlyConfig())

	attempts := 0
	errBadRequest := errors.New("collection name is invalid")
	err := exec.Execute(context.Background(), "qdrant_search", func(context.Context) error {
		attempts++
		return errBadRequest
	}, func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	})
	if !errors.Is(err, errBadRequest) {
		t.Fatalf("expected the permanent error back, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func breakerConfig() Config {
	return Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(breakerConfig())

	errBackendDown := errors.New("generation backend down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: true,
		}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "ollama_generate", func(context.Context) error {
			return errBackendDown
		}, classifier)
		if !errors.Is(err, errBackendDown) {
			t.Fatalf("expected backend error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "ollama_generate", func(context.Context) error {
		t.Fatal("circuit should be open and must not call the operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
}

func TestExecuteBreakersAreIsolatedPerOperation(t *testing.T) {
	exec := NewExecutor(breakerConfig())

	errBackendDown := errors.New("generation backend down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		_ = exec.Execute(context.Background(), "ollama_generate", func(context.Context) error {
			return errBackendDown
		}, classifier)
	}

	// The embed breaker must not trip because generate failed.
	err := exec.Execute(context.Background(), "ollama_embed", func(context.Context) error {
		return nil
	}, classifier)
	if err != nil {
		t.Fatalf("expected embed operation to pass, got %v", err)
	}
}
