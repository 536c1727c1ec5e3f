package services

import (
	"context"
	"errors"
	"time"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/logger"
)

// Embedding calls are retried on transient unavailability before the
// caller skips the document or degrades the query.
const (
	embedAttempts   = 3
	embedRetryDelay = 250 * time.Millisecond
)

// embedWithRetry embeds a single text, retrying with doubling backoff
// on domain.ErrEmbeddingUnavailable. Other errors fail immediately.
func embedWithRetry(ctx context.Context, embedder driven.EmbeddingService, text string) ([]float32, error) {
	var lastErr error
	delay := embedRetryDelay
	for attempt := 1; attempt <= embedAttempts; attempt++ {
		vec, err := embedder.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		lastErr = err
		if attempt < embedAttempts {
			logger.Warn("embedding attempt %d/%d failed, retrying in %s: %v",
				attempt, embedAttempts, delay, err)
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}
	}
	return nil, lastErr
}

// embedBatchWithRetry is the batch counterpart of embedWithRetry.
func embedBatchWithRetry(ctx context.Context, embedder driven.EmbeddingService, texts []string) ([][]float32, error) {
	var lastErr error
	delay := embedRetryDelay
	for attempt := 1; attempt <= embedAttempts; attempt++ {
		vecs, err := embedder.EmbedBatch(ctx, texts)
		if err == nil {
			return vecs, nil
		}
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		lastErr = err
		if attempt < embedAttempts {
			logger.Warn("batch embedding attempt %d/%d failed, retrying in %s: %v",
				attempt, embedAttempts, delay, err)
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}
	}
	return nil, lastErr
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
