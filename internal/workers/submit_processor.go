// internal/workers/submit_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// SubmitProcessor delivers finished drafts to the backend
type SubmitProcessor struct {
	submitter ports.DocumentSubmitter
	logger    *slog.Logger
}

// NewSubmitProcessor creates a new submit processor
func NewSubmitProcessor(submitter ports.DocumentSubmitter, logger *slog.Logger) *SubmitProcessor {
	return &SubmitProcessor{
		submitter: submitter,
		logger:    logger.With(slog.String("processor", "submit")),
	}
}

// ProcessSubmit handles document:submit tasks. Rejected documents are not retried.
func (p *SubmitProcessor) ProcessSubmit(ctx context.Context, t *asynq.Task) error {
	var payload SubmitPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	sub := payload.Submission

	err := p.submitter.Submit(ctx, sub)
	if errors.Is(err, ports.ErrSubmissionRejected) {
		p.logger.ErrorContext(ctx, "submission rejected",
			slog.String("draft_id", sub.DraftID.String()),
			slog.String("kind", string(sub.Kind)),
			slog.String("error", err.Error()))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to submit draft %s: %w", sub.DraftID, err)
	}

	p.logger.InfoContext(ctx, "submission delivered",
		slog.String("draft_id", sub.DraftID.String()),
		slog.String("kind", string(sub.Kind)),
		slog.Duration("queued_for", time.Since(payload.QueuedAt)))
	return nil
}
