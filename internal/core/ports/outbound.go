// internal/core/ports/outbound.go
package ports

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
)

// TaskEnqueuer schedules background work. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ErrSubmissionRejected marks a document the backend refused outright.
// Resending it unchanged will not succeed.
var ErrSubmissionRejected = errors.New("submission rejected by backend")

// DocumentSubmitter hands finished documents to the upstream backend.
type DocumentSubmitter interface {
	Submit(ctx context.Context, submission domain.Submission) error
}

// FileStorage archives generated files.
type FileStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
