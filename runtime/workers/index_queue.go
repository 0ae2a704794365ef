package workers

import (
	"context"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/errors"
	"pair-chat/observability"
	"pair-chat/services"
)

// IndexQueue moves search indexing off the request path.
// Index only enqueues; Run drains the queue into the underlying index.
// Search goes straight to the underlying index, so a message becomes
// searchable once the worker has caught up.
type IndexQueue struct {
	index   services.IMessageIndex
	jobs    chan domain.Message
	log     *slog.Logger
	metrics *observability.Metrics
}

var _ services.IMessageIndex = (*IndexQueue)(nil)

func NewIndexQueue(index services.IMessageIndex, size int, log *slog.Logger, metrics *observability.Metrics) *IndexQueue {
	return &IndexQueue{
		index:   index,
		jobs:    make(chan domain.Message, size),
		log:     log,
		metrics: metrics,
	}
}

// Index never blocks: a full queue is reported to the caller, which only logs it.
func (q *IndexQueue) Index(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.jobs <- msg:
		q.metrics.IndexQueueDepth.Inc()
		return nil
	default:
		return errors.ErrIndexQueueFull
	}
}

func (q *IndexQueue) Search(ctx context.Context, conversationID, query string, limit int) ([]domain.Message, error) {
	return q.index.Search(ctx, conversationID, query, limit)
}

// Run indexes queued messages until ctx is cancelled, then flushes what is
// already queued so a graceful shutdown loses nothing that was accepted.
func (q *IndexQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.drain(ctx)
			return nil
		case msg := <-q.jobs:
			q.write(ctx, msg)
		}
	}
}

func (q *IndexQueue) drain(ctx context.Context) {
	for {
		select {
		case msg := <-q.jobs:
			q.write(ctx, msg)
		default:
			q.log.Debug("Index queue drained")
			return
		}
	}
}

// write detaches from ctx: a message taken off the queue is always indexed.
func (q *IndexQueue) write(ctx context.Context, msg domain.Message) {
	q.metrics.IndexQueueDepth.Dec()
	if err := q.index.Index(context.WithoutCancel(ctx), msg); err != nil {
		q.log.Warn("Message stored but not indexed", "message_id", msg.ID, "error", err)
		q.metrics.IndexErrors.Inc()
	}
}
