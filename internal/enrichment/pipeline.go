// internal/enrichment/pipeline.go
package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"netzero/internal/apperr"
	"netzero/internal/users"
)

// UserStore is the slice of the user store the pipeline needs.
type UserStore interface {
	UpdateProfile(ctx context.Context, email string, patch users.ProfileUpdate) (prev, updated *users.User, err error)
	UpdateTags(ctx context.Context, email string, tags []string) error
}

// Pipeline owns the fire-and-forget enrichment queue. Profile updates return
// before classification runs; a task's failure is swallowed by design and
// only visible through logs, counters, and the absence of expected tags.
// Concurrent tasks for the same user are not coordinated: last write wins.
type Pipeline struct {
	store      UserStore
	classifier *Classifier
	queue      chan *Task
	logger     *slog.Logger
	tracer     trace.Tracer
	wg         sync.WaitGroup

	tasksCompleted metric.Int64Counter
	tasksFailed    metric.Int64Counter
	tasksDropped   metric.Int64Counter
}

// NewPipeline creates the enrichment pipeline. Call Start to begin draining
// the queue and Close to drain and stop.
func NewPipeline(store UserStore, classifier *Classifier, queueSize int, logger *slog.Logger) *Pipeline {
	meter := otel.Meter("netzero/enrichment")
	completed, _ := meter.Int64Counter("enrichment.tasks.completed")
	failed, _ := meter.Int64Counter("enrichment.tasks.failed")
	dropped, _ := meter.Int64Counter("enrichment.tasks.dropped")

	return &Pipeline{
		store:          store,
		classifier:     classifier,
		queue:          make(chan *Task, queueSize),
		logger:         logger,
		tracer:         otel.Tracer("netzero/enrichment"),
		tasksCompleted: completed,
		tasksFailed:    failed,
		tasksDropped:   dropped,
	}
}

// Start launches the worker goroutine.
func (p *Pipeline) Start() {
	p.wg.Add(1)
	go p.run()
}

// Close stops accepting tasks, drains the queue, and waits for the worker.
func (p *Pipeline) Close() {
	close(p.queue)
	p.wg.Wait()
}

// Submit enqueues a task without blocking the caller. When the queue is full
// the task is dropped: enrichment is best-effort and a lost cycle costs only
// staleness until the next profile update.
func (p *Pipeline) Submit(t Task) {
	t.Status = StatusSubmitted
	t.SubmittedAt = time.Now().UTC()

	select {
	case p.queue <- &t:
	default:
		p.tasksDropped.Add(context.Background(), 1)
		p.logger.Warn("enrichment queue full, dropping task", "email", t.Email)
	}
}

func (p *Pipeline) run() {
	defer p.wg.Done()
	for t := range p.queue {
		// Detached from the originating request on purpose: the HTTP
		// response has long been written by the time this runs.
		p.process(context.Background(), t)
	}
}

func (p *Pipeline) process(ctx context.Context, t *Task) {
	ctx, span := p.tracer.Start(ctx, "enrichment.process")
	defer span.End()

	t.Status = StatusRunning

	tags, err := p.classifier.Classify(ctx, t.LinkedIn, t.X, t.Email)
	if err != nil {
		t.Status = StatusFailed
		p.tasksFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stageOf(err))))
		p.logger.Warn("enrichment classification failed", "email", t.Email, "error", err)
		return
	}

	if err := p.store.UpdateTags(ctx, t.Email, tags); err != nil {
		t.Status = StatusFailed
		p.tasksFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "store")))
		p.logger.Warn("enrichment write-back failed", "email", t.Email, "error", err)
		return
	}

	t.Status = StatusCompleted
	p.tasksCompleted.Add(ctx, 1)
	p.logger.Info("profile enriched", "email", t.Email, "tags", len(tags))
}

func stageOf(err error) string {
	var stageErr *StageError
	if apperr.As(err, &stageErr) {
		return stageErr.Stage
	}
	return "unknown"
}

// UpdateProfile applies the patch immediately and, when a social handle
// changed to a non-empty value, dispatches enrichment out-of-band. The
// update's success never waits on classification.
func (p *Pipeline) UpdateProfile(ctx context.Context, email string, patch users.ProfileUpdate) (*users.User, error) {
	ctx, span := p.tracer.Start(ctx, "enrichment.update_profile")
	defer span.End()

	if patch.Empty() {
		return nil, apperr.Validation("no valid fields to update")
	}

	prev, updated, err := p.store.UpdateProfile(ctx, email, patch)
	if err != nil {
		return nil, err
	}

	if handleChanged(prev.LinkedIn, updated.LinkedIn) || handleChanged(prev.X, updated.X) {
		span.SetAttributes(attribute.Bool("enrichment.dispatched", true))
		p.Submit(Task{
			Email:    updated.Email,
			LinkedIn: updated.LinkedIn,
			X:        updated.X,
		})
	}

	return updated, nil
}

// handleChanged reports whether a handle changed to a non-empty value.
func handleChanged(old, new string) bool {
	return new != "" && new != old
}

// ExtractTagsNow runs one classification cycle inline and returns the
// flattened tags, for callers that need immediate confirmation instead of
// background dispatch.
func (p *Pipeline) ExtractTagsNow(ctx context.Context, linkedin, x, email string) ([]string, error) {
	ctx, span := p.tracer.Start(ctx, "enrichment.extract_tags_now")
	defer span.End()

	tags, err := p.classifier.Classify(ctx, linkedin, x, email)
	if err != nil {
		return nil, apperr.Upstream(fmt.Sprintf("classification failed at %s stage", stageOf(err)), err)
	}

	if err := p.store.UpdateTags(ctx, email, tags); err != nil {
		return nil, err
	}

	return tags, nil
}
