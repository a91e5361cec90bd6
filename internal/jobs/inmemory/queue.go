package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/google/uuid"
)

const (
	defaultWorkers    = 5
	defaultMaxRetries = 3
)

// Queue is an in-memory job publisher and consumer backed by a channel.
type Queue struct {
	jobChan   chan *jobs.Job
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.JobStore
	closed    bool

	// Workers is the number of concurrent handlers started by Start.
	Workers int
	// Backoff is the delay before retry number n (starting at 1).
	Backoff func(n int) time.Duration
	// Now stamps job timestamps.
	Now func() time.Time
}

// NewQueue creates a queue that buffers up to bufferSize jobs and records job
// state in store.
func NewQueue(bufferSize int, store jobs.JobStore) *Queue {
	return &Queue{
		jobChan:   make(chan *jobs.Job, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		Workers:   defaultWorkers,
		Backoff:   func(n int) time.Duration { return time.Duration(n) * time.Second },
		Now:       time.Now,
	}
}

// Publish assigns an ID and defaults, records the job as pending and enqueues it.
func (q *Queue) Publish(ctx context.Context, job *jobs.Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("Publish: queue is closed")
	}
	if !job.Type.Valid() {
		return fmt.Errorf("Publish: unknown job type %q", job.Type)
	}

	if job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = q.Now()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = defaultMaxRetries
	}

	if err := q.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("Publish: save job: %w", err)
	}

	select {
	case q.jobChan <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return fmt.Errorf("Publish: queue is closed")
	}
}

// Start launches the worker goroutines.
func (q *Queue) Start(ctx context.Context, handler jobs.JobHandler) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("Start: queue is closed")
	}

	for i := 0; i < q.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.JobHandler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.processJob(ctx, job, handler)
		}
	}
}

// processJob runs one attempt and schedules a retry on transient failure.
func (q *Queue) processJob(ctx context.Context, job *jobs.Job, handler jobs.JobHandler) {
	log := logger.FromContext(ctx)

	started := q.Now()
	job.Status = jobs.JobStatusRunning
	job.StartedAt = &started
	_ = q.store.SaveJob(ctx, job)

	result, err := handler(ctx, job)

	completed := q.Now()
	job.CompletedAt = &completed

	var retry *jobs.Job
	switch {
	case err == nil:
		job.Status = jobs.JobStatusCompleted
		job.Result = result
		job.Error = ""
	case !errors.Is(err, jobs.ErrPermanent) && job.RetryCount < job.MaxRetries:
		job.Error = err.Error()
		job.RetryCount++
		job.Status = jobs.JobStatusRetrying
		log.Warn().Err(err).Str("job_id", job.JobID).Int("retry", job.RetryCount).Msg("job failed, retrying")

		next := *job
		next.Status = jobs.JobStatusPending
		next.StartedAt = nil
		next.CompletedAt = nil
		retry = &next
	default:
		job.Error = err.Error()
		job.Status = jobs.JobStatusFailed
		log.Error().Err(err).Str("job_id", job.JobID).Msg("job failed")
	}

	_ = q.store.SaveJob(ctx, job)

	if retry != nil {
		time.AfterFunc(q.Backoff(retry.RetryCount), func() {
			if err := q.Publish(ctx, retry); err != nil {
				log.Error().Err(err).Str("job_id", retry.JobID).Msg("re-enqueue failed")
			}
		})
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the queue without a deadline.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

var (
	_ jobs.Publisher = (*Queue)(nil)
	_ jobs.Consumer  = (*Queue)(nil)
)
