// Package jobs defines the asynchronous job model used for slow advisor calls.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeTaxScan asks the advisor which expenses look deductible.
	JobTypeTaxScan JobType = "tax_scan"
	// JobTypePortfolioAnalysis asks the advisor to review the holdings.
	JobTypePortfolioAnalysis JobType = "portfolio_analysis"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	return t == JobTypeTaxScan || t == JobTypePortfolioAnalysis
}

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// Job is one unit of asynchronous advisor work and its outcome.
type Job struct {
	JobID       string          `json:"job_id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	RetryCount  int             `json:"retry_count"`
	MaxRetries  int             `json:"max_retries"`
}

// Publisher enqueues jobs.
type Publisher interface {
	Publish(ctx context.Context, job *Job) error
	Close() error
}

// Consumer runs queued jobs through a handler.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes a job and returns its JSON result. A returned error
// causes a retry unless it wraps ErrPermanent.
type JobHandler func(ctx context.Context, job *Job) (json.RawMessage, error)

// ErrPermanent marks handler failures that retrying cannot fix.
var ErrPermanent = errors.New("permanent job failure")

// JobStore persists job state so clients can poll it.
type JobStore interface {
	SaveJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, jobID string) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error)
}

// JobFilter narrows ListJobs.
type JobFilter struct {
	Type   JobType
	Status JobStatus
	Limit  int
	Offset int
}

// ErrJobNotFound is returned by GetJob for unknown IDs.
var ErrJobNotFound = errors.New("job not found")
