// internal/enrichment/domain.go
package enrichment

import "time"

// TaskStatus tracks a background enrichment task through its lifecycle.
type TaskStatus string

const (
	StatusSubmitted TaskStatus = "submitted"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// Task is one enrichment unit of work: classify a user's social profiles and
// write the derived tags back. Completion is only observable through the
// reconciled tags field, never through the request that spawned the task.
type Task struct {
	Email       string
	LinkedIn    string
	X           string
	Status      TaskStatus
	SubmittedAt time.Time
}

// Classification stages, carried by StageError so logs and tests can tell
// where a cycle died while the user-visible outcome stays "tags unchanged".
const (
	StageRequest = "request"
	StageDecode  = "decode"
	StageParse   = "parse"
)

// StageError records which classification stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }
