package feed

import "time"

// Status represents the lifecycle stage of a transcription job as reported by the backend.
type Status string

// all job statuses the backend can report
const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusPausing    Status = "pausing"
	StatusPaused     Status = "paused"
	StatusCancelling Status = "cancelling"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Active reports if the status still changes on its own and deserves a fast refresh cadence.
// Paused jobs are deliberately not active, they stay put until resumed.
func (s Status) Active() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusPausing, StatusCancelling:
		return true
	default:
		return false
	}
}

// Terminal reports if the status is final and can't change anymore.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Job is a single transcription job record. Records are value snapshots from the server,
// the engine never mutates them in place and replaces the whole set on each update.
type Job struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"file_name,omitempty"`
	Status    Status    `json:"status"`
	Tags      []string  `json:"tags,omitempty"`
	Progress  float64   `json:"progress,omitempty"`
	Error     string    `json:"error,omitempty"`
	Duration  float64   `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
