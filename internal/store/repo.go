package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by ID matches no row.
var ErrNotFound = errors.New("not found")

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageByPurpose aggregates calls per purpose (stage).
type LLMUsageByPurpose struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// LLMUsageByModel aggregates calls per model.
type LLMUsageByModel struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event by ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage and latency per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageByPurpose, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsageByModel, error)
}

// Batch run statuses.
const (
	BatchStatusComplete = "complete"
	BatchStatusFailed   = "failed"
)

// BatchSummary is the list view of a stored batch run.
type BatchSummary struct {
	ID           string    `json:"id"`
	Sequence     int64     `json:"sequence"`
	CreatedAt    time.Time `json:"created_at"`
	SessionID    string    `json:"session_id"`
	Strategy     string    `json:"strategy"`
	QuestionType string    `json:"question_type"`
	CEFR         string    `json:"cefr"`
	Topic        string    `json:"topic"`
	Requested    int       `json:"requested"`
	Assembled    int       `json:"assembled"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// BatchRecord is a stored batch run with its bodies. Questions and Stages
// are JSON documents owned by the caller.
type BatchRecord struct {
	BatchSummary
	Questions json.RawMessage `json:"questions"`
	Stages    json.RawMessage `json:"stages"`
	Trace     []string        `json:"trace"`
}

// BatchRepo persists generation batch runs.
type BatchRepo interface {
	// SaveBatch stores rec. An empty ID is filled with a fresh UUID and a
	// zero CreatedAt with the current time; both are written back to rec.
	SaveBatch(ctx context.Context, rec *BatchRecord) error

	// ListBatches returns summaries newest first.
	ListBatches(ctx context.Context, opts QueryOpts) ([]BatchSummary, error)

	// GetBatch returns a batch run with its bodies, or ErrNotFound.
	GetBatch(ctx context.Context, id string) (*BatchRecord, error)
}
