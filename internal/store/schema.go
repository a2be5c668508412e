package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Timestamps are stored as unix milliseconds.

var (
	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{LLMRequestEventsColumns[4]}},
		},
	}

	// BatchRunsColumns holds the columns for the "batch_runs" table.
	BatchRunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "strategy", Type: field.TypeString},
		{Name: "question_type", Type: field.TypeString},
		{Name: "cefr", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "requested", Type: field.TypeInt},
		{Name: "assembled", Type: field.TypeInt},
		{Name: "status", Type: field.TypeString},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "questions", Type: field.TypeString, Size: 2147483647},
		{Name: "stages", Type: field.TypeString, Size: 2147483647},
		{Name: "trace", Type: field.TypeString, Size: 2147483647},
	}
	// BatchRunsTable holds the schema information for the "batch_runs" table.
	BatchRunsTable = &schema.Table{
		Name:       "batch_runs",
		Columns:    BatchRunsColumns,
		PrimaryKey: []*schema.Column{BatchRunsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "batchrun_session_id", Columns: []*schema.Column{BatchRunsColumns[3]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LLMRequestEventsTable,
		BatchRunsTable,
	}
)
