package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "itemsmith.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"llm_request_events", "batch_runs", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Errorf("sequence = %d, want %d", got, want)
		}
	}
}

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o", Purpose: "stage1", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "req1", ResponseBody: "resp1"},
		{Provider: "openai", Model: "gpt-4o", Purpose: "stage2", InputTokens: 200, OutputTokens: 300, LatencyMs: 700, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "stage2", InputTokens: 50, OutputTokens: 0, LatencyMs: 100, Success: false, ErrorMessage: "timeout"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].ErrorMessage != "timeout" || got[0].Success {
		t.Errorf("newest event = %+v, want the failed call", got[0])
	}
	if got[2].Sequence >= got[1].Sequence {
		t.Errorf("events not ordered newest first: %d, %d", got[1].Sequence, got[2].Sequence)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d events, want 2", len(limited))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: got[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 {
		t.Errorf("after: got %d events, want 1", len(after))
	}

	one, err := repo.GetLLMEvent(ctx, got[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one.RequestBody != "req1" || one.ResponseBody != "resp1" {
		t.Errorf("bodies = %q/%q", one.RequestBody, one.ResponseBody)
	}
	if time.Since(one.Timestamp) > time.Minute {
		t.Errorf("timestamp too old: %v", one.Timestamp)
	}

	if _, err := repo.GetLLMEvent(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLLMEvents_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "gpt-4o", Purpose: "stage1", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Model: "gpt-4o", Purpose: "stage1", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Model: "llama3.1", Purpose: "stage3", InputTokens: 5, OutputTokens: 5, LatencyMs: 50, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	top := byPurpose[0]
	if top.Purpose != "stage1" || top.Calls != 2 || top.InputTokens != 40 || top.OutputTokens != 60 {
		t.Errorf("stage1 usage = %+v", top)
	}
	if top.AvgLatencyMs != 200 {
		t.Errorf("avg latency = %v, want 200", top.AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gpt-4o" || byModel[0].Calls != 2 {
		t.Errorf("by model = %+v", byModel)
	}
}

func TestBatches_SaveListGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.BatchRepo()
	ctx := context.Background()

	first := &BatchRecord{
		BatchSummary: BatchSummary{
			Strategy: "sequential", QuestionType: "Grammar", CEFR: "B1",
			Topic: "Travel", Requested: 2, Assembled: 2,
		},
		Questions: json.RawMessage(`[{"Item Number":"1"}]`),
		Trace:     []string{"NEW SEQUENTIAL BATCH MODE - STARTING", "TOTAL ASSEMBLED: 2"},
	}
	if err := repo.SaveBatch(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated ID")
	}
	if first.Status != BatchStatusComplete {
		t.Errorf("status = %q, want %q", first.Status, BatchStatusComplete)
	}

	second := &BatchRecord{
		BatchSummary: BatchSummary{
			Strategy: "holistic", QuestionType: "Vocabulary", CEFR: "A2",
			Requested: 5, Status: BatchStatusFailed, ErrorMessage: "count mismatch",
		},
	}
	if err := repo.SaveBatch(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	list, err := repo.ListBatches(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d batches, want 2", len(list))
	}
	if list[0].ID != second.ID {
		t.Errorf("newest batch = %s, want %s", list[0].ID, second.ID)
	}

	got, err := repo.GetBatch(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Questions) != `[{"Item Number":"1"}]` {
		t.Errorf("questions = %s", got.Questions)
	}
	if len(got.Trace) != 2 || got.Trace[1] != "TOTAL ASSEMBLED: 2" {
		t.Errorf("trace = %v", got.Trace)
	}

	empty, err := repo.GetBatch(ctx, second.ID)
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if string(empty.Questions) != "null" || empty.ErrorMessage != "count mismatch" {
		t.Errorf("second = %+v", empty)
	}

	if _, err := repo.GetBatch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
