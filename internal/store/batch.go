package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// batchRepo implements BatchRepo.
type batchRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var batchSummaryColumns = []string{
	"id", "sequence", "created_at", "session_id", "strategy", "question_type",
	"cefr", "topic", "requested", "assembled", "status", "error_message",
}

func (r *batchRepo) SaveBatch(ctx context.Context, rec *BatchRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Status == "" {
		rec.Status = BatchStatusComplete
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	rec.Sequence = seqNum

	trace, err := json.Marshal(rec.Trace)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}

	query, args := builder().Insert(BatchRunsTable.Name).
		Columns(slices.Concat(batchSummaryColumns, []string{"questions", "stages", "trace"})...).
		Values(rec.ID, rec.Sequence, rec.CreatedAt.UnixMilli(), rec.SessionID, rec.Strategy,
			rec.QuestionType, rec.CEFR, rec.Topic, rec.Requested, rec.Assembled,
			rec.Status, rec.ErrorMessage,
			rawOrNull(rec.Questions), rawOrNull(rec.Stages), string(trace)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save batch run: %w", err)
	}
	return nil
}

func (r *batchRepo) ListBatches(ctx context.Context, opts QueryOpts) ([]BatchSummary, error) {
	t := builder().Table(BatchRunsTable.Name)
	sel := builder().Select(qualify(t, batchSummaryColumns)...).From(t)
	applyQueryOpts(sel, t, "created_at", opts)
	sel.OrderBy(entsql.Desc(t.C("sequence")))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batch runs: %w", err)
	}
	defer rows.Close()

	var out []BatchSummary
	for rows.Next() {
		var s BatchSummary
		var created int64
		if err := rows.Scan(&s.ID, &s.Sequence, &created, &s.SessionID, &s.Strategy,
			&s.QuestionType, &s.CEFR, &s.Topic, &s.Requested, &s.Assembled,
			&s.Status, &s.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan batch run: %w", err)
		}
		s.CreatedAt = time.UnixMilli(created)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *batchRepo) GetBatch(ctx context.Context, id string) (*BatchRecord, error) {
	t := builder().Table(BatchRunsTable.Name)
	cols := append(qualify(t, batchSummaryColumns), t.C("questions"), t.C("stages"), t.C("trace"))
	query, args := builder().Select(cols...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	var rec BatchRecord
	var created int64
	var questions, stages, trace string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID, &rec.Sequence, &created, &rec.SessionID, &rec.Strategy,
		&rec.QuestionType, &rec.CEFR, &rec.Topic, &rec.Requested, &rec.Assembled,
		&rec.Status, &rec.ErrorMessage, &questions, &stages, &trace)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get batch run: %w", err)
	}

	rec.CreatedAt = time.UnixMilli(created)
	rec.Questions = json.RawMessage(questions)
	rec.Stages = json.RawMessage(stages)
	if err := json.Unmarshal([]byte(trace), &rec.Trace); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &rec, nil
}

// rawOrNull stores an empty document as the JSON literal null.
func rawOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}
