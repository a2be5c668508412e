package session

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

// State is the per-user session context: the most recent batch, its
// intermediate stage tables and the execution trace. Begin replaces all of
// it at the start of each run; Clear empties the trace on request.
type State struct {
	mu sync.Mutex

	id        string
	batchID   string
	strategy  itemgen.Strategy
	questions []itemgen.FinalQuestion
	stage1    []itemgen.Stage1Record
	stage2    []itemgen.Stage2Record
	stage3    []itemgen.Stage3Record
	trace     []string
	updatedAt time.Time
}

// Snapshot is a copy of a State's contents.
type Snapshot struct {
	ID        string
	BatchID   string
	Strategy  itemgen.Strategy
	Questions []itemgen.FinalQuestion
	Stage1    []itemgen.Stage1Record
	Stage2    []itemgen.Stage2Record
	Stage3    []itemgen.Stage3Record
	Trace     []string
	UpdatedAt time.Time
}

// NewState creates an empty State.
func NewState(id string) *State {
	return &State{id: id, updatedAt: time.Now()}
}

// ID returns the session identifier.
func (s *State) ID() string {
	return s.id
}

// Begin discards the previous batch, stage tables and trace.
func (s *State) Begin(strategy itemgen.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchID = ""
	s.strategy = strategy
	s.questions = nil
	s.stage1, s.stage2, s.stage3 = nil, nil, nil
	s.trace = nil
	s.updatedAt = time.Now()
}

// Tracef appends one line to the execution trace.
func (s *State) Tracef(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = append(s.trace, fmt.Sprintf(format, args...))
}

// Trace returns a copy of the execution trace.
func (s *State) Trace() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.trace)
}

// Clear empties the execution trace.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = nil
}

// SetStage1 records the sentence table.
func (s *State) SetStage1(recs []itemgen.Stage1Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage1 = recs
}

// SetStage2 records the candidate table.
func (s *State) SetStage2(recs []itemgen.Stage2Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage2 = recs
}

// SetStage3 records the selection table.
func (s *State) SetStage3(recs []itemgen.Stage3Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage3 = recs
}

// SetBatch records the assembled questions of a finished run.
func (s *State) SetBatch(batchID string, qs []itemgen.FinalQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchID = batchID
	s.questions = qs
	s.updatedAt = time.Now()
}

// LoadBatch replaces the current batch with questions from elsewhere (an
// uploaded or stored CSV). Stage tables are dropped since they no longer
// describe the batch.
func (s *State) LoadBatch(batchID string, qs []itemgen.FinalQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchID = batchID
	s.strategy = ""
	s.questions = qs
	s.stage1, s.stage2, s.stage3 = nil, nil, nil
	s.updatedAt = time.Now()
}

// UpdateQuestion replaces the question whose item number matches.
func (s *State) UpdateQuestion(item itemgen.ItemNumber, q itemgen.FinalQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ItemNumber == item {
			q.ItemNumber = item
			s.questions[i] = q
			s.updatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("item %q not in current batch", item)
}

// Questions returns a copy of the current batch.
func (s *State) Questions() []itemgen.FinalQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.questions)
}

// Snapshot copies the whole state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.id,
		BatchID:   s.batchID,
		Strategy:  s.strategy,
		Questions: slices.Clone(s.questions),
		Stage1:    slices.Clone(s.stage1),
		Stage2:    slices.Clone(s.stage2),
		Stage3:    slices.Clone(s.stage3),
		Trace:     slices.Clone(s.trace),
		UpdatedAt: s.updatedAt,
	}
}
