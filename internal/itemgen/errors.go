package itemgen

import "fmt"

// PlanningError reports a batch request that cannot be expanded into jobs.
type PlanningError struct {
	Reason string
}

func (e *PlanningError) Error() string {
	return "planning: " + e.Reason
}

// ParseError reports a response that is not usable JSON after recovery, or
// a record that fails its schema or validator checks.
type ParseError struct {
	Stage Stage
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse response: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a parsed response holding no record array.
type ExtractionError struct {
	Stage Stage
	Key   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: no %q array in response", e.Stage, e.Key)
}

// CountMismatch reports a stage returning a different number of records
// than there are jobs.
type CountMismatch struct {
	Stage Stage
	Want  int
	Got   int
}

func (e *CountMismatch) Error() string {
	return fmt.Sprintf("%s: expected %d records, got %d", e.Stage, e.Want, e.Got)
}

// UpstreamError wraps a failed LLM call.
type UpstreamError struct {
	Stage Stage
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: LLM call failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
