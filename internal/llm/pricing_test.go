package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model   string
		wantNil bool
		input   float64
	}{
		{"gpt-4o", false, 2.5},
		{"openai/gpt-4o", false, 2.5},
		{"anthropic/claude-3-haiku", false, 0.25},
		{"llama3.1", false, 0},
		{"some-unknown-model", true, 0},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		if tt.wantNil {
			if got != nil {
				t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, got)
			}
			continue
		}
		if got == nil {
			t.Fatalf("LookupCost(%q) = nil", tt.model)
		}
		if got.InputPerMTok != tt.input {
			t.Errorf("LookupCost(%q).InputPerMTok = %v, want %v", tt.model, got.InputPerMTok, tt.input)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 2.5, OutputPerMTok: 10}
	got := c.Cost(1_000_000, 500_000)
	if math.Abs(got-7.5) > 1e-9 {
		t.Fatalf("Cost = %v, want 7.5", got)
	}
}
