package pipeline

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want bool
	}{
		{"IDLE to IDLE", StateIdle, StateIdle, true},
		{"IDLE to PROCESSING", StateIdle, StateProcessing, true},
		{"PROCESSING to COMPLETE", StateProcessing, StateComplete, true},
		{"PROCESSING to FAILED", StateProcessing, StateFailed, true},
		{"PROCESSING to IDLE", StateProcessing, StateIdle, true},
		{"FAILED to IDLE", StateFailed, StateIdle, true},
		{"COMPLETE to IDLE", StateComplete, StateIdle, true},
		// Invalid transitions
		{"IDLE to COMPLETE", StateIdle, StateComplete, false},
		{"IDLE to FAILED", StateIdle, StateFailed, false},
		{"PROCESSING to PROCESSING", StateProcessing, StateProcessing, false},
		{"COMPLETE to PROCESSING", StateComplete, StateProcessing, false},
		{"COMPLETE to COMPLETE", StateComplete, StateComplete, false},
		{"FAILED to PROCESSING", StateFailed, StateProcessing, false},
		{"FAILED to COMPLETE", StateFailed, StateComplete, false},
		{"unknown state", State("BOGUS"), StateIdle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("canTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
