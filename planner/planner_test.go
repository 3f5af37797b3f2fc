package planner

import (
	"testing"

	"github.com/pwin0005/landmarksfordeception/landmark"
)

func TestHeuristicKindString(t *testing.T) {
	tests := []struct {
		kind HeuristicKind
		want string
	}{
		{HeuristicLMCut, "lmcut"},
		{HeuristicBlind, "blind"},
		{HeuristicLandmark, "landmark"},
		{HeuristicKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("HeuristicKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestStateSharesLandmarkRepresentation(t *testing.T) {
	state := State(landmark.New("(at r1 l0)", "(have key)"))
	goal := landmark.New("(have key)")

	if !goal.SubsetOf(state) {
		t.Fatal("goal atoms should be a subset of the state holding them")
	}
	if state.Len() != 2 {
		t.Fatalf("state.Len() = %d, want 2", state.Len())
	}
}
