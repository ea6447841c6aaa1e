// Package planner drives a planning session through its stages: gather
// preferences, suggest recipes, check ingredient overlap, and optimize the
// grocery list.
package planner

import "slices"

// Stage is a state of the planning workflow, identified by a stable string.
type Stage string

const (
	StageGather       Stage = "gather"        // Extract the requirement
	StageSuggest      Stage = "suggest"       // Select recipes
	StageCheckOverlap Stage = "check_overlap" // Report shared ingredients
	StageOptimize     Stage = "optimize"      // Consolidate the grocery list
	StageDone         Stage = "done"          // Terminal
)

var transitions = map[Stage][]Stage{
	StageGather:       {StageSuggest},
	StageSuggest:      {StageCheckOverlap},
	StageCheckOverlap: {StageOptimize},
	StageOptimize:     {StageSuggest, StageDone},
}

// IsTerminal returns true if no transition leaves this stage.
func (s Stage) IsTerminal() bool {
	return s == StageDone
}

// IsValid returns true if the stage is a recognized stage.
func (s Stage) IsValid() bool {
	return slices.Contains(AllStages(), s)
}

func (s Stage) String() string {
	return string(s)
}

// Successors lists the stages reachable from s in one transition.
func (s Stage) Successors() []Stage {
	return append([]Stage(nil), transitions[s]...)
}

// CanTransition reports whether to is a successor of from.
func CanTransition(from, to Stage) bool {
	return slices.Contains(from.Successors(), to)
}

// AllStages returns every stage in workflow order.
func AllStages() []Stage {
	return []Stage{StageGather, StageSuggest, StageCheckOverlap, StageOptimize, StageDone}
}

// Router picks the stage that follows Optimize.
type Router func(st *State) Stage

// RouteOnCostFlag finishes the session once the grocery list is flagged for
// cost calculation and goes back to Suggest otherwise.
func RouteOnCostFlag(st *State) Stage {
	if st.NeedsCostCalculation {
		return StageDone
	}
	return StageSuggest
}
