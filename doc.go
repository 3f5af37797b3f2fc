// Package landmarks provides the core library for studying goal-deceptive
// path planning over classical planning tasks.
//
// Given several candidate goal hypotheses and one real goal, the library
// computes an ordered sequence of intermediate sub-goals (waypoints) chosen so
// that an outside observer watching the agent's trajectory cannot, for as long
// as possible, distinguish the real goal from the decoys. It then replays the
// trajectory and scores, step by step, how truthful (goal-revealing) versus
// deceptive (goal-concealing) the agent's behavior is.
//
// # Core Concepts
//
// The library is organized around several key concepts:
//
//   - Landmarks: conjunctions of ground atoms that must hold at some point on
//     every plan to a goal; the currency of all waypoint selection
//   - Hypotheses: candidate goals the observed agent might be pursuing, one of
//     which is the real goal
//   - Strategies: interchangeable algorithms that order waypoints en route to
//     the real goal
//   - Planner Oracle: an external classical planner consulted for grounding,
//     landmark extraction, and optimal search
//   - Deception metrics: cost-difference based truthfulness, density, and
//     extent computed over an execution trace
//
// # Architecture
//
// The packages are layered, leaves first:
//
//   - landmark: value-compared atom sets and set algebra
//   - planner: the oracle interface consumed by everything above it
//   - hypothesis: landmark extraction and optimal plan lengths per hypothesis
//   - strategy: the four waypoint-selection strategies
//   - deception: per-step truthfulness records and aggregate statistics
//   - trajectory: the executor that replays a waypoint sequence
//   - experiment: problem loading, per-strategy comparison runs, result export
//
// # Getting Started
//
// Wire an oracle implementation and run the strategy comparison over an
// experiment problem:
//
//	import (
//		"github.com/pwin0005/landmarksfordeception/experiment"
//		"github.com/pwin0005/landmarksfordeception/strategy"
//	)
//
//	problem, err := experiment.LoadProblem("experiments/block-words/p01")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	runner, err := experiment.NewRunner(oracle)
//	if err != nil {
//		log.Fatal(err)
//	}
//	results, err := runner.RunProblem(ctx, problem, strategy.All(oracle)...)
//
// # Error Handling
//
// All fatal conditions are surfaced as *landmarks.Error values carrying the
// failing operation, an error kind, and the underlying cause. No component in
// this library retries or recovers locally: classical planning is
// deterministic, so a failed oracle call cannot succeed on retry, and
// invariant violations indicate logic bugs that must not be masked.
package landmarks
