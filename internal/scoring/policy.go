// Package scoring holds the pure integrity-scoring rules: the outcome
// policy that turns kept/broken promises into score changes, and the
// tier classifier over the resulting score.
package scoring

// Outcome is a score-changing event.
type Outcome string

const (
	OutcomeKept          Outcome = "PROMISE_KEPT"
	OutcomeBroken        Outcome = "PROMISE_BROKEN"
	OutcomeGoalCompleted Outcome = "GOAL_COMPLETED"
)

// Score bounds. Every applied change clamps into this range.
const (
	MinScore = 0
	MaxScore = 100
)

const (
	keptDelta      = 2
	completedDelta = 10
)

// breakDeltas maps the pre-transition failure streak to the penalty for
// breaking another promise. Streaks past the end of the table take the
// last entry, so escalation caps at -20.
var breakDeltas = []int{-10, -15, -20}

// Result is the outcome of applying one scoring event.
// Change is the effective delta after clamping, so
// currentScore + Change == NewScore always holds.
type Result struct {
	NewScore         int
	Change           int
	NewFailureStreak int
}

// ApplyOutcome computes the new score and failure streak for one outcome.
// Pure: no side effects, same inputs always yield the same result.
//
//   - Kept promise: +2, failure streak resets to zero.
//   - Broken promise: escalating penalty by pre-transition streak
//     (-10, -15, then -20 for every break after that), streak increments.
//   - Goal completed: +10 bonus, streak untouched.
func ApplyOutcome(currentScore, failureStreak int, outcome Outcome) Result {
	var delta, newStreak int

	switch outcome {
	case OutcomeKept:
		delta = keptDelta
		newStreak = 0
	case OutcomeBroken:
		i := failureStreak
		if i >= len(breakDeltas) {
			i = len(breakDeltas) - 1
		}
		delta = breakDeltas[i]
		newStreak = failureStreak + 1
	case OutcomeGoalCompleted:
		delta = completedDelta
		newStreak = failureStreak
	default:
		return Result{NewScore: clamp(currentScore), Change: 0, NewFailureStreak: failureStreak}
	}

	newScore := clamp(currentScore + delta)
	return Result{
		NewScore:         newScore,
		Change:           newScore - currentScore,
		NewFailureStreak: newStreak,
	}
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
