package game

// Outcome is the result of a wallet's game for a period.
type Outcome string

const (
	OutcomeWin        Outcome = "win"
	OutcomeLoss       Outcome = "loss"
	OutcomeIncomplete Outcome = "incomplete"
)

// StreakState is the pure slice of a streak record the ledger operates on.
type StreakState struct {
	Current    int
	Max        int
	LastPeriod string
}

// ApplyOutcome returns the streak state after recording outcome for period.
// A win extends the streak (or starts it at 1 for a fresh wallet); a loss or
// an incomplete game resets it to zero. Max only ever grows. LastPeriod is
// stamped on every outcome.
func ApplyOutcome(st StreakState, outcome Outcome, period Period) StreakState {
	next := st
	switch outcome {
	case OutcomeWin:
		if st.LastPeriod == "" {
			next.Current = 1
		} else {
			next.Current = st.Current + 1
		}
		if next.Current > next.Max {
			next.Max = next.Current
		}
	default:
		next.Current = 0
	}
	next.LastPeriod = period.String()
	return next
}
