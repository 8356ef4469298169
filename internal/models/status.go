package models

// ItemState is the per-item acquisition state.
type ItemState string

const (
	StateResolved       ItemState = "resolved"
	StateRefreshing     ItemState = "refreshing"
	StateTransferring   ItemState = "transferring"
	StateDone           ItemState = "done"
	StateFailedRetained ItemState = "failed-retained"
)

// Terminal returns true for the two end states.
func (s ItemState) Terminal() bool {
	return s == StateDone || s == StateFailedRetained
}

// Outcome is the recorded result of one item attempt.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped" // Already on disk, snapshot committed without transfer.
	OutcomeFailed  Outcome = "failed"
)
