package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// State is a step in the life of one guarded request.
type State string

const (
	StatePending                 State = "pending"
	StateRejectedUnauthenticated State = "rejected_unauthenticated"
	StateRejectedNoCredits       State = "rejected_no_credits"
	StateAdmitted                State = "admitted"
	StateFailed                  State = "failed"
	StateCompletedCharged        State = "completed_charged"
	StateCompletedChargeFailed   State = "completed_charge_failed"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateRejectedUnauthenticated, StateRejectedNoCredits, StateFailed,
		StateCompletedCharged, StateCompletedChargeFailed:
		return true
	}
	return false
}

// Observer receives every state a guarded request enters. It is called
// synchronously, from the detached charge goroutine for the completed states.
type Observer func(ctx context.Context, accountID uuid.UUID, state State)
