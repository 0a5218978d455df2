package orchestrator

// State of an orchestration session.
type State string

const (
	StateDraft          State = "DRAFT"
	StateValidated      State = "VALIDATED"
	StateResolving      State = "RESOLVING"
	StateAwaitingSecret State = "AWAITING_SECRET"
	StateSubmitting     State = "SUBMITTING"
	StateSettled        State = "SETTLED"
	StateFailed         State = "FAILED"
	StateCancelled      State = "CANCELLED"
)

// Terminal reports whether no further transitions are possible, other
// than a permitted retry out of FAILED or a Reset.
func (s State) Terminal() bool {
	return s == StateSettled || s == StateFailed || s == StateCancelled
}

// cancellable states: once Submitting begins the session must run to a
// terminal state.
func (s State) cancellable() bool {
	return s == StateDraft || s == StateValidated || s == StateAwaitingSecret
}
