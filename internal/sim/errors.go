package sim

import "errors"

// Error taxonomy (spec §7). The simulation never aborts a tick on a single
// entity's fault; these are classification sentinels, not panics.

// InvalidOrderReason classifies why an InputFrame command was rejected.
type InvalidOrderReason int

const (
	ReasonInvalidTarget InvalidOrderReason = iota
	ReasonCannotAfford
	ReasonTechRequirementsUnmet
	ReasonBuildLocationBlocked
	ReasonUpkeepCapReached
	ReasonLowPowerBlocksProduction
	ReasonEntityLimitReached
)

// InvalidOrderError is surfaced as a player-targeted WARNING event; the
// offending frame is silently discarded for that unit with no state
// mutation.
type InvalidOrderError struct {
	Reason InvalidOrderReason
	Detail string
}

func (e *InvalidOrderError) Error() string { return "invalid order: " + e.Detail }

// ErrTransientChannel marks a send failure on a channel that is still
// reported open — log and continue, no player-state change.
var ErrTransientChannel = errors.New("transient channel send error")

// DeterministicAssertionError marks an invariant violation (e.g. negative
// upkeep). Logged at ERROR; the invariant is forcibly re-established on
// the next sampling tick. Not fatal.
type DeterministicAssertionError struct {
	Invariant string
}

func (e *DeterministicAssertionError) Error() string {
	return "deterministic assertion failed: " + e.Invariant
}

// FatalInitError marks construction-time failure (physics world or
// catalog could not be built). The game object is unusable.
type FatalInitError struct {
	Cause error
}

func (e *FatalInitError) Error() string { return "fatal init failure: " + e.Cause.Error() }
func (e *FatalInitError) Unwrap() error { return e.Cause }
