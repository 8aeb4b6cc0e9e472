package v1

import (
	bar "github.com/muhammadchandra19/chart-datafeed/internal/domain/bar/v1"
)

// State is the lifecycle position of a subscription.
type State int

const (
	// StateCreated is a registered subscription that has not seen a tick yet.
	StateCreated State = iota
	// StateUpdating means the last tick extended the current bucket.
	StateUpdating
	// StateRolledOver means the last tick opened a new bucket.
	StateRolledOver
	// StateRemoved is terminal.
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateUpdating:
		return "updating"
	case StateRolledOver:
		return "rolled_over"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Subscription is one chart pane's live interest in a symbol at a resolution.
// ExternalID comes from the chart and may be shared by several subscriptions;
// InternalKey is unique per subscribe call.
type Subscription struct {
	ExternalID         string
	InternalKey        string
	Symbol             string
	Resolution         string
	LastBar            *bar.Bar
	State              State
	Callback           RealtimeCallback
	OnResetCacheNeeded ResetCallback
}

// Transition returns the state that follows a tick producing next from prev.
func Transition(current State, prev *bar.Bar, next bar.Bar) State {
	if current == StateRemoved {
		return StateRemoved
	}
	if bar.IsRollover(prev, next) {
		return StateRolledOver
	}
	return StateUpdating
}
