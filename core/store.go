package core

import "context"

// TrialStore persists the record series an observer accumulates during a
// trial. Implementations are keyed by trial id and must be safe for
// concurrent use; unlike topology mutations they run outside the cooperative
// scheduler and may block on real I/O, hence the context parameter.
//
// Reads report presence through the bool: asking for a trial that was never
// saved is not an error.
type TrialStore interface {
	SaveStates(ctx context.Context, trialID string, recs []StateRecord) error
	States(ctx context.Context, trialID string) ([]StateRecord, bool, error)
	SaveTopologies(ctx context.Context, trialID string, recs []TopologyRecord) error
	Topologies(ctx context.Context, trialID string) ([]TopologyRecord, bool, error)
}
