package core

import "fmt"

var (
	// ErrNotImplemented is returned by behavior stubs that a concrete agent is
	// expected to supply (BaseAgent.Run) and by operations reserved for a
	// future release (EnvironmentAgent.LogTopology).
	ErrNotImplemented = fmt.Errorf("not implemented")

	// ErrNodeNotFound is returned when a node id does not exist in the
	// topology, or when an operation references an endpoint that was removed.
	ErrNodeNotFound = fmt.Errorf("node not found")

	// ErrMissingArgument is returned by constructors when a required argument
	// is nil or empty. Wrapping errors name the offending argument.
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// ErrMissingTrialID is returned by trial flush operations invoked without
	// a trial identifier.
	ErrMissingTrialID = fmt.Errorf("trial id is required")
)
