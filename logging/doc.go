// Package logging provides a minimal logging interface and adapters for netsim.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the scheduler, agents and runner use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewDefaultSlogLogger()
//	env := sim.NewEnvironment(func(o *sim.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
