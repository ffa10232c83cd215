package runner

import (
	"context"
	"fmt"

	"github.com/hupe1980/netsim/core"
)

// CallbackType defines the specific lifecycle points where callbacks can be executed.
//
// Callbacks provide a flexible mechanism for hooking into the trial execution
// pipeline without modifying core logic. Each type represents a specific point
// in the trial lifecycle where custom logic can be injected.
//
// Available callback types:
//   - BeforeTrial/AfterTrial: Around complete trial execution
//   - BeforeFlush: Before sampled records are persisted to the store
//   - OnError: When behavior errors were collected during a trial
//
// Callbacks are executed synchronously and can influence execution flow
// by returning errors that terminate the trial.
type CallbackType string

const (
	// CallbackBeforeTrial is triggered after a trial's run context is built
	// and its agents are activated, but before simulated time advances.
	// Use for setup, validation, or instrumentation.
	CallbackBeforeTrial CallbackType = "before_trial"

	// CallbackAfterTrial is triggered after a trial completes and its records
	// are flushed. Use for cleanup, metrics collection, or post-processing.
	CallbackAfterTrial CallbackType = "after_trial"

	// CallbackBeforeFlush is triggered before sampled state records are
	// persisted. Use for record validation or auditing.
	CallbackBeforeFlush CallbackType = "before_flush"

	// CallbackOnError is triggered when behavior errors were collected during
	// a trial. Use for error handling, alerting, or recovery mechanisms.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext provides context information for callback execution.
//
// The context is populated by the runner and passed to each callback. Fields
// not relevant to the triggering lifecycle point are left zero.
type CallbackContext struct {
	// RunContext provides access to the trial's scheduler, topology, seeded
	// RNG, and parameters.
	RunContext *core.RunContext

	// Result is the completed trial summary. Only set for after-trial
	// callbacks.
	Result *TrialResult

	// States holds the sampled state records about to be persisted. Only set
	// for before-flush callbacks.
	States []core.StateRecord

	// Errs holds the behavior errors collected during the trial. Only set
	// for on-error callbacks.
	Errs []error

	// CallbackType indicates which callback type triggered this execution.
	// Allows shared callback implementations to behave differently
	// based on the execution phase.
	CallbackType CallbackType

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]interface{}
}

// Callback defines the interface for trial lifecycle hooks.
//
// Callbacks provide a clean way to extend runner functionality without
// modifying core code. They can be used for:
//   - Logging and monitoring
//   - Validation of sampled records
//   - Metrics collection and analytics
//   - Error handling and recovery
//
// Implementations should be:
//   - Fast: Callbacks run synchronously and can block trial execution
//   - Safe: Handle errors gracefully and avoid panics
//   - Stateless: Don't rely on mutable state between invocations
//
// Callbacks that return errors will terminate the associated trial.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	// Returning an error will terminate the associated trial.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// This is a convenience wrapper that allows simple functions to be used
// as callbacks without implementing the full Callback interface.
//
// Example:
//
//	loggingCallback := NewFunctionCallback(
//	    CallbackBeforeTrial,
//	    func(ctx context.Context, callbackCtx *CallbackContext) error {
//	        log.Printf("Starting trial: %d", callbackCtx.RunContext.Trial)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
//
// The function will be called with the appropriate context when the
// specified callback type is triggered during trial execution.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager orchestrates callback execution throughout the trial lifecycle.
//
// The manager provides a centralized registry for callbacks and ensures they
// are executed at the appropriate points during a run. It supports:
//   - Multiple callbacks per callback type
//   - Sequential execution with error propagation
//   - Type-safe callback routing
//
// Callbacks are executed in registration order, and any callback returning
// an error will terminate execution and prevent subsequent callbacks from running.
//
// Thread Safety:
// The CallbackManager is not inherently thread-safe. If callbacks will be
// registered from multiple goroutines, external synchronization is required.
// However, once registration is complete, callback execution is safe for
// concurrent use.
type CallbackManager struct {
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates a new callback manager instance.
//
// Returns a manager ready for callback registration and execution.
// The manager starts empty and callbacks must be registered before use.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback to the manager for its declared type.
//
// Multiple callbacks can be registered for the same type and will be
// executed in registration order.
//
// Example:
//
//	manager := NewCallbackManager()
//	manager.RegisterCallback(loggingCallback)
//	manager.RegisterCallback(metricsCallback)
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks executes all registered callbacks for the specified type.
//
// Callbacks are executed sequentially in registration order. If any callback
// returns an error, execution stops immediately and the error is returned.
// Subsequent callbacks will not be executed.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	callbacks, exists := cm.callbacks[callbackType]
	if !exists {
		return nil // No callbacks registered for this type
	}

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback provides structured logging for trial lifecycle events.
//
// This callback implementation captures lifecycle events and forwards them
// to a logging function. It's useful for debugging, monitoring, and audit trails.
//
// Example:
//
//	logger := func(message string) {
//	    log.Printf("[RUNNER] %s", message)
//	}
//	callback := NewLoggingCallback(CallbackBeforeTrial, logger)
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a new logging callback.
//
// The logger function will be called with formatted messages containing
// relevant context information about the lifecycle event.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the lifecycle event with context information.
//
// The log message includes the callback type, trial index, and run id when
// available. If no logger function is configured, the callback silently
// succeeds.
func (c *LoggingCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.logger != nil {
		trial, runID := -1, ""
		if callbackCtx.RunContext != nil {
			trial, runID = callbackCtx.RunContext.Trial, callbackCtx.RunContext.RunID
		}

		c.logger(fmt.Sprintf("[%s] Trial: %d, Run: %s", c.callbackType, trial, runID))
	}

	return nil
}

// RecordValidationCallback validates sampled state records before they are
// persisted.
//
// This callback provides a mechanism to enforce data integrity constraints on
// the record series a trial produced. The validation function receives the
// full state record series and can return an error to reject persistence and
// terminate the trial.
//
// Example:
//
//	validator := func(recs []core.StateRecord) error {
//	    if len(recs) == 0 {
//	        return errors.New("trial produced no samples")
//	    }
//	    return nil
//	}
//	callback := NewRecordValidationCallback(validator)
type RecordValidationCallback struct {
	validator func(recs []core.StateRecord) error
}

// NewRecordValidationCallback creates a new record validation callback.
//
// The validator function will be called with the sampled state records
// before they are flushed. It should return an error if persistence
// should be rejected.
func NewRecordValidationCallback(validator func(recs []core.StateRecord) error) *RecordValidationCallback {
	return &RecordValidationCallback{
		validator: validator,
	}
}

// Type returns the callback type (always CallbackBeforeFlush).
func (c *RecordValidationCallback) Type() CallbackType {
	return CallbackBeforeFlush
}

// Execute validates the record series about to be flushed.
//
// If a validator is configured, it is called with the state records from the
// callback context. Validation errors are returned to terminate the trial.
func (c *RecordValidationCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.validator != nil && callbackCtx.States != nil {
		return c.validator(callbackCtx.States)
	}

	return nil
}
