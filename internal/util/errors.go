package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error kinds for the toposcale CLI
var (
	// ErrInvalidConfig indicates a configuration error (bad flag, range or skip name)
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrExternalProcedure indicates an external search procedure failed
	ErrExternalProcedure = errors.New("external procedure failed")

	// ErrResource indicates an invalid resource pool request
	ErrResource = errors.New("resource error")

	// ErrScheduling indicates a run was aborted
	ErrScheduling = errors.New("scheduling aborted")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")
)

// ConfigurationError represents an invalid configuration field.
// It is always detected before any task is scheduled.
type ConfigurationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (c *ConfigurationError) Error() string {
	if c.Value != nil {
		return fmt.Sprintf("invalid configuration for %q (value: %v): %s", c.Field, c.Value, c.Message)
	}
	return fmt.Sprintf("invalid configuration for %q: %s", c.Field, c.Message)
}

// Unwrap returns ErrInvalidConfig for errors.Is compatibility
func (c *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field string, value interface{}, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ExternalProcedureError wraps a failure of an external search subprocess
type ExternalProcedureError struct {
	Procedure string
	Args      []string
	Err       error
}

// Error implements the error interface
func (e *ExternalProcedureError) Error() string {
	return fmt.Sprintf("external procedure %q %s: %v", e.Procedure, strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns both the kind sentinel and the cause
func (e *ExternalProcedureError) Unwrap() []error {
	return []error{ErrExternalProcedure, e.Err}
}

// ResourceError represents an acquire or release request the pool cannot honor
type ResourceError struct {
	Resource  string
	Requested int
	Capacity  int
	Message   string
}

// Error implements the error interface
func (r *ResourceError) Error() string {
	return fmt.Sprintf("resource %q: %s (requested %d, capacity %d)", r.Resource, r.Message, r.Requested, r.Capacity)
}

// Unwrap returns ErrResource for errors.Is compatibility
func (r *ResourceError) Unwrap() error {
	return ErrResource
}

// TaskError wraps an error with the name of the task unit that produced it
type TaskError struct {
	Task string
	Err  error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q: %v", e.Task, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TaskError) Unwrap() error {
	return e.Err
}

// WrapTaskError wraps an error with task context
func WrapTaskError(task string, err error) error {
	if err == nil {
		return nil
	}
	return &TaskError{
		Task: task,
		Err:  err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 { // Limit to first 10 errors in the message
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// SchedulingError is the single aggregate error returned by an aborted run.
// Failures holds every task error observed before in-flight units drained.
type SchedulingError struct {
	Failures   MultiError
	NotStarted int
}

// Error implements the error interface
func (s *SchedulingError) Error() string {
	msg := fmt.Sprintf("run aborted, %d task(s) not started", s.NotStarted)
	if len(s.Failures.Errors) == 0 {
		return msg
	}
	return msg + ": " + s.Failures.Error()
}

// Unwrap exposes ErrScheduling and every task failure
func (s *SchedulingError) Unwrap() []error {
	return append([]error{ErrScheduling}, s.Failures.Errors...)
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	var multi *MultiError
	var cfgErr *ConfigurationError
	var taskErr *TaskError

	switch {
	case errors.As(err, &multi) && len(multi.Errors) > 1:
		lines := make([]string, 0, len(multi.Errors))
		for _, e := range multi.Errors {
			lines = append(lines, FriendlyError(e))
		}
		return strings.Join(lines, "\n")
	case errors.As(err, &cfgErr):
		if cfgErr.Value != nil {
			return fmt.Sprintf("Invalid %s %v: %s. Please check your arguments and config file.", cfgErr.Field, cfgErr.Value, cfgErr.Message)
		}
		return fmt.Sprintf("Invalid %s: %s. Please check your arguments and config file.", cfgErr.Field, cfgErr.Message)
	case IsCancelled(err):
		return "Operation was cancelled."
	case errors.Is(err, ErrResource):
		return "Resource pool misconfigured. Please check the --cpus value."
	case errors.As(err, &taskErr) && errors.Is(err, ErrExternalProcedure):
		return fmt.Sprintf("External search failed for %s: %v\nPlease check the search script and binary paths.", taskErr.Task, taskErr.Err)
	case errors.As(err, &taskErr):
		return fmt.Sprintf("Task %s failed: %v", taskErr.Task, taskErr.Err)
	default:
		// Return the original error message for unknown errors
		return err.Error()
	}
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
