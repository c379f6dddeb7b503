package berth

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeServiceNotFound indicates no descriptor is registered for a key
	CodeServiceNotFound = "SERVICE_NOT_FOUND"

	// CodeTypeMismatch indicates an instance could not be downcast to its key's type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeServiceError indicates a factory returned an error
	CodeServiceError = "SERVICE_ERROR"

	// CodeCircularResolution indicates a key was re-entered while it was being constructed
	CodeCircularResolution = "CIRCULAR_RESOLUTION"

	// CodeScopeEnded indicates operation on an ended scope
	CodeScopeEnded = "SCOPE_ENDED"

	// CodeInvalidRegistration indicates a registration with a zero key, nil factory or bad lifetime
	CodeInvalidRegistration = "INVALID_REGISTRATION"

	// CodeMissingDependency indicates a declared dependency has no registration
	CodeMissingDependency = "MISSING_DEPENDENCY"

	// CodeCircularDependency indicates declared dependencies form a cycle
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"
)

// Error is the error type returned by every container operation.
// Two errors match under errors.Is when their codes are equal, so the
// sentinels below can be used to classify any returned error.
type Error struct {
	Code    string
	Message string
	Key     Key
	Cause   error
	Context map[string]any
}

// Error implements error.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// WithContext attaches a diagnostic key/value pair and returns the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}

	e.Context[key] = value

	return e
}

func newError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrServiceNotFound matches errors for keys without a registration.
var ErrServiceNotFound = newError(CodeServiceNotFound, "service not found", nil)

// ErrTypeMismatch matches errors for instances that fail their downcast.
var ErrTypeMismatch = newError(CodeTypeMismatch, "type mismatch", nil)

// ErrServiceFailed matches errors returned by factories.
var ErrServiceFailed = newError(CodeServiceError, "service error", nil)

// ErrCircularResolution matches errors for keys re-entered during their own construction.
var ErrCircularResolution = newError(CodeCircularResolution, "circular resolution", nil)

// ErrScopeEnded is returned when operations are attempted on an ended scope.
var ErrScopeEnded = newError(CodeScopeEnded, "scope has ended", nil)

// ErrInvalidRegistration matches errors recorded while populating a Collection.
var ErrInvalidRegistration = newError(CodeInvalidRegistration, "invalid registration", nil)

// ErrMissingDependency matches Validate errors for undeclared dependencies.
var ErrMissingDependency = newError(CodeMissingDependency, "missing dependency", nil)

// ErrCircularDependency matches Validate errors for dependency cycles.
var ErrCircularDependency = newError(CodeCircularDependency, "circular dependency", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

func errServiceNotFound(key Key) *Error {
	e := newError(CodeServiceNotFound, fmt.Sprintf("service '%s' not found", key), nil)
	e.Key = key

	return e.WithContext("service", key.String())
}

// errTypeMismatch reports a bookkeeping defect, so the cause carries a stack.
func errTypeMismatch(key Key, name string, actual any) *Error {
	e := newError(
		CodeTypeMismatch,
		fmt.Sprintf("service '%s' type mismatch: got %T", name, actual),
		errors.Errorf("instance of %T is not assignable to %s", actual, key),
	)
	e.Key = key

	return e.WithContext("service", name).
		WithContext("actual_type", fmt.Sprintf("%T", actual))
}

// newServiceError wraps a factory failure. name is the registration's
// display name, which defaults to the key's type name.
func newServiceError(key Key, name, operation string, cause error) *Error {
	e := newError(
		CodeServiceError,
		fmt.Sprintf("service '%s' error during %s", name, operation),
		cause,
	)
	e.Key = key

	return e.WithContext("service", name).
		WithContext("operation", operation)
}

// errCircularResolution reports path, whose last key is the service named
// name that was re-entered.
func errCircularResolution(name string, path []Key) *Error {
	e := newError(
		CodeCircularResolution,
		"circular resolution detected: "+joinKeys(path, " -> "),
		nil,
	)
	if len(path) > 0 {
		e.Key = path[len(path)-1]
	}

	return e.WithContext("service", name).
		WithContext("chain", path)
}

func errInvalidRegistration(key Key, reason string) *Error {
	e := newError(
		CodeInvalidRegistration,
		fmt.Sprintf("invalid registration for '%s': %s", key, reason),
		nil,
	)
	e.Key = key

	return e
}

func errMissingDependency(key, dep Key) *Error {
	e := newError(
		CodeMissingDependency,
		fmt.Sprintf("service '%s' depends on unregistered '%s'", key, dep),
		nil,
	)
	e.Key = key

	return e.WithContext("dependency", dep.String())
}

func errCircularDependency(cycle []Key) *Error {
	return newError(
		CodeCircularDependency,
		"circular dependency detected: "+joinKeys(cycle, " -> "),
		nil,
	).WithContext("cycle", cycle)
}

// isNotFound reports whether err is the not-found error for key itself,
// rather than for one of key's dependencies.
func isNotFound(err error, key Key) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Code == CodeServiceNotFound && e.Key == key
}

func joinKeys(keys []Key, sep string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}

	return strings.Join(names, sep)
}
