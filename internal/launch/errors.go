package launch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrServiceClosed is returned by service entry points once the service has
// reached its terminal Stopped state.
var ErrServiceClosed = errors.New("launch service is closed")

// MissingReferenceError reports a substitution that referenced a
// configuration, argument, or environment variable which is not set and for
// which no default was given.
type MissingReferenceError struct {
	Kind string // "configuration", "argument", or "environment variable"
	Name string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s %q is not set and no default was given", e.Kind, e.Name)
}

// ConditionError reports a condition whose underlying substitution produced
// something other than a recognized boolean token.
type ConditionError struct {
	Token string
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition value %q is not one of 'true', 'false', '1', or '0'", e.Token)
}

// ArgumentConflictError reports an argument re-declared with a different
// default than its first declaration.
type ArgumentConflictError struct {
	Name        string
	Declared    string
	Conflicting string
}

func (e *ArgumentConflictError) Error() string {
	return fmt.Sprintf("argument %q already declared with default %s, conflicting re-declaration with default %s",
		e.Name, e.Declared, e.Conflicting)
}

// IncludeCycleError reports an include that would re-enter a description
// already on the include path.
type IncludeCycleError struct {
	Path []string
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("include cycle detected: %s", strings.Join(e.Path, " -> "))
}

// ActionError wraps a failure raised by an entity's side effect. The loop
// reports it to the caller of Run unless a registered handler for the
// action-failed event decides to continue.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// ShutdownError is the deliberate, user-triggered fatal: a shutdown action
// produces it to stop the service immediately with a message. It is
// distinguishable by type from an internal defect surfacing as ActionError.
type ShutdownError struct {
	Reason string
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("shutdown requested: %s", e.Reason)
}
