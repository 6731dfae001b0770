package runtime

import (
	"fmt"
)

// HookError wraps a failure raised by a hook during a transition.
type HookError struct {
	// Hook is the name given with Named, or empty.
	Hook string
	// To is the path of the transition target.
	To string
	// AfterCommit is true when the failure happened after the commit point.
	AfterCommit bool
	Err         error
}

func (e *HookError) Error() string {
	name := e.Hook
	if name == "" {
		name = "hook"
	}
	if e.AfterCommit {
		return fmt.Sprintf("%s failed after commit of '%s': %v", name, e.To, e.Err)
	}
	return fmt.Sprintf("%s failed during transition to '%s': %v", name, e.To, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking hook.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("hook panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it already was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
