// Package rt contains the error kinds raised by the zako scripting layer and the
// zako:rt module which exposes them to scripts.
package rt

import (
	"errors"
	"fmt"

	"go.starlark.net/starlark"
)

// InternalError indicates that the host engine violated its contract with the
// scripting layer. It always points at an engine defect.
type InternalError struct {
	Message string
	Cause   error
}

var _ error = (*InternalError)(nil)

func (e *InternalError) Error() string {
	msg := "This is a zako internal error and should be reported as a bug: " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// RuntimeError is raised when a script violates a declared constraint or uses
// a capability that is unavailable in the sandbox.
type RuntimeError struct {
	Message string
}

var _ error = (*RuntimeError)(nil)

func (e *RuntimeError) Error() string {
	return "zako runtime error: " + e.Message
}

// ConfigError is raised when a script resolves a virtual module that its
// execution context does not permit.
type ConfigError struct {
	Module  string
	Context string
	Reason  string
}

var _ error = (*ConfigError)(nil)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("zako config error: module %q is not available in %s context: %s", e.Module, e.Context, e.Reason)
}

func Internalf(cause error, format string, args ...interface{}) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Runtimef(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

func IsInternal(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}

func IsRuntime(err error) bool {
	var target *RuntimeError
	return errors.As(err, &target)
}

func IsConfig(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

const raisedKey = "zako.raised"

// Raise records err on the thread so that the evaluation driver can recover the
// original error kind from Starlark's backtrace wrapper. It returns err unchanged
// so builtins can write `return nil, rt.Raise(thread, err)`.
func Raise(thread *starlark.Thread, err error) error {
	if thread != nil && err != nil {
		thread.SetLocal(raisedKey, err)
	}
	return err
}

// Raised returns the last error recorded with Raise, if any.
func Raised(thread *starlark.Thread) error {
	if thread == nil {
		return nil
	}

	err, _ := thread.Local(raisedKey).(error)
	return err
}
