package rt

import (
	"go.starlark.net/starlark"
)

// Module returns the members of zako:rt. disabled lists the capabilities the
// sandbox refuses so scripts can introspect them.
func Module(disabled []string) starlark.StringDict {
	names := make(starlark.Tuple, len(disabled))
	for idx, name := range disabled {
		names[idx] = starlark.String(name)
	}

	return starlark.StringDict{
		"internal_error": starlark.NewBuiltin("internal_error", internalError),
		"runtime_error":  starlark.NewBuiltin("runtime_error", runtimeError),
		"DISABLED":       names,
	}
}

func internalError(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message); err != nil {
		return nil, err
	}

	return nil, Raise(thread, &InternalError{Message: message})
}

func runtimeError(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message); err != nil {
		return nil, err
	}

	return nil, Raise(thread, &RuntimeError{Message: message})
}
