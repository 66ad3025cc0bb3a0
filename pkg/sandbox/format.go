package sandbox

import (
	"errors"
	"strings"

	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Unserializable replaces values the formatter cannot render, including
// values that contain themselves.
const Unserializable = "[Circular or Unserializable Object]"

// TooDeep replaces structured values nested deeper than maxDepth.
const TooDeep = "[Too Deeply Nested Object]"

// maxDepth bounds structural rendering.
const maxDepth = 1024

var (
	errUnserializable = errors.New(Unserializable)
	errTooDeep        = errors.New(TooDeep)
)

// Format renders args for a log message, separated by single spaces. It never
// fails: anything that cannot be rendered becomes Unserializable.
func Format(args ...starlark.Value) string {
	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = FormatValue(arg)
	}
	return strings.Join(parts, " ")
}

// FormatValue renders a single value. Strings pass through unchanged, errors
// render as their message, integers outside the int64 range get an "n" suffix
// and dicts, lists, tuples, sets and structs are rendered as indented JSON.
func FormatValue(value starlark.Value) (out string) {
	defer func() {
		if recover() != nil {
			out = Unserializable
		}
	}()

	switch value := value.(type) {
	case nil:
		return "None"
	case starlark.String:
		return value.GoString()
	case error:
		return value.Error()
	case starlark.Int:
		if _, ok := value.Int64(); !ok {
			return value.String() + "n"
		}
		return value.String()
	case *starlark.Dict, *starlark.List, starlark.Tuple, *starlark.Set, *starlarkstruct.Struct:
		return formatStructured(value)
	}

	return value.String()
}

func formatStructured(value starlark.Value) string {
	plain, err := plainValue(value, nil)
	if err != nil {
		return err.Error()
	}

	thread := &starlark.Thread{Name: "format"}
	encoded, err := starlark.Call(thread, starlarkjson.Module.Members["encode"], starlark.Tuple{plain}, nil)
	if err != nil {
		return Unserializable
	}

	indented, err := starlark.Call(thread, starlarkjson.Module.Members["indent"], starlark.Tuple{encoded},
		[]starlark.Tuple{{starlark.String("indent"), starlark.String("  ")}})
	if err != nil {
		return Unserializable
	}

	text, ok := starlark.AsString(indented)
	if !ok {
		return Unserializable
	}
	return text
}

// plainValue returns a copy of value that json.encode can render: integers
// outside the int64 range become "n"-suffixed strings at any depth, sets and
// other iterables become lists and attribute values become structs. It fails
// when a container is revisited on the current path or nesting passes
// maxDepth.
func plainValue(value starlark.Value, path []starlark.Value) (starlark.Value, error) {
	if len(path) >= maxDepth {
		return nil, errTooDeep
	}

	switch value := value.(type) {
	case nil:
		return starlark.None, nil
	case starlark.NoneType, starlark.Bool, starlark.Float, starlark.String, starlark.Bytes:
		return value, nil
	case starlark.Int:
		if _, ok := value.Int64(); !ok {
			return starlark.String(value.String() + "n"), nil
		}
		return value, nil
	case *starlark.Dict, *starlark.List, *starlark.Set, *starlarkstruct.Struct:
		for _, seen := range path {
			if seen == value {
				return nil, errUnserializable
			}
		}
	}
	path = append(path, value)

	switch value := value.(type) {
	case *starlarkstruct.Struct:
		fields := make(starlark.StringDict)
		value.ToStringDict(fields)
		for name, field := range fields {
			plain, err := plainValue(field, path)
			if err != nil {
				return nil, err
			}
			fields[name] = plain
		}
		return starlarkstruct.FromStringDict(value.Constructor(), fields), nil
	case starlark.IterableMapping:
		items := value.Items()
		dict := starlark.NewDict(len(items))
		for _, item := range items {
			key, err := plainValue(item[0], path)
			if err != nil {
				return nil, err
			}
			val, err := plainValue(item[1], path)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(key, val); err != nil {
				return nil, errUnserializable
			}
		}
		return dict, nil
	case starlark.Iterable:
		iter := value.Iterate()
		defer iter.Done()

		var elems []starlark.Value
		var item starlark.Value
		for iter.Next(&item) {
			plain, err := plainValue(item, path)
			if err != nil {
				return nil, err
			}
			elems = append(elems, plain)
		}
		return starlark.NewList(elems), nil
	case starlark.HasAttrs:
		fields := make(starlark.StringDict)
		for _, name := range value.AttrNames() {
			attr, err := value.Attr(name)
			if err != nil || attr == nil {
				return nil, errUnserializable
			}
			plain, err := plainValue(attr, path)
			if err != nil {
				return nil, err
			}
			fields[name] = plain
		}
		return starlarkstruct.FromStringDict(starlarkstruct.Default, fields), nil
	}
	return value, nil
}
