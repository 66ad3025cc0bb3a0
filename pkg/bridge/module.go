package bridge

import (
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/rt"
)

// Module returns the members of zako:syscall. Package queries are only present
// when the bridge serves a project script.
func (b *Bridge) Module() starlark.StringDict {
	members := starlark.StringDict{
		"version":      starlark.String(b.version),
		"log":          starlark.NewBuiltin("log", b.starLog),
		"context_name": starlark.NewBuiltin("context_name", b.starContextName),
	}

	if b.pkg != nil {
		members["package_group"] = starlark.NewBuiltin("package_group", b.starPackageQuery)
		members["package_artifact"] = starlark.NewBuiltin("package_artifact", b.starPackageQuery)
		members["package_version"] = starlark.NewBuiltin("package_version", b.starPackageQuery)
		members["package_config"] = starlark.NewBuiltin("package_config", b.starPackageConfig)
	}

	return members
}

func (b *Bridge) starLog(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var levelName, message string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &levelName, &message); err != nil {
		return nil, err
	}

	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, rt.Raise(thread, rt.Runtimef("%s: %v", fn.Name(), err))
	}

	b.Log(level, message)
	return starlark.None, nil
}

func (b *Bridge) starContextName(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.String(b.kind), nil
}

func (b *Bridge) starPackageQuery(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	group, artifact, version, err := b.Package()
	if err != nil {
		return nil, rt.Raise(thread, err)
	}

	switch fn.Name() {
	case "package_group":
		return starlark.String(group), nil
	case "package_artifact":
		return starlark.String(artifact), nil
	default:
		return starlark.String(version), nil
	}
}

func (b *Bridge) starPackageConfig(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &key); err != nil {
		return nil, err
	}

	value, _, err := b.ConfigValue(key)
	if err != nil {
		return nil, rt.Raise(thread, err)
	}
	return value, nil
}

// ConfigValue looks up key and converts the result for scripts. Unknown keys
// yield None.
func (b *Bridge) ConfigValue(key string) (starlark.Value, bool, error) {
	value, ok, err := b.Config(key)
	if err != nil || !ok {
		return starlark.None, false, err
	}

	switch value := value.(type) {
	case string:
		return starlark.String(value), true, nil
	case bool:
		return starlark.Bool(value), true, nil
	case int64:
		return starlark.MakeInt64(value), true, nil
	default:
		return starlark.Float(value.(float64)), true, nil
	}
}
