package modules

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/moefra/zako/pkg/bridge"
	"github.com/moefra/zako/pkg/entity"
	"github.com/moefra/zako/pkg/id"
	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/pattern"
	"github.com/moefra/zako/pkg/rt"
	"github.com/moefra/zako/pkg/version"
)

func coreModule(env *Env) (starlark.StringDict, error) {
	kinds := make(starlark.Tuple, len(id.Kinds))
	for idx, k := range id.Kinds {
		kinds[idx] = starlark.String(k)
	}

	members := env.Gate.GateModule()
	members["merge_pattern"] = starlark.NewBuiltin("merge_pattern", starMergePattern)
	members["pattern"] = starlark.NewBuiltin("pattern", starPattern)
	members["option"] = starlark.NewBuiltin("option", starOption)
	members["parse_id"] = starlark.NewBuiltin("parse_id", starParseID)
	members["parse_author"] = starlark.NewBuiltin("parse_author", starParseAuthor)
	members["ID_KINDS"] = kinds

	for _, level := range bridge.Levels {
		members[string(level)] = logger(env.Bridge, level)
	}
	return members, nil
}

func consoleModule(env *Env) (starlark.StringDict, error) {
	console := env.Sandbox.Console()

	members := starlark.StringDict{"console": console}
	for name, value := range console.Members {
		members[name] = value
	}
	return members, nil
}

func contextModule(env *Env) (starlark.StringDict, error) {
	kinds := make(starlark.Tuple, len(kind.All))
	for idx, k := range kind.All {
		kinds[idx] = starlark.String(k)
	}

	return starlark.StringDict{
		"name":  starlark.String(env.Bridge.Kind()),
		"KINDS": kinds,
	}, nil
}

func logger(b *bridge.Bridge, level bridge.Level) *starlark.Builtin {
	return starlark.NewBuiltin(string(level), func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var message string
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message); err != nil {
			return nil, err
		}

		b.Log(level, message)
		return starlark.None, nil
	})
}

func starMergePattern(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var rawBase, rawAddition starlark.Value = starlark.None, starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "base?", &rawBase, "addition?", &rawAddition); err != nil {
		return nil, err
	}

	base, err := pattern.FromStarlark(rawBase, "base")
	if err != nil {
		return nil, rt.Raise(thread, rt.Runtimef("%s: %v", fn.Name(), err))
	}

	addition, err := pattern.FromStarlark(rawAddition, "addition")
	if err != nil {
		return nil, rt.Raise(thread, rt.Runtimef("%s: %v", fn.Name(), err))
	}

	return pattern.ToStarlark(pattern.Merge(base, addition)), nil
}

func starPattern(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var include, exclude starlark.Value = starlark.None, starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "include?", &include, "exclude?", &exclude); err != nil {
		return nil, err
	}

	inc, err := pattern.FromStarlark(include, "include")
	if err != nil {
		return nil, rt.Raise(thread, rt.Runtimef("%s: %v", fn.Name(), err))
	}

	exc, err := pattern.FromStarlark(exclude, "exclude")
	if err != nil {
		return nil, rt.Raise(thread, rt.Runtimef("%s: %v", fn.Name(), err))
	}

	if inc.IsStructured() || exc.IsStructured() {
		return nil, rt.Raise(thread, rt.Runtimef("%s: include and exclude must be lists of globs", fn.Name()))
	}
	return pattern.ToStarlark(pattern.IncludeExclude(inc.Include, exc.Include)), nil
}

func starOption(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, help string
	var defaultValue starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "default?", &defaultValue, "help?", &help); err != nil {
		return nil, err
	}

	option, err := entity.NewOption(name, defaultValue, help)
	if err != nil {
		return nil, rt.Raise(thread, err)
	}
	return entity.NewOptionValue(option), nil
}

func starParseID(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}

	parsed, err := id.Parse(text)
	if err != nil {
		return nil, rt.Raise(thread, rt.Runtimef("%s: %v", fn.Name(), err))
	}

	return starlarkstruct.FromStringDict(starlark.String("id"), starlark.StringDict{
		"group":    starlark.String(parsed.Group),
		"artifact": starlark.String(parsed.Artifact),
		"version":  version.NewValue(parsed.Version),
		"kind":     starlark.String(parsed.Kind),
		"name":     starlark.String(parsed.Name),
		"string":   starlark.String(parsed.String()),
	}), nil
}

func starParseAuthor(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}

	author, err := entity.ParseAuthor(text)
	if err != nil {
		return nil, rt.Raise(thread, err)
	}

	return starlarkstruct.FromStringDict(starlark.String("author"), starlark.StringDict{
		"name":  starlark.String(author.Name),
		"email": starlark.String(author.Email),
	}), nil
}
