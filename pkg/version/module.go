package version

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/rt"
)

// SpecVersion is the semver specification revision implemented by the gate.
const SpecVersion = "2.0.0"

// Module returns the members of zako:semver.
func Module() starlark.StringDict {
	return starlark.StringDict{
		"SEMVER_SPEC_VERSION": starlark.String(SpecVersion),
		"parse":               starlark.NewBuiltin("parse", starParse),
		"valid":               starlark.NewBuiltin("valid", starValid),
		"compare":             starlark.NewBuiltin("compare", starCompare),
		"gt":                  comparison("gt", func(c int) bool { return c > 0 }),
		"gte":                 comparison("gte", func(c int) bool { return c >= 0 }),
		"lt":                  comparison("lt", func(c int) bool { return c < 0 }),
		"lte":                 comparison("lte", func(c int) bool { return c <= 0 }),
		"eq":                  comparison("eq", func(c int) bool { return c == 0 }),
		"neq":                 comparison("neq", func(c int) bool { return c != 0 }),
		"major":               component("major"),
		"minor":               component("minor"),
		"patch":               component("patch"),
		"prerelease":          component("prerelease"),
		"satisfies":           starlark.NewBuiltin("satisfies", starSatisfies),
		"valid_range":         starlark.NewBuiltin("valid_range", starValidRange),
		"max_satisfying":      starlark.NewBuiltin("max_satisfying", starPickSatisfying),
		"min_satisfying":      starlark.NewBuiltin("min_satisfying", starPickSatisfying),
		"sort":                starlark.NewBuiltin("sort", starSort),
		"inc":                 starlark.NewBuiltin("inc", starInc),
	}
}

// GateModule returns the gate related members of zako:core.
func (g *Gate) GateModule() starlark.StringDict {
	return starlark.StringDict{
		"version":         NewValue(g.current),
		"require_version": starlark.NewBuiltin("require_version", g.starRequireVersion),
	}
}

func (g *Gate) starRequireVersion(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var rangeText string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &rangeText); err != nil {
		return nil, err
	}

	if err := g.RequireVersion(rangeText); err != nil {
		return nil, rt.Raise(thread, err)
	}
	return starlark.None, nil
}

func raiseInvalid(thread *starlark.Thread, fn *starlark.Builtin, err error) error {
	return rt.Raise(thread, rt.Runtimef("%s: %v", fn.Name(), err))
}

func starParse(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}

	v, err := semver.StrictNewVersion(text)
	if err != nil {
		return starlark.None, nil
	}
	return NewValue(v), nil
}

func starValid(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}

	v, err := semver.StrictNewVersion(text)
	if err != nil {
		return starlark.None, nil
	}
	return starlark.String(v.String()), nil
}

func unpackPair(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (*semver.Version, *semver.Version, error) {
	var a, b starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &a, &b); err != nil {
		return nil, nil, err
	}

	va, err := toVersion(a, "a")
	if err != nil {
		return nil, nil, raiseInvalid(thread, fn, err)
	}

	vb, err := toVersion(b, "b")
	if err != nil {
		return nil, nil, raiseInvalid(thread, fn, err)
	}
	return va, vb, nil
}

func starCompare(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	a, b, err := unpackPair(thread, fn, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(a.Compare(b)), nil
}

func comparison(name string, test func(int) bool) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		a, b, err := unpackPair(thread, fn, args, kwargs)
		if err != nil {
			return nil, err
		}
		return starlark.Bool(test(a.Compare(b))), nil
	})
}

func component(name string) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var raw starlark.Value
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &raw); err != nil {
			return nil, err
		}

		v, err := toVersion(raw, "version")
		if err != nil {
			return nil, raiseInvalid(thread, fn, err)
		}
		return NewValue(v).Attr(fn.Name())
	})
}

func starSatisfies(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var raw starlark.Value
	var rangeText string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &raw, &rangeText); err != nil {
		return nil, err
	}

	v, err := toVersion(raw, "version")
	if err != nil {
		return nil, raiseInvalid(thread, fn, err)
	}

	constraint, err := semver.NewConstraint(rangeText)
	if err != nil {
		return starlark.False, nil
	}
	return starlark.Bool(constraint.Check(v)), nil
}

func starValidRange(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var rangeText string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &rangeText); err != nil {
		return nil, err
	}

	constraint, err := semver.NewConstraint(rangeText)
	if err != nil {
		return starlark.None, nil
	}
	return starlark.String(constraint.String()), nil
}

func collect(thread *starlark.Thread, fn *starlark.Builtin, iterable starlark.Iterable) (semver.Collection, error) {
	result := semver.Collection{}
	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		v, err := toVersion(item, "versions")
		if err != nil {
			return nil, raiseInvalid(thread, fn, err)
		}
		result = append(result, v)
	}

	sort.Sort(result)
	return result, nil
}

func starPickSatisfying(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var versions starlark.Iterable
	var rangeText string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &versions, &rangeText); err != nil {
		return nil, err
	}

	constraint, err := semver.NewConstraint(rangeText)
	if err != nil {
		return nil, raiseInvalid(thread, fn, err)
	}

	sorted, err := collect(thread, fn, versions)
	if err != nil {
		return nil, err
	}

	if fn.Name() == "max_satisfying" {
		for idx := len(sorted) - 1; idx >= 0; idx-- {
			if constraint.Check(sorted[idx]) {
				return NewValue(sorted[idx]), nil
			}
		}
	} else {
		for _, v := range sorted {
			if constraint.Check(v) {
				return NewValue(v), nil
			}
		}
	}
	return starlark.None, nil
}

func starSort(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var versions starlark.Iterable
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &versions); err != nil {
		return nil, err
	}

	sorted, err := collect(thread, fn, versions)
	if err != nil {
		return nil, err
	}

	items := make([]starlark.Value, len(sorted))
	for idx, v := range sorted {
		items[idx] = NewValue(v)
	}
	return starlark.NewList(items), nil
}

func starInc(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var raw starlark.Value
	var release string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &raw, &release); err != nil {
		return nil, err
	}

	v, err := toVersion(raw, "version")
	if err != nil {
		return nil, raiseInvalid(thread, fn, err)
	}

	var next semver.Version
	switch release {
	case "major":
		next = v.IncMajor()
	case "minor":
		next = v.IncMinor()
	case "patch":
		next = v.IncPatch()
	default:
		return nil, rt.Raise(thread, rt.Runtimef("%s: unsupported release type %q, expected major, minor or patch", fn.Name(), release))
	}
	return NewValue(&next), nil
}
