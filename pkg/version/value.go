package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
	starsyntax "go.starlark.net/syntax"
)

// Value exposes a parsed version to scripts.
type Value struct {
	v *semver.Version
}

var (
	_ starlark.Comparable = Value{}
	_ starlark.HasAttrs   = Value{}
)

func NewValue(v *semver.Version) Value {
	return Value{v: v}
}

// Version returns the wrapped version.
func (v Value) Version() *semver.Version {
	return v.v
}

func (v Value) String() string {
	return v.v.String()
}

// Type always returns "semver"
func (v Value) Type() string {
	return "semver"
}

// Freeze doesn't do anything since versions are immutable
func (v Value) Freeze() {}

func (v Value) Truth() starlark.Bool {
	return starlark.True
}

// Hash ignores build metadata, matching comparison.
func (v Value) Hash() (uint32, error) {
	key := v.v.String()
	if meta := v.v.Metadata(); meta != "" {
		key = strings.TrimSuffix(key, "+"+meta)
	}
	return starlark.String(key).Hash()
}

func (v Value) CompareSameType(op starsyntax.Token, y_ starlark.Value, depth int) (bool, error) {
	y := y_.(Value)
	cmp := v.v.Compare(y.v)

	switch op {
	case starsyntax.EQL:
		return cmp == 0, nil
	case starsyntax.NEQ:
		return cmp != 0, nil
	case starsyntax.LT:
		return cmp < 0, nil
	case starsyntax.LE:
		return cmp <= 0, nil
	case starsyntax.GT:
		return cmp > 0, nil
	case starsyntax.GE:
		return cmp >= 0, nil
	}

	return false, eris.Errorf("unknown operator %v", op)
}

func (v Value) Attr(name string) (starlark.Value, error) {
	switch name {
	case "major":
		return starlark.MakeUint64(v.v.Major()), nil
	case "minor":
		return starlark.MakeUint64(v.v.Minor()), nil
	case "patch":
		return starlark.MakeUint64(v.v.Patch()), nil
	case "prerelease":
		return prereleaseValue(v.v), nil
	case "build":
		return starlark.String(v.v.Metadata()), nil
	}
	return nil, nil
}

func (v Value) AttrNames() []string {
	return []string{"build", "major", "minor", "patch", "prerelease"}
}

func prereleaseValue(v *semver.Version) starlark.Value {
	pre := v.Prerelease()
	if pre == "" {
		return starlark.None
	}

	parts := strings.Split(pre, ".")
	items := make([]starlark.Value, len(parts))
	for idx, part := range parts {
		items[idx] = starlark.String(part)
	}
	return starlark.NewList(items)
}

// toVersion accepts either a Value or a version string.
func toVersion(value starlark.Value, field string) (*semver.Version, error) {
	switch value := value.(type) {
	case Value:
		return value.v, nil
	case starlark.String:
		return Parse(value.GoString())
	}
	return nil, eris.Errorf("%s: expected a semver or a version string, got %s", field, value.Type())
}
