package entity

import (
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/pattern"
	"github.com/moefra/zako/pkg/rt"
)

var (
	_ starlark.HasAttrs    = (*Builder)(nil)
	_ starlark.HasSetField = (*Builder)(nil)
)

var (
	commonAttrs  = []string{"add_build", "add_rule", "add_toolchain", "builds", "description", "kind", "name", "options", "rules", "toolchains"}
	projectAttrs = []string{"artifact", "authors", "group", "license", "version"}
)

// String returns a string representation of the builder
func (b *Builder) String() string {
	return "<" + b.label() + ">"
}

func (b *Builder) Type() string {
	return string(b.kind)
}

// Freeze marks the builder read-only. Starlark freezes every global once the
// script completes.
func (b *Builder) Freeze() {
	b.frozen = true
}

func (b *Builder) Truth() starlark.Bool {
	return starlark.True
}

// Hash always returns an error since builders are mutable
func (b *Builder) Hash() (uint32, error) {
	return 0, rt.Runtimef("%s is not a hashable type", b.kind)
}

func (b *Builder) Attr(name string) (starlark.Value, error) {
	switch name {
	case "kind":
		return starlark.String(b.kind), nil
	case "name":
		return starlark.String(b.name), nil
	case "description":
		return starlark.String(b.description), nil
	case "builds":
		return pattern.ToStarlark(b.builds), nil
	case "rules":
		return pattern.ToStarlark(b.rules), nil
	case "toolchains":
		return pattern.ToStarlark(b.toolchains), nil
	case "options":
		return optionsTuple(b.options), nil
	case "add_build":
		return b.adder(name, b.AddBuild), nil
	case "add_rule":
		return b.adder(name, b.AddRule), nil
	case "add_toolchain":
		return b.adder(name, b.AddToolchain), nil
	}

	if b.kind != kind.Project {
		return nil, nil
	}

	switch name {
	case "group":
		return starlark.String(b.meta.Group), nil
	case "artifact":
		return starlark.String(b.meta.Artifact), nil
	case "version":
		return starlark.String(b.meta.Version), nil
	case "license":
		return starlark.String(b.meta.License), nil
	case "authors":
		authors := make([]starlark.Value, len(b.meta.Authors))
		for idx, author := range b.meta.Authors {
			authors[idx] = starlark.String(author.String())
		}
		return starlark.NewList(authors), nil
	}
	return nil, nil
}

func (b *Builder) AttrNames() []string {
	if b.kind != kind.Project {
		return commonAttrs
	}

	names := make([]string, 0, len(commonAttrs)+len(projectAttrs))
	names = append(names, commonAttrs...)
	return append(names, projectAttrs...)
}

// SetField ignores assignments to options (they stay as declared) and rejects
// every other field.
func (b *Builder) SetField(name string, value starlark.Value) error {
	switch name {
	case "options":
		return nil
	case "builds", "rules", "toolchains":
		return rt.Runtimef("%s.%s can only be extended with add_build, add_rule or add_toolchain", b.kind, name)
	}
	return rt.Runtimef("%s.%s is read-only", b.kind, name)
}

func (b *Builder) adder(name string, add func(pattern.Pattern) error) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var value starlark.Value
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &value); err != nil {
			return nil, err
		}

		p, err := pattern.FromStarlark(value, fn.Name())
		if err != nil {
			return nil, rt.Raise(thread, rt.Runtimef("%v", err))
		}

		if err := add(p); err != nil {
			return nil, rt.Raise(thread, err)
		}
		return starlark.None, nil
	})
}

func optionsTuple(options []Option) starlark.Tuple {
	result := make(starlark.Tuple, len(options))
	for idx, option := range options {
		result[idx] = NewOptionValue(option)
	}
	return result
}

// OptionsFromStarlark converts the options argument of a declaration. Plain
// strings declare an option without a default.
func OptionsFromStarlark(value starlark.Value) ([]Option, error) {
	if value == nil || value == starlark.None {
		return nil, nil
	}

	iterable, ok := value.(starlark.Iterable)
	if !ok {
		return nil, rt.Runtimef("options must be a list of option() values but is a %s", value.Type())
	}

	var result []Option
	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		switch item := item.(type) {
		case *OptionValue:
			result = append(result, item.Option())
		case starlark.String:
			option, err := NewOption(item.GoString(), starlark.None, "")
			if err != nil {
				return nil, err
			}
			result = append(result, option)
		default:
			return nil, rt.Runtimef("found %s in options but only option() values and strings are supported", item.Type())
		}
	}
	return result, nil
}
