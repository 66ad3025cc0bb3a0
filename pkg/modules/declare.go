package modules

import (
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/entity"
	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/rt"
)

// declarationModule returns the factory of zako:build, zako:rule or
// zako:toolchain. Each exposes a single function named after the module that
// declares an entity of that kind.
func declarationModule(name string) factory {
	k := kind.Kind(name)

	return func(env *Env) (starlark.StringDict, error) {
		declare := func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var entityName, description string
			var builds, rules, toolchains, options starlark.Value = starlark.None, starlark.None, starlark.None, starlark.None

			err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &entityName, "description?", &description,
				"builds?", &builds, "rules?", &rules, "toolchains?", &toolchains, "options?", &options)
			if err != nil {
				return nil, err
			}

			decl := entity.Declaration{Kind: k, Name: entityName, Description: description}
			if err := fillDeclaration(&decl, builds, rules, toolchains, options); err != nil {
				return nil, rt.Raise(thread, err)
			}

			b, err := entity.Declare(decl)
			if err != nil {
				return nil, rt.Raise(thread, err)
			}

			env.Collector.Add(b)
			return b, nil
		}

		return starlark.StringDict{name: starlark.NewBuiltin(name, declare)}, nil
	}
}
