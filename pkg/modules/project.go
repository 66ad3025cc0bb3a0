package modules

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/moefra/zako/pkg/entity"
	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/pattern"
	"github.com/moefra/zako/pkg/rt"
	"github.com/moefra/zako/pkg/version"
)

// projectModule builds zako:project. The package identity always comes from
// the host; an unparsable package version is a host defect.
func projectModule(env *Env) (starlark.StringDict, error) {
	group, artifact, rawVersion, err := env.Bridge.Package()
	if err != nil {
		return nil, rt.Internalf(err, "project module requested without package metadata")
	}

	v, err := version.Parse(rawVersion)
	if err != nil {
		return nil, rt.Internalf(err, "the version %q of package %s:%s is not valid semver", rawVersion, group, artifact)
	}

	p := &projectDecl{
		env:  env,
		meta: entity.Meta{Group: group, Artifact: artifact, Version: v.String()},
	}

	return starlark.StringDict{
		"project": starlark.NewBuiltin("project", p.starProject),
		"package": starlarkstruct.FromStringDict(starlark.String("package"), starlark.StringDict{
			"group":    starlark.String(group),
			"artifact": starlark.String(artifact),
			"version":  version.NewValue(v),
		}),
		"config": starlark.NewBuiltin("config", p.starConfig),
	}, nil
}

type projectDecl struct {
	env      *Env
	meta     entity.Meta
	declared bool
}

func (p *projectDecl) starProject(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var group, artifact, rawVersion, description, license string
	var authors *starlark.List
	var builds, rules, toolchains, options starlark.Value = starlark.None, starlark.None, starlark.None, starlark.None

	if len(args) > 0 {
		return nil, rt.Raise(thread, rt.Runtimef("%s: only keyword arguments are accepted", fn.Name()))
	}

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "group?", &group, "artifact?", &artifact,
		"version?", &rawVersion, "description?", &description, "license?", &license, "authors?", &authors,
		"builds?", &builds, "rules?", &rules, "toolchains?", &toolchains, "options?", &options)
	if err != nil {
		return nil, err
	}

	if p.declared {
		return nil, rt.Raise(thread, rt.Runtimef("%s can only be called once per script", fn.Name()))
	}

	for _, field := range []struct{ name, literal, host string }{
		{"group", group, p.meta.Group},
		{"artifact", artifact, p.meta.Artifact},
	} {
		if field.literal != "" && field.literal != field.host {
			return nil, rt.Raise(thread, rt.Runtimef("%s: %s %q does not match the package %s %q", fn.Name(), field.name, field.literal, field.name, field.host))
		}
	}

	if rawVersion != "" {
		literal, err := version.Parse(rawVersion)
		if err != nil || literal.String() != p.meta.Version {
			return nil, rt.Raise(thread, rt.Runtimef("%s: version %q does not match the package version %q", fn.Name(), rawVersion, p.meta.Version))
		}
	}

	meta := p.meta
	meta.Description = description
	meta.License = license

	if authors != nil {
		names, err := stringSlice(authors, "authors")
		if err != nil {
			return nil, rt.Raise(thread, err)
		}

		for _, name := range names {
			author, err := entity.ParseAuthor(name)
			if err != nil {
				return nil, rt.Raise(thread, err)
			}
			meta.Authors = append(meta.Authors, author)
		}
	}

	decl := entity.Declaration{Kind: kind.Project, Description: description, Meta: meta}
	if err := fillDeclaration(&decl, builds, rules, toolchains, options); err != nil {
		return nil, rt.Raise(thread, err)
	}

	b, err := entity.Declare(decl)
	if err != nil {
		return nil, rt.Raise(thread, err)
	}

	p.declared = true
	p.env.Collector.Add(b)
	return b, nil
}

func (p *projectDecl) starConfig(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var defaultValue starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "key", &key, "default?", &defaultValue); err != nil {
		return nil, err
	}

	value, ok, err := p.env.Bridge.ConfigValue(key)
	if err != nil {
		return nil, rt.Raise(thread, err)
	}

	if !ok {
		return defaultValue, nil
	}
	return value, nil
}

func fillDeclaration(decl *entity.Declaration, builds, rules, toolchains, options starlark.Value) error {
	var err error

	for _, field := range []struct {
		name   string
		value  starlark.Value
		target *pattern.Pattern
	}{
		{"builds", builds, &decl.Builds},
		{"rules", rules, &decl.Rules},
		{"toolchains", toolchains, &decl.Toolchains},
	} {
		*field.target, err = pattern.FromStarlark(field.value, field.name)
		if err != nil {
			return rt.Runtimef("%v", err)
		}
	}

	decl.Options, err = entity.OptionsFromStarlark(options)
	return err
}

func stringSlice(list *starlark.List, field string) ([]string, error) {
	result := make([]string, 0, list.Len())
	for idx := 0; idx < list.Len(); idx++ {
		value, ok := list.Index(idx).(starlark.String)
		if !ok {
			return nil, rt.Runtimef("expected all items in %s to be strings but found %s", field, list.Index(idx).Type())
		}
		result = append(result, value.GoString())
	}
	return result, nil
}
