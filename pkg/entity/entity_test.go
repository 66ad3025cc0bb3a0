package entity

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/pattern"
	"github.com/moefra/zako/pkg/rt"
)

func TestParseAuthor(t *testing.T) {
	author, err := ParseAuthor("  Jane Doe <jane@example.com> ")
	require.NoError(t, err)
	assert.Equal(t, Author{Name: "Jane Doe", Email: "jane@example.com"}, author)
	assert.Equal(t, "Jane Doe <jane@example.com>", author.String())

	for _, text := range []string{"Jane Doe", "<jane@example.com>", "Jane <jane@example.com", "Jane <a> <b>", "Jane <nobody>"} {
		_, err := ParseAuthor(text)
		assert.True(t, rt.IsRuntime(err), text)
	}
}

func TestDeclareValidates(t *testing.T) {
	_, err := Declare(Declaration{Kind: kind.Project})
	assert.True(t, rt.IsRuntime(err))

	_, err = Declare(Declaration{Kind: kind.Build})
	assert.True(t, rt.IsRuntime(err))

	_, err = Declare(Declaration{Kind: kind.Script, Name: "x"})
	assert.True(t, rt.IsRuntime(err))

	_, err = Declare(Declaration{Kind: kind.Rule, Name: "cc", Options: []Option{{Name: "a"}, {Name: "a"}}})
	assert.True(t, rt.IsRuntime(err))

	b, err := Declare(Declaration{Kind: kind.Project, Meta: Meta{Group: "moe", Artifact: "zako", Version: "1.0.0"}})
	require.NoError(t, err)
	assert.Equal(t, "moe:zako", b.Name())
	assert.Equal(t, "<project moe:zako@1.0.0>", b.String())
}

func TestBuilderMergesPatterns(t *testing.T) {
	b, err := Declare(Declaration{Kind: kind.Project, Meta: Meta{Group: "moe", Artifact: "zako", Version: "1.0.0"}, Builds: pattern.Globs("a")})
	require.NoError(t, err)

	require.NoError(t, b.AddBuild(pattern.Globs("b")))
	require.NoError(t, b.AddBuild(pattern.Globs("a")))
	require.NoError(t, b.AddRule(pattern.IncludeExclude([]string{"r"}, []string{"x"})))
	require.NoError(t, b.AddToolchain(pattern.Globs("t")))

	entity := b.Finalize()
	assert.Equal(t, pattern.Globs("a", "b", "a"), entity.Builds())
	assert.Equal(t, pattern.IncludeExclude([]string{"r"}, []string{"x"}), entity.Rules())
	assert.Equal(t, pattern.Globs("t"), entity.Toolchains())

	assert.True(t, rt.IsRuntime(b.AddBuild(pattern.Globs("late"))))
	assert.Equal(t, pattern.Globs("a", "b", "a"), b.Finalize().Builds())
}

func TestOptionsAreCopied(t *testing.T) {
	options := []Option{{Name: "lto", Default: true, Help: "link time optimization"}}
	b, err := Declare(Declaration{Kind: kind.Build, Name: "app", Options: options})
	require.NoError(t, err)

	options[0].Name = "changed"
	got := b.Options()
	got[0].Default = false

	assert.Equal(t, []Option{{Name: "lto", Default: true, Help: "link time optimization"}}, b.Options())
	assert.Equal(t, b.Options(), b.Finalize().Options())
}

func TestEntityAccessorsReturnCopies(t *testing.T) {
	b, err := Declare(Declaration{
		Kind: kind.Project,
		Meta: Meta{Group: "moe", Artifact: "zako", Version: "1.0.0", Authors: []Author{{Name: "a", Email: "a@b"}}},
	})
	require.NoError(t, err)
	require.NoError(t, b.AddBuild(pattern.Globs("src/**")))

	entity := b.Finalize()
	entity.Builds().Include[0] = "changed"
	entity.Meta().Authors[0].Name = "changed"

	assert.Equal(t, []string{"src/**"}, entity.Builds().Include)
	assert.Equal(t, "a", entity.Meta().Authors[0].Name)
}

func runScript(t *testing.T, b *Builder, src string) (starlark.StringDict, error) {
	t.Helper()

	thread := &starlark.Thread{Name: "test"}
	option := starlark.NewBuiltin("option", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name, help string
		var value starlark.Value = starlark.None
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "default?", &value, "help?", &help); err != nil {
			return nil, err
		}
		o, err := NewOption(name, value, help)
		if err != nil {
			return nil, err
		}
		return NewOptionValue(o), nil
	})
	return starlark.ExecFile(thread, "test.star", src, starlark.StringDict{"b": b, "option": option})
}

func TestStarlarkBuilder(t *testing.T) {
	b, err := Declare(Declaration{
		Kind:    kind.Build,
		Name:    "app",
		Options: []Option{{Name: "lto", Default: true}},
	})
	require.NoError(t, err)

	globals, err := runScript(t, b, `
before = b.options
b.add_build("src/*.c")
b.add_build(["gen/*.c"])
b.add_rule({"include": ["rules/*"], "exclude": ["rules/old"]})
b.options = [option("other", default="x")]
b.options = None
after = b.options
same = before == after
name = b.name
builds = b.builds
lto_default = b.options[0].default
`)
	require.NoError(t, err)

	assert.Equal(t, starlark.True, globals["same"])
	assert.Equal(t, starlark.String("app"), globals["name"])
	assert.Equal(t, starlark.True, globals["lto_default"])
	assert.Equal(t, `["src/*.c", "gen/*.c"]`, globals["builds"].String())
	assert.Equal(t, []Option{{Name: "lto", Default: true}}, b.Options())

	if diff := cmp.Diff(pattern.IncludeExclude([]string{"rules/*"}, []string{"rules/old"}), b.Rules()); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestStarlarkBuilderRejectsFieldWrites(t *testing.T) {
	for _, src := range []string{
		`b.builds = ["x"]`,
		`b.name = "other"`,
		`b.unknown = 1`,
	} {
		b, err := Declare(Declaration{Kind: kind.Rule, Name: "cc"})
		require.NoError(t, err)

		_, err = runScript(t, b, src)
		assert.Error(t, err, src)
	}
}

func TestStarlarkBuilderFrozenAfterScript(t *testing.T) {
	b, err := Declare(Declaration{Kind: kind.Toolchain, Name: "gcc"})
	require.NoError(t, err)

	_, err = runScript(t, b, `
def later():
    b.add_toolchain("late")

keep = later
`)
	require.NoError(t, err)

	b.Freeze()
	assert.Error(t, b.AddToolchain(pattern.Globs("late")))
}

func TestStarlarkBuilderAddRejectsInvalidPatterns(t *testing.T) {
	b, err := Declare(Declaration{Kind: kind.Build, Name: "app"})
	require.NoError(t, err)

	thread := &starlark.Thread{Name: "test"}
	_, err = starlark.ExecFile(thread, "test.star", `b.add_build(42)`, starlark.StringDict{"b": b})
	require.Error(t, err)
	assert.True(t, rt.IsRuntime(rt.Raised(thread)))
}

func TestOptionsFromStarlark(t *testing.T) {
	lto, err := NewOption("lto", starlark.Bool(true), "")
	require.NoError(t, err)

	options, err := OptionsFromStarlark(starlark.NewList([]starlark.Value{NewOptionValue(lto), starlark.String("plain")}))
	require.NoError(t, err)
	assert.Equal(t, []Option{{Name: "lto", Default: true}, {Name: "plain"}}, options)

	_, err = OptionsFromStarlark(starlark.NewList([]starlark.Value{starlark.MakeInt(1)}))
	assert.Error(t, err)

	_, err = NewOption("jobs", starlark.Float(1.5), "")
	assert.Error(t, err)

	jobs, err := NewOption("jobs", starlark.MakeInt(4), "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), jobs.Default)
}

func TestCollector(t *testing.T) {
	var c Collector

	first, err := Declare(Declaration{Kind: kind.Rule, Name: "first"})
	require.NoError(t, err)
	second, err := Declare(Declaration{Kind: kind.Rule, Name: "second"})
	require.NoError(t, err)

	c.Add(first)
	c.Add(second)
	entities := c.Finalize()

	require.Len(t, entities, 2)
	assert.Equal(t, "first", entities[0].Name())
	assert.Equal(t, "second", entities[1].Name())
	assert.Error(t, first.AddRule(pattern.Globs("x")))
}

func TestEntityCache(t *testing.T) {
	b, err := Declare(Declaration{
		Kind:        kind.Project,
		Description: "demo",
		Meta:        Meta{Group: "moe", Artifact: "zako", Version: "1.0.0", License: "MIT"},
		Builds:      pattern.Globs("**/BUILD.star"),
		Options:     []Option{{Name: "lto", Default: true}, {Name: "jobs", Default: int64(4)}, {Name: "none"}},
	})
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "entities.gob")
	require.NoError(t, WriteEntities(file, "zako.star", []Entity{b.Finalize()}))

	script, entities, err := ReadEntities(file)
	require.NoError(t, err)
	assert.Equal(t, "zako.star", script)
	require.Len(t, entities, 1)

	got := entities[0]
	assert.Equal(t, kind.Project, got.Kind())
	assert.Equal(t, "moe:zako", got.Name())
	assert.Equal(t, "demo", got.Description())
	assert.Equal(t, "MIT", got.Meta().License)
	assert.Equal(t, b.Options(), got.Options())

	if diff := cmp.Diff(b.Builds(), got.Builds(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("builds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pattern.Pattern{}, got.Rules(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}
