package sandbox

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/moefra/zako/pkg/bridge"
	"github.com/moefra/zako/pkg/host"
	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/rt"
)

func newSandbox(t *testing.T) (*Sandbox, *host.Static) {
	t.Helper()

	static := &host.Static{Version: "1.0.0", Context: kind.Script}
	b, err := bridge.New(static)
	require.NoError(t, err)
	return New(b), static
}

func exec(t *testing.T, s *Sandbox, src string) (starlark.StringDict, *starlark.Thread, error) {
	t.Helper()

	thread := &starlark.Thread{Name: "test", Print: s.Print}
	globals, err := starlark.ExecFile(thread, "test.star", src, s.Predeclared())
	return globals, thread, err
}

func TestFormatValue(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 80)

	assert.Equal(t, "plain text", FormatValue(starlark.String("plain text")))
	assert.Equal(t, "42", FormatValue(starlark.MakeInt(42)))
	assert.Equal(t, huge.String()+"n", FormatValue(starlark.MakeBigInt(huge)))
	assert.Equal(t, "True", FormatValue(starlark.True))
	assert.Equal(t, "None", FormatValue(starlark.None))
	assert.Equal(t, "zako runtime error: boom", FormatValue(errorValue{rt.Runtimef("boom")}))

	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.String("a"), starlark.NewList([]starlark.Value{starlark.MakeInt(1)})))
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", FormatValue(dict))

	st := starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{"x": starlark.String("y")})
	assert.Equal(t, "{\n  \"x\": \"y\"\n}", FormatValue(st))
}

func TestFormatNestedBigInt(t *testing.T) {
	huge := starlark.MakeBigInt(new(big.Int).Lsh(big.NewInt(1), 80))

	list := starlark.NewList([]starlark.Value{huge, starlark.MakeInt(7)})
	assert.Equal(t, "[\n  \"1208925819614629174706176n\",\n  7\n]", FormatValue(list))

	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.String("size"), huge))
	st := starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{"meta": dict})
	assert.Equal(t, "{\n  \"meta\": {\n    \"size\": \"1208925819614629174706176n\"\n  }\n}", FormatValue(st))
}

func nested(depth int) starlark.Value {
	var value starlark.Value = starlark.MakeInt(1)
	for i := 0; i < depth; i++ {
		value = starlark.NewList([]starlark.Value{value})
	}
	return value
}

func TestFormatDeepNesting(t *testing.T) {
	out := FormatValue(nested(70))
	assert.NotEqual(t, Unserializable, out)
	assert.Equal(t, 70, strings.Count(out, "["))

	assert.Equal(t, TooDeep, FormatValue(nested(maxDepth+1)))
}

func TestFormatSelfReference(t *testing.T) {
	list := starlark.NewList(nil)
	require.NoError(t, list.Append(list))
	assert.Equal(t, Unserializable, FormatValue(list))

	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.String("self"), dict))
	assert.Equal(t, Unserializable, FormatValue(dict))

	// functions are not JSON serializable
	assert.Equal(t, Unserializable, FormatValue(starlark.NewList([]starlark.Value{starlark.NewBuiltin("f", nil)})))

	assert.Equal(t, "a "+Unserializable, Format(starlark.String("a"), list))
}

func TestConsoleForwardsToBridge(t *testing.T) {
	s, static := newSandbox(t)

	_, _, err := exec(t, s, `
console.log("hello", 1, [2])
console.trace("t")
console.error("e")
print("printed")
`)
	require.NoError(t, err)

	assert.Equal(t, []host.Record{
		{Level: bridge.Info, Message: "hello 1 [\n  2\n]"},
		{Level: bridge.Trace, Message: "t"},
		{Level: bridge.Error, Message: "e"},
		{Level: bridge.Info, Message: "printed"},
	}, static.Records())
}

func TestConsoleFormatsCycles(t *testing.T) {
	s, static := newSandbox(t)

	_, _, err := exec(t, s, `
x = []
x.append(x)
console.info("cycle", x)
`)
	require.NoError(t, err)
	assert.Equal(t, "cycle "+Unserializable, static.Records()[0].Message)
}

func TestDisabledCapabilitiesRaise(t *testing.T) {
	for _, src := range []string{
		`race(lambda: 1, lambda: 2)`,
		`symbol("token")`,
		`random.random()`,
		`random.randint(0, 10)`,
		`time.now()`,
		`locale_compare("a", "b")`,
		`to_locale_upper("a")`,
		`set_timeout(lambda: None, 10)`,
	} {
		s, _ := newSandbox(t)
		_, thread, err := exec(t, s, "x = "+src)
		require.Error(t, err, src)
		assert.True(t, rt.IsRuntime(rt.Raised(thread)), src)
		assert.Contains(t, err.Error(), "disabled in the zako sandbox", src)
	}
}

func TestRemovedCapabilitiesAreUndefined(t *testing.T) {
	for _, name := range Removed {
		s, _ := newSandbox(t)
		_, _, err := exec(t, s, "x = "+name)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "undefined", name)
	}
}

func TestAllowedCapabilities(t *testing.T) {
	s, _ := newSandbox(t)

	globals, _, err := exec(t, s, `
a = symbol_for("x")
b = symbol_for("x")
same = a == b
d = time.parse_duration("1m30s")
root = math.sqrt(16)
encoded = json.encode({"k": [1, 2]})
`)
	require.NoError(t, err)
	assert.Equal(t, starlark.True, globals["same"])
	assert.Equal(t, "1m30s", globals["d"].String())
	assert.Equal(t, starlark.Float(4), globals["root"])
	assert.Equal(t, starlark.String(`{"k":[1,2]}`), globals["encoded"])
}

func TestSandboxesAreIndependent(t *testing.T) {
	first, _ := newSandbox(t)
	second, _ := newSandbox(t)

	a, _, err := exec(t, first, `s = symbol_for("x")`)
	require.NoError(t, err)
	b, _, err := exec(t, second, `s = symbol_for("x")`)
	require.NoError(t, err)

	assert.NotSame(t, a["s"], b["s"])
	assert.NotSame(t, first.Predeclared()["json"], second.Predeclared()["json"])
	assert.True(t, strings.HasPrefix(Disabled()[0], "race"))
}

type errorValue struct {
	err error
}

func (e errorValue) Error() string         { return e.err.Error() }
func (e errorValue) String() string        { return "<error>" }
func (e errorValue) Type() string          { return "error" }
func (e errorValue) Freeze()               {}
func (e errorValue) Truth() starlark.Bool  { return starlark.True }
func (e errorValue) Hash() (uint32, error) { return 0, nil }
