package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/bridge"
	"github.com/moefra/zako/pkg/host"
	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/rt"
)

type minimalHost struct {
	contract int
	context  string
}

func (h minimalHost) SyscallVersion() int                    { return h.contract }
func (h minimalHost) CoreVersion() string                    { return "1.0.0" }
func (h minimalHost) CoreLog(level bridge.Level, msg string) {}
func (h minimalHost) ContextName() string                    { return h.context }

func TestNewChecksContract(t *testing.T) {
	_, err := bridge.New(nil)
	assert.True(t, rt.IsInternal(err))

	_, err = bridge.New(minimalHost{contract: 2, context: "rule"})
	assert.True(t, rt.IsInternal(err))

	_, err = bridge.New(minimalHost{contract: 1, context: "package"})
	assert.True(t, rt.IsInternal(err))

	// project scripts need package queries
	_, err = bridge.New(minimalHost{contract: 1, context: "project"})
	assert.True(t, rt.IsInternal(err))

	b, err := bridge.New(minimalHost{contract: 1, context: "rule"})
	require.NoError(t, err)
	assert.Equal(t, kind.Rule, b.Kind())
	assert.False(t, b.HasPackage())

	_, _, err = b.Config("x")
	assert.True(t, rt.IsRuntime(err))
}

func TestConfigRejectsForeignTypes(t *testing.T) {
	static := &host.Static{
		Version: "1.0.0",
		Context: kind.Project,
		Manifest: host.Manifest{Config: map[string]interface{}{
			"list": []string{"a"},
			"flag": true,
		}},
	}
	b, err := bridge.New(static)
	require.NoError(t, err)

	_, _, err = b.Config("list")
	assert.True(t, rt.IsInternal(err))

	value, ok, err := b.ConfigValue("flag")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, starlark.True, value)

	value, ok, err = b.ConfigValue("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, starlark.None, value)
}

func TestModule(t *testing.T) {
	static := &host.Static{Version: "1.2.3", Context: kind.Project, Manifest: host.Manifest{Group: "g", Artifact: "a", Version: "0.1.0"}}
	b, err := bridge.New(static)
	require.NoError(t, err)

	members := b.Module()
	for _, name := range []string{"version", "log", "context_name", "package_group", "package_artifact", "package_version", "package_config"} {
		assert.Contains(t, members, name)
	}

	thread := &starlark.Thread{Name: "test"}
	_, err = starlark.Call(thread, members["log"], starlark.Tuple{starlark.String("warn"), starlark.String("hi")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []host.Record{{Level: bridge.Warn, Message: "hi"}}, static.Records())

	_, err = starlark.Call(thread, members["log"], starlark.Tuple{starlark.String("fatal"), starlark.String("hi")}, nil)
	require.Error(t, err)
	assert.True(t, rt.IsRuntime(rt.Raised(thread)))

	group, err := starlark.Call(thread, members["package_group"], nil, nil)
	require.NoError(t, err)
	assert.Equal(t, starlark.String("g"), group)

	ruleBridge, err := bridge.New(&host.Static{Version: "1.2.3", Context: kind.Rule})
	require.NoError(t, err)
	assert.NotContains(t, ruleBridge.Module(), "package_group")
}
