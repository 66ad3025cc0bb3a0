package sandbox

import (
	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/moefra/zako/pkg/bridge"
)

var consoleLevels = []struct {
	name  string
	level bridge.Level
}{
	{"trace", bridge.Trace},
	{"debug", bridge.Debug},
	{"log", bridge.Info},
	{"info", bridge.Info},
	{"warn", bridge.Warn},
	{"error", bridge.Error},
}

func newConsole(b *bridge.Bridge) *starlarkstruct.Module {
	members := make(starlark.StringDict, len(consoleLevels))
	for _, item := range consoleLevels {
		level := item.level
		members[item.name] = starlark.NewBuiltin(item.name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(kwargs) > 0 {
				return nil, eris.Errorf("console.%s: unexpected keyword arguments", fn.Name())
			}

			b.Log(level, Format(args...))
			return starlark.None, nil
		})
	}

	return &starlarkstruct.Module{Name: "console", Members: members}
}
