package sandbox

import (
	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/moefra/zako/pkg/rt"
)

type capability struct {
	name   string
	reason string
}

var disabledBuiltins = []capability{
	{"race", "first-to-complete racing combinators are nondeterministic"},
	{"any_settled", "first-to-complete racing combinators are nondeterministic"},
	{"symbol", "unscoped symbols are banned, use symbol_for"},
	{"locale_compare", "locale-sensitive APIs are banned"},
	{"to_locale_lower", "locale-sensitive APIs are banned"},
	{"to_locale_upper", "locale-sensitive APIs are banned"},
	{"set_timeout", "wall-clock scheduling is banned"},
	{"set_interval", "wall-clock scheduling is banned"},
}

var disabledRandom = []string{"random", "randint", "uniform", "choice", "shuffle", "seed"}

var (
	allowedTime  = []string{"parse_duration", "nanosecond", "microsecond", "millisecond", "second", "minute", "hour"}
	disabledTime = []string{"now", "time", "from_timestamp", "parse_time", "is_valid_timezone"}
)

// Removed lists capabilities that are absent from the surface altogether.
var Removed = []string{"weak_ref", "finalization_registry", "shared_array_buffer", "atomics"}

// Disabled returns the names of every capability that raises when invoked.
func Disabled() []string {
	names := make([]string, 0, len(disabledBuiltins)+len(disabledRandom)+len(disabledTime))
	for _, item := range disabledBuiltins {
		names = append(names, item.name)
	}
	for _, name := range disabledRandom {
		names = append(names, "random."+name)
	}
	for _, name := range disabledTime {
		names = append(names, "time."+name)
	}
	return names
}

func disabledBuiltin(name, reason string) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return nil, rt.Raise(thread, rt.Runtimef("%s is disabled in the zako sandbox: %s", name, reason))
	})
}

func randomModule() *starlarkstruct.Module {
	members := make(starlark.StringDict, len(disabledRandom))
	for _, name := range disabledRandom {
		members[name] = disabledBuiltin("random."+name, "random numbers are banned for determinism")
	}
	return &starlarkstruct.Module{Name: "random", Members: members}
}

func timeModule() *starlarkstruct.Module {
	members := make(starlark.StringDict, len(allowedTime)+len(disabledTime))
	for _, name := range allowedTime {
		if value, ok := starlarktime.Module.Members[name]; ok {
			members[name] = value
		}
	}
	for _, name := range disabledTime {
		members[name] = disabledBuiltin("time."+name, "wall-clock and time zone queries are banned for determinism")
	}
	return &starlarkstruct.Module{Name: "time", Members: members}
}
