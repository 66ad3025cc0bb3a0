// Package sandbox builds the restricted global environment of a single script
// evaluation: redirected logging, the safe formatter and the disabled
// nondeterministic capabilities. Nothing in here mutates process-wide state;
// every Sandbox owns its values.
package sandbox

import (
	"fmt"

	starlarkjson "go.starlark.net/lib/json"
	starlarkmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/moefra/zako/pkg/bridge"
)

// Sandbox is the environment of one evaluation.
type Sandbox struct {
	bridge  *bridge.Bridge
	console *starlarkstruct.Module
	symbols map[string]*Symbol
}

func New(b *bridge.Bridge) *Sandbox {
	return &Sandbox{
		bridge:  b,
		console: newConsole(b),
		symbols: make(map[string]*Symbol),
	}
}

// Console returns the console module installed in this sandbox.
func (s *Sandbox) Console() *starlarkstruct.Module {
	return s.console
}

// Print is the thread print hook; print() is logged at info.
func (s *Sandbox) Print(thread *starlark.Thread, msg string) {
	s.bridge.Log(bridge.Info, msg)
}

// Predeclared returns the global names visible to the script. Each call
// returns a fresh dict.
func (s *Sandbox) Predeclared() starlark.StringDict {
	globals := starlark.StringDict{
		"console":    s.console,
		"json":       copyModule(starlarkjson.Module),
		"math":       copyModule(starlarkmath.Module),
		"time":       timeModule(),
		"random":     randomModule(),
		"symbol_for": starlark.NewBuiltin("symbol_for", s.symbolFor),
	}

	for _, item := range disabledBuiltins {
		globals[item.name] = disabledBuiltin(item.name, item.reason)
	}
	return globals
}

func copyModule(module *starlarkstruct.Module) *starlarkstruct.Module {
	members := make(starlark.StringDict, len(module.Members))
	for name, value := range module.Members {
		members[name] = value
	}
	return &starlarkstruct.Module{Name: module.Name, Members: members}
}

func (s *Sandbox) symbolFor(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}

	symbol, ok := s.symbols[name]
	if !ok {
		symbol = &Symbol{name: name}
		s.symbols[name] = symbol
	}
	return symbol, nil
}

// Symbol is an interned token; symbol_for returns the same value for the same
// name within one sandbox.
type Symbol struct {
	name string
}

func (y *Symbol) String() string {
	return fmt.Sprintf("symbol(%q)", y.name)
}

func (y *Symbol) Type() string {
	return "symbol"
}

func (y *Symbol) Freeze() {}

func (y *Symbol) Truth() starlark.Bool {
	return starlark.True
}

func (y *Symbol) Hash() (uint32, error) {
	return starlark.String(y.name).Hash()
}
