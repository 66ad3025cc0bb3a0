package modules

import (
	"go.starlark.net/starlark"

	"github.com/moefra/zako/pkg/bridge"
	"github.com/moefra/zako/pkg/entity"
	"github.com/moefra/zako/pkg/rt"
	"github.com/moefra/zako/pkg/sandbox"
	"github.com/moefra/zako/pkg/version"
)

// Env holds the per evaluation state the modules are built from.
type Env struct {
	Bridge    *bridge.Bridge
	Gate      *version.Gate
	Sandbox   *sandbox.Sandbox
	Collector *entity.Collector
}

// Namespace holds the resolved modules of one evaluation.
type Namespace struct {
	kind    string
	modules map[string]starlark.StringDict
}

type factory func(env *Env) (starlark.StringDict, error)

var factories = map[string]factory{
	Core:      coreModule,
	Syscall:   func(env *Env) (starlark.StringDict, error) { return env.Bridge.Module(), nil },
	Semver:    func(env *Env) (starlark.StringDict, error) { return version.Module(), nil },
	Console:   consoleModule,
	Context:   contextModule,
	RT:        func(env *Env) (starlark.StringDict, error) { return rt.Module(sandbox.Disabled()), nil },
	Project:   projectModule,
	Build:     declarationModule(Build),
	Rule:      declarationModule(Rule),
	Toolchain: declarationModule(Toolchain),
}

// Resolve builds every module the bridge's context kind may load. Modules the
// kind may not load are never constructed.
func Resolve(env *Env) (*Namespace, error) {
	k := env.Bridge.Kind()
	ns := &Namespace{
		kind:    string(k),
		modules: make(map[string]starlark.StringDict),
	}

	for _, name := range AllowedFor(k) {
		members, err := factories[name](env)
		if err != nil {
			return nil, err
		}

		members.Freeze()
		ns.modules[name] = members
	}
	return ns, nil
}

// Modules returns the names of the resolved modules in Names order.
func (ns *Namespace) Modules() []string {
	result := make([]string, 0, len(ns.modules))
	for _, name := range Names {
		if _, ok := ns.modules[name]; ok {
			result = append(result, name)
		}
	}
	return result
}

// Load is the thread load hook.
func (ns *Namespace) Load(thread *starlark.Thread, moduleID string) (starlark.StringDict, error) {
	members, err := ns.lookup(moduleID)
	if err != nil {
		return nil, rt.Raise(thread, err)
	}
	return members, nil
}

func (ns *Namespace) lookup(moduleID string) (starlark.StringDict, error) {
	name, ok := SplitID(moduleID)
	if !ok {
		return nil, &rt.ConfigError{Module: moduleID, Context: ns.kind, Reason: "only modules of the zako: namespace can be loaded"}
	}

	if !Known(name) {
		return nil, &rt.ConfigError{Module: moduleID, Context: ns.kind, Reason: "no such module"}
	}

	members, ok := ns.modules[name]
	if !ok {
		return nil, &rt.ConfigError{Module: moduleID, Context: ns.kind, Reason: "the module is not permitted for this kind of script"}
	}
	return members, nil
}
