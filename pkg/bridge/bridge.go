// Package bridge is the typed facade over the operations the host engine
// provides to scripts. The host implements Host (and PackageHost for project
// scripts); New checks the contract once and every later call is a plain
// synchronous pass-through.
package bridge

import (
	"github.com/rotisserie/eris"

	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/rt"
)

// ContractVersion is the host contract revision this package implements.
const ContractVersion = 1

// Level is a log level accepted by CoreLog.
type Level string

const (
	Trace Level = "trace"
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// Levels lists every level in increasing severity.
var Levels = []Level{Trace, Debug, Info, Warn, Error}

// ParseLevel converts a script supplied level name.
func ParseLevel(name string) (Level, error) {
	for _, level := range Levels {
		if string(level) == name {
			return level, nil
		}
	}
	return "", eris.Errorf("unknown log level %q, expected one of trace, debug, info, warn or error", name)
}

// Host is the set of operations every evaluation needs.
type Host interface {
	SyscallVersion() int
	CoreVersion() string
	CoreLog(level Level, message string)
	ContextName() string
}

// PackageHost adds the package metadata queries available to project scripts.
// PackageConfig returns a string, bool, int, int64 or float64; ok is false for
// unknown keys.
type PackageHost interface {
	Host
	PackageGroup() string
	PackageArtifact() string
	PackageVersion() string
	PackageConfig(key string) (value interface{}, ok bool)
}

// Bridge wraps a checked Host for one evaluation.
type Bridge struct {
	host    Host
	pkg     PackageHost
	kind    kind.Kind
	version string
}

// New validates host against the contract and fixes the context kind for the
// evaluation. Every violation is an InternalError.
func New(host Host) (*Bridge, error) {
	if host == nil {
		return nil, rt.Internalf(nil, "no host provided")
	}

	if v := host.SyscallVersion(); v != ContractVersion {
		return nil, rt.Internalf(nil, "host implements syscall contract %d but %d is required", v, ContractVersion)
	}

	name := host.ContextName()
	k, err := kind.Parse(name)
	if err != nil {
		return nil, rt.Internalf(err, "host reported invalid context name %q", name)
	}

	b := &Bridge{
		host:    host,
		kind:    k,
		version: host.CoreVersion(),
	}

	if k == kind.Project {
		pkg, ok := host.(PackageHost)
		if !ok {
			return nil, rt.Internalf(nil, "host does not provide package queries for a project context")
		}
		b.pkg = pkg
	}

	return b, nil
}

// Kind returns the execution context kind reported by the host.
func (b *Bridge) Kind() kind.Kind {
	return b.kind
}

// Version returns the host version string as reported at evaluation start.
func (b *Bridge) Version() string {
	return b.version
}

func (b *Bridge) Log(level Level, message string) {
	b.host.CoreLog(level, message)
}

// HasPackage reports whether package queries are available.
func (b *Bridge) HasPackage() bool {
	return b.pkg != nil
}

// Package returns group, artifact and raw version of the current package.
func (b *Bridge) Package() (group, artifact, version string, err error) {
	if b.pkg == nil {
		return "", "", "", rt.Runtimef("package metadata is only available to project scripts")
	}
	return b.pkg.PackageGroup(), b.pkg.PackageArtifact(), b.pkg.PackageVersion(), nil
}

// Config looks up a package configuration value. Values of a type outside the
// contract are an InternalError.
func (b *Bridge) Config(key string) (interface{}, bool, error) {
	if b.pkg == nil {
		return nil, false, rt.Runtimef("package configuration is only available to project scripts")
	}

	value, ok := b.pkg.PackageConfig(key)
	if !ok {
		return nil, false, nil
	}

	switch value := value.(type) {
	case string, bool, int64, float64:
		return value, true, nil
	case int:
		return int64(value), true, nil
	}

	return nil, false, rt.Internalf(nil, "host returned config value of unsupported type %T for key %q", value, key)
}
