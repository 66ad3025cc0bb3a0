// Package modules resolves the zako: virtual modules a script may load.
// Access is governed by a fixed (module, kind) table; everything the table
// does not grant is denied.
package modules

import (
	"strings"

	"github.com/moefra/zako/pkg/kind"
)

// Prefix is the namespace of every virtual module identifier.
const Prefix = "zako:"

// Module names without the prefix.
const (
	Core      = "core"
	Syscall   = "syscall"
	Semver    = "semver"
	Console   = "console"
	Context   = "context"
	RT        = "rt"
	Project   = "project"
	Build     = "build"
	Rule      = "rule"
	Toolchain = "toolchain"
)

// Names lists every module in a stable order.
var Names = []string{Core, Syscall, Semver, Console, Context, RT, Project, Build, Rule, Toolchain}

var everyKind = kind.All

var accessMatrix = map[string][]kind.Kind{
	Core:      everyKind,
	Syscall:   everyKind,
	Semver:    everyKind,
	Console:   everyKind,
	Context:   everyKind,
	RT:        everyKind,
	Project:   {kind.Project},
	Build:     {kind.Build},
	Rule:      {kind.Build, kind.Rule},
	Toolchain: {kind.Toolchain},
}

// Allowed reports whether scripts of kind k may load module name.
func Allowed(name string, k kind.Kind) bool {
	for _, allowed := range accessMatrix[name] {
		if allowed == k {
			return true
		}
	}
	return false
}

// Known reports whether name is a module of the zako namespace.
func Known(name string) bool {
	_, ok := accessMatrix[name]
	return ok
}

// AllowedFor returns the modules scripts of kind k may load, in Names order.
func AllowedFor(k kind.Kind) []string {
	result := make([]string, 0, len(Names))
	for _, name := range Names {
		if Allowed(name, k) {
			result = append(result, name)
		}
	}
	return result
}

// SplitID strips the namespace prefix from a load() identifier.
func SplitID(moduleID string) (string, bool) {
	if !strings.HasPrefix(moduleID, Prefix) {
		return "", false
	}
	return strings.TrimPrefix(moduleID, Prefix), true
}
