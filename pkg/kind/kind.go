// Package kind defines the execution context kinds a script can be evaluated
// in and the file naming convention that selects them.
package kind

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind is the authoring role of a script.
type Kind string

const (
	Project   Kind = "project"
	Build     Kind = "build"
	Rule      Kind = "rule"
	Toolchain Kind = "toolchain"
	Script    Kind = "script"
)

// All lists every kind in a stable order.
var All = []Kind{Project, Build, Rule, Toolchain, Script}

const (
	ProjectFileName     = "zako.star"
	BuildFileName       = "BUILD.star"
	RuleFileSuffix      = ".rule.star"
	ToolchainFileSuffix = ".toolchain.star"
	ScriptFileSuffix    = ".script.star"
)

// ErrUnmatched is returned by ForPath for files outside the naming convention.
var ErrUnmatched = eris.New("file does not match any zako script naming convention")

func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the fixed kinds.
func (k Kind) Valid() bool {
	switch k {
	case Project, Build, Rule, Toolchain, Script:
		return true
	}
	return false
}

// Parse converts a context name into a Kind.
func Parse(name string) (Kind, error) {
	k := Kind(name)
	if !k.Valid() {
		return "", eris.Errorf("unknown execution context %q", name)
	}
	return k, nil
}

// ForPath determines the kind of the script at path from its file name.
func ForPath(path string) (Kind, error) {
	base := filepath.Base(path)

	switch {
	case base == ProjectFileName:
		return Project, nil
	case base == BuildFileName:
		return Build, nil
	case strings.HasSuffix(base, RuleFileSuffix):
		return Rule, nil
	case strings.HasSuffix(base, ToolchainFileSuffix):
		return Toolchain, nil
	case strings.HasSuffix(base, ScriptFileSuffix):
		return Script, nil
	}

	return "", eris.Wrapf(ErrUnmatched, "%s", path)
}
