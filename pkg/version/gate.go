// Package version holds the version gate: the host version parsed once per
// evaluation and the compatibility assertion scripts call against it. It also
// provides the zako:semver module.
package version

import (
	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"

	"github.com/moefra/zako/pkg/rt"
)

// Parse strictly parses a semver 2.0 version string.
func Parse(text string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(text)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid semver version %q", text)
	}
	return v, nil
}

// Gate is immutable once created and may be shared between evaluations.
type Gate struct {
	current *semver.Version
}

// Bootstrap parses the version reported by the host. An unparsable string is a
// host contract violation and yields an InternalError.
func Bootstrap(hostVersion string) (*Gate, error) {
	v, err := Parse(hostVersion)
	if err != nil {
		return nil, rt.Internalf(err, "invalid zako version string from syscall version: %s", hostVersion)
	}
	return &Gate{current: v}, nil
}

// Current returns a copy of the gated version.
func (g *Gate) Current() semver.Version {
	return *g.current
}

func (g *Gate) String() string {
	return g.current.String()
}

// RequireVersion returns nil when the current version satisfies rangeText and a
// RuntimeError naming both otherwise.
func (g *Gate) RequireVersion(rangeText string) error {
	constraint, err := semver.NewConstraint(rangeText)
	if err != nil {
		return rt.Runtimef("invalid version range %q: %v", rangeText, err)
	}

	if !constraint.Check(g.current) {
		return rt.Runtimef("zako version %s is required but current version %s does not satisfy it", rangeText, g.current)
	}
	return nil
}
