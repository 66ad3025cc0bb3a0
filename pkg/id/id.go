// Package id parses the identifier family used for targets and tool
// descriptors: group:artifact@version#kind::name.
package id

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"
)

// Kind tags what an Id names.
type Kind string

const (
	Target       Kind = "target"
	TargetType   Kind = "target_type"
	Architecture Kind = "architecture"
	OS           Kind = "os"
	ToolType     Kind = "tool_type"
	ToolName     Kind = "tool_name"
)

// Kinds is the closed set of id kinds.
var Kinds = []Kind{Target, TargetType, Architecture, OS, ToolType, ToolName}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ArtifactID is group:artifact.
type ArtifactID struct {
	Group    string
	Artifact string
}

func (a ArtifactID) String() string {
	return a.Group + ":" + a.Artifact
}

// QualifiedArtifactID is group:artifact@version.
type QualifiedArtifactID struct {
	ArtifactID
	Version *semver.Version
}

func (q QualifiedArtifactID) String() string {
	return q.ArtifactID.String() + "@" + q.Version.String()
}

// ID is a tagged identifier. Name is opaque.
type ID struct {
	QualifiedArtifactID
	Kind Kind
	Name string
}

func (i ID) String() string {
	return fmt.Sprintf("%s#%s::%s", i.QualifiedArtifactID, i.Kind, i.Name)
}

// ParseArtifact parses group:artifact.
func ParseArtifact(text string) (ArtifactID, error) {
	pos := strings.LastIndex(text, ":")
	if pos < 1 || pos == len(text)-1 {
		return ArtifactID{}, eris.Errorf("invalid artifact id %q, expected group:artifact", text)
	}
	return ArtifactID{Group: text[:pos], Artifact: text[pos+1:]}, nil
}

// ParseQualified parses group:artifact@version.
func ParseQualified(text string) (QualifiedArtifactID, error) {
	pos := strings.Index(text, "@")
	if pos < 0 {
		return QualifiedArtifactID{}, eris.Errorf("invalid qualified artifact id %q, expected group:artifact@version", text)
	}

	artifact, err := ParseArtifact(text[:pos])
	if err != nil {
		return QualifiedArtifactID{}, err
	}

	version, err := semver.StrictNewVersion(text[pos+1:])
	if err != nil {
		return QualifiedArtifactID{}, eris.Wrapf(err, "invalid version in %q", text)
	}

	return QualifiedArtifactID{ArtifactID: artifact, Version: version}, nil
}

// Parse parses a full group:artifact@version#kind::name identifier.
func Parse(text string) (ID, error) {
	hash := strings.Index(text, "#")
	if hash < 0 {
		return ID{}, eris.Errorf("invalid id %q, missing #kind::name", text)
	}

	qualified, err := ParseQualified(text[:hash])
	if err != nil {
		return ID{}, err
	}

	rest := text[hash+1:]
	sep := strings.Index(rest, "::")
	if sep < 0 {
		return ID{}, eris.Errorf("invalid id %q, expected kind::name after #", text)
	}

	k := Kind(rest[:sep])
	if !k.Valid() {
		return ID{}, eris.Errorf("invalid id %q, unknown kind %q", text, k)
	}

	name := rest[sep+2:]
	if name == "" {
		return ID{}, eris.Errorf("invalid id %q, empty name", text)
	}

	return ID{QualifiedArtifactID: qualified, Kind: k, Name: name}, nil
}
