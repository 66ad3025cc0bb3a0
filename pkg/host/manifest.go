package host

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultManifestName is the package manifest looked up next to project scripts.
const DefaultManifestName = "zako.yaml"

// Manifest is the package metadata the host hands to project scripts.
type Manifest struct {
	Group    string                 `yaml:"group"`
	Artifact string                 `yaml:"artifact"`
	Version  string                 `yaml:"version"`
	Config   map[string]interface{} `yaml:"config"`
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (Manifest, error) {
	var manifest Manifest

	content, err := os.ReadFile(path)
	if err != nil {
		return manifest, eris.Wrapf(err, "failed to open file %s", path)
	}

	err = yaml.Unmarshal(content, &manifest)
	if err != nil {
		return manifest, eris.Wrapf(err, "failed to parse file %s", path)
	}

	if manifest.Config == nil {
		manifest.Config = map[string]interface{}{}
	}
	return manifest, nil
}

// FindManifest walks up from dir until it finds a file called name.
func FindManifest(dir, name string) (string, error) {
	path, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(path, name)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "failed to check %s", candidate)
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", eris.Errorf("no %s file found above %s", name, dir)
		}
		path = parent
	}
}
