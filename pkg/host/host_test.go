package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moefra/zako/pkg/bridge"
	"github.com/moefra/zako/pkg/kind"
)

func TestManifest(t *testing.T) {
	root := t.TempDir()
	manifest := `group: fra.moe
artifact: zako_test
version: 1.0.0
config:
  log: true
  level: 3
  name: demo
`
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultManifestName), []byte(manifest), 0o644))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	path, err := FindManifest(sub, DefaultManifestName)
	require.NoError(t, err)

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "fra.moe", loaded.Group)
	assert.Equal(t, "zako_test", loaded.Artifact)
	assert.Equal(t, "1.0.0", loaded.Version)
	assert.Equal(t, true, loaded.Config["log"])
	assert.Equal(t, 3, loaded.Config["level"])

	static := &Static{Version: "1.0.0", Context: kind.Project, Manifest: loaded}
	b, err := bridge.New(static)
	require.NoError(t, err)

	value, ok, err := b.Config("level")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), value)
}

func TestFindManifestMissing(t *testing.T) {
	_, err := FindManifest(t.TempDir(), "definitely-missing.yaml")
	assert.Error(t, err)
}

func TestStaticRecords(t *testing.T) {
	static := &Static{Version: "1.0.0", Context: kind.Script}
	static.CoreLog(bridge.Warn, "careful")
	static.CoreLog(bridge.Info, "done")

	assert.Equal(t, []Record{{bridge.Warn, "careful"}, {bridge.Info, "done"}}, static.Records())
}
