package cmd

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/moefra/zako/pkg/engine"
	"github.com/moefra/zako/pkg/host"
	"github.com/moefra/zako/pkg/kind"
)

// newHost prepares the host for the script at path. Project scripts need a
// package manifest; other scripts get one if it exists.
func newHost(path string) (*host.Static, error) {
	k, err := kind.ForPath(path)
	if err != nil {
		return nil, err
	}

	scriptLogger := logger.With().Str("script", path).Logger()
	h := &host.Static{
		Version: cfg.Engine.Version,
		Context: k,
		Logger:  &scriptLogger,
	}

	manifestPath, err := host.FindManifest(filepath.Dir(path), cfg.Manifest)
	if err != nil {
		if k == kind.Project {
			return nil, eris.Wrapf(err, "failed to find the package manifest for %s", path)
		}
		return h, nil
	}

	h.Manifest, err = host.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func evaluateFile(ctx context.Context, path string) (*engine.Result, error) {
	h, err := newHost(path)
	if err != nil {
		return nil, err
	}

	return engine.Evaluate(ctx, engine.Request{
		Filename: path,
		Host:     h,
		MaxSteps: cfg.Engine.MaxSteps,
	})
}

// findScripts returns every script below dir; hidden directories are skipped.
func findScripts(dir string) ([]string, error) {
	var result []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if _, err := kind.ForPath(path); err == nil {
			result = append(result, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "failed to scan %s", dir)
	}
	return result, nil
}
