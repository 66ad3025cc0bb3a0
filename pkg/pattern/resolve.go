package pattern

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Resolve expands p against the file system below base. Globs use shell syntax
// with globstar (`**`) enabled. Files matched by an exclude glob are dropped
// from the result. Order follows the include list; a file matched by several
// includes is reported once per match.
func Resolve(base string, p Pattern) ([]string, error) {
	included, err := expandGlobs(base, p.Include)
	if err != nil {
		return nil, err
	}

	if len(p.Exclude) == 0 {
		return included, nil
	}

	excluded, err := expandGlobs(base, p.Exclude)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(excluded))
	for _, item := range excluded {
		skip[item] = true
	}

	result := make([]string, 0, len(included))
	for _, item := range included {
		if !skip[item] {
			result = append(result, item)
		}
	}
	return result, nil
}

func expandGlobs(base string, globs []string) ([]string, error) {
	result := []string{}
	cfg := expand.Config{
		ReadDir2: readDir,
		GlobStar: true,
		NullGlob: true,
	}

	parser := syntax.NewParser()
	for _, item := range globs {
		if !filepath.IsAbs(item) {
			item = filepath.Join(base, item)
		}
		item = filepath.ToSlash(item)

		words := make([]*syntax.Word, 0)
		err := parser.Words(strings.NewReader(item), func(w *syntax.Word) bool {
			words = append(words, w)
			return true
		})
		if err != nil {
			return nil, eris.Wrapf(err, "failed to parse pattern %s", item)
		}

		matches, err := expand.Fields(&cfg, words...)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to resolve pattern %s", item)
		}

		result = append(result, matches...)
	}
	return result, nil
}

func readDir(path string) ([]os.DirEntry, error) {
	if path == "" {
		path = "."
	}

	return os.ReadDir(path)
}
