package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/normalisers"
)

// Discover expands dir into sources for every file an extractor can handle.
// Hidden files and directories are skipped. Each source is named by its
// slash-separated path relative to dir, so same-named files in different
// subdirectories stay distinguishable. Results are sorted by path so
// repeated builds over the same tree produce the same corpus order.
func Discover(dir string, recursive bool, registry driven.ExtractorRegistry) ([]*FileSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	var rels []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if isHidden(rel) || !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if isHidden(rel) || !d.Type().IsRegular() {
			return nil
		}
		if registry.Get(normalisers.DetectMIMEType(path)) == nil {
			return nil
		}

		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	slices.Sort(rels)

	sources := make([]*FileSource, 0, len(rels))
	for _, rel := range rels {
		sources = append(sources, newNamedSource(filepath.Join(dir, rel), filepath.ToSlash(rel), registry))
	}
	return sources, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
