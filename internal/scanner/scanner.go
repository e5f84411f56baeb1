package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/SuadeLabs/enumchecker/internal/parser"
)

// Scanner discovers the Python files a run should cover. Exclude patterns
// match the path's base name, like gitignore entries without slashes.
type Scanner struct {
	parser       *parser.Parser
	includeTests bool
	dirGlobs     []glob.Glob
	fileGlobs    []glob.Glob
}

func New(p *parser.Parser, excludeDirs, excludeFiles []string, includeTests bool) (*Scanner, error) {
	s := &Scanner{parser: p, includeTests: includeTests}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		s.dirGlobs = append(s.dirGlobs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}

	return s, nil
}

// Scan walks every root and returns the matching files, sorted and
// de-duplicated so overlapping roots cannot double-count a file.
func (s *Scanner) Scan(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range s.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !s.parser.IsSupportedPath(path) {
				return nil
			}
			if !s.includeTests && s.parser.IsTestFile(path) {
				return nil
			}
			for _, g := range s.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
