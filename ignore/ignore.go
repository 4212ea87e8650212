package ignore

import (
	"bufio"
	"fmt"
	"path"
	"strings"

	"github.com/danwakefield/fnmatch"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreFileName is an optional per-project file with extra exclusion
// patterns, one per line. Blank lines and lines starting with '#' are
// skipped.
const IgnoreFileName = ".filetreeignore"

// DefaultExcludes are pruned when no exclusion patterns are configured.
var DefaultExcludes = []string{".git", "node_modules", "__pycache__", ".venv", ".mypy_cache"}

// Options configures an exclusion set.
type Options struct {
	// Patterns are fnmatch patterns matched against an entry's base name
	// and its slash-separated path relative to the root.
	Patterns []string
	// IncludeHidden keeps dot-prefixed entries in the scan. When false
	// they are pruned.
	IncludeHidden bool
	// UseGitignore additionally prunes paths matched by the repository's
	// gitignore patterns.
	UseGitignore bool
}

// Ignore decides which filesystem entries are pruned from the scan
// entirely. A pruned directory is never descended into.
type Ignore struct {
	patterns      []string
	includeHidden bool
	matcher       gitignore.Matcher // nil unless UseGitignore was set
}

// New builds the exclusion set for rootPath from opts.Patterns plus any
// patterns found in the root's .filetreeignore file.
func New(rootPath string, opts Options) (*Ignore, error) {
	ig := &Ignore{
		patterns:      append([]string(nil), opts.Patterns...),
		includeHidden: opts.IncludeHidden,
	}

	fs := osfs.New(rootPath)

	if f, err := fs.Open(IgnoreFileName); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ig.patterns = append(ig.patterns, line)
		}
		closeErr := f.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, closeErr)
		}
	}

	if opts.UseGitignore {
		patterns, err := gitignore.ReadPatterns(fs, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
		}
		ig.matcher = gitignore.NewMatcher(patterns)
	}

	return ig, nil
}

// Match reports whether the entry at relPath (slash-separated, relative to
// the scan root) should be pruned. The root itself is never pruned.
func (ig *Ignore) Match(relPath string, isDir bool) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	name := path.Base(relPath)
	if !ig.includeHidden && strings.HasPrefix(name, ".") {
		return true
	}

	for _, pat := range ig.patterns {
		if fnmatch.Match(pat, name, 0) || fnmatch.Match(pat, relPath, 0) {
			return true
		}
	}

	if ig.matcher != nil {
		return ig.matcher.Match(strings.Split(relPath, "/"), isDir)
	}
	return false
}
