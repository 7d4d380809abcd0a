// Package discover enumerates the files and directories of a project,
// applying exclusion patterns.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/laraguide/internal/lang"
)

// DefaultExclusions are never part of a project tree. Patterns containing a
// slash are anchored at the project root; the rest match any base name.
var DefaultExclusions = []string{
	".env",
	".env.example",
	"vendor/",
	"node_modules/",
	"storage/",
	"bootstrap/cache/",
	"public/hot",
	"public/build",
	"*.log",
	"*.bak",
	"*.sqlite",
	"npm-debug.log",
	"yarn-error.log",
	".idea/",
	".vscode/",
	".DS_Store",
	".git/",
	"app/Mcp",
	"resources/js/Mcp",
}

// Entry is a discovered file or directory.
type Entry struct {
	Path     string // slash-separated, relative to the root
	Dir      bool
	Size     int64
	ModTime  time.Time
	Language string // registered language of a file, "" if none
}

// Options control enumeration.
type Options struct {
	// Exclude adds patterns to DefaultExclusions.
	Exclude []string
	// Gitignore also skips paths matched by the root .gitignore.
	Gitignore bool
}

// Matcher decides whether a relative path is excluded.
type Matcher struct {
	patterns  *ignore.GitIgnore
	gitignore *ignore.GitIgnore
}

// NewMatcher compiles the default exclusions plus extra. When gitignore is
// set, root/.gitignore is honoured as well if it exists.
func NewMatcher(root string, extra []string, gitignore bool) *Matcher {
	lines := make([]string, 0, len(DefaultExclusions)+len(extra))
	for _, p := range append(append([]string{}, DefaultExclusions...), extra...) {
		if p = anchor(p); p != "" {
			lines = append(lines, p)
		}
	}
	m := &Matcher{patterns: ignore.CompileIgnoreLines(lines...)}
	if gitignore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			m.gitignore = gi
		}
	}
	return m
}

// anchor normalizes a pattern so that any pattern with a slash applies from
// the root, as plain path prefixes do.
func anchor(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if p == "" || strings.HasPrefix(p, "#") {
		return ""
	}
	if strings.Contains(p, "/") && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Excluded reports whether rel is excluded. Directory paths are matched
// with a trailing slash so that "dir/" patterns apply to the directory
// itself.
func (m *Matcher) Excluded(rel string, dir bool) bool {
	candidates := []string{rel}
	if dir {
		candidates = append(candidates, rel+"/")
	}
	for _, c := range candidates {
		if m.patterns.MatchesPath(c) {
			return true
		}
		if m.gitignore != nil && m.gitignore.MatchesPath(c) {
			return true
		}
	}
	return false
}

// Entries walks root and returns every non-excluded file and directory,
// sorted by path. Symlinks are skipped. Unreadable subtrees are skipped;
// only a failure to read root itself is an error.
func Entries(root string, opts Options) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	m := NewMatcher(root, opts.Exclude, opts.Gitignore)
	var results []Entry

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if p == root {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if m.Excluded(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		e := Entry{Path: rel, Dir: d.IsDir(), ModTime: fi.ModTime()}
		if !e.Dir {
			e.Size = fi.Size()
			e.Language = lang.ForExtension(path.Ext(rel))
		}
		results = append(results, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}
