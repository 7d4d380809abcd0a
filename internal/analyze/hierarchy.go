package analyze

import (
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phobologic/laraguide/internal/parse"
)

// maxAncestors bounds how far a superclass chain is followed.
const maxAncestors = 8

// Hierarchy reports the declared parent of a fully-qualified class name.
type Hierarchy interface {
	Parent(class string) (string, bool)
}

type noHierarchy struct{}

func (noHierarchy) Parent(string) (string, bool) { return "", false }

// Autoload finds class files through a PSR-4 prefix map and reads their
// declared parent. Lookups, including misses, are memoised.
type Autoload struct {
	root     string
	prefixes []psr4Prefix
	cache    *lru.Cache[string, string]
}

type psr4Prefix struct {
	namespace string
	dirs      []string
}

// DefaultPSR4 is the autoload map of a stock Laravel application.
var DefaultPSR4 = map[string][]string{`App\`: {"app/"}}

// NewAutoload returns a lookup over root. An empty psr4 map uses
// DefaultPSR4; size bounds the number of memoised classes.
func NewAutoload(root string, psr4 map[string][]string, size int) (*Autoload, error) {
	if len(psr4) == 0 {
		psr4 = DefaultPSR4
	}
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}

	a := &Autoload{root: root, cache: cache}
	for ns, dirs := range psr4 {
		ns = strings.Trim(ns, `\`)
		if ns != "" {
			ns += `\`
		}
		a.prefixes = append(a.prefixes, psr4Prefix{namespace: ns, dirs: dirs})
	}
	// Longest prefix first, so App\Models\ wins over App\.
	sort.Slice(a.prefixes, func(i, j int) bool {
		if len(a.prefixes[i].namespace) != len(a.prefixes[j].namespace) {
			return len(a.prefixes[i].namespace) > len(a.prefixes[j].namespace)
		}
		return a.prefixes[i].namespace < a.prefixes[j].namespace
	})
	return a, nil
}

// Parent implements Hierarchy.
func (a *Autoload) Parent(class string) (string, bool) {
	class = strings.TrimPrefix(class, `\`)
	if parent, ok := a.cache.Get(class); ok {
		return parent, parent != ""
	}
	parent := a.lookup(class)
	a.cache.Add(class, parent)
	return parent, parent != ""
}

func (a *Autoload) lookup(class string) string {
	for _, p := range a.prefixes {
		if !strings.HasPrefix(class, p.namespace) {
			continue
		}
		rel := strings.ReplaceAll(strings.TrimPrefix(class, p.namespace), `\`, "/") + ".php"
		for _, dir := range p.dirs {
			f, err := parse.ParseFile(filepath.Join(a.root, filepath.FromSlash(dir), rel))
			if err != nil {
				continue
			}
			parent := declaredParent(f, class)
			f.Close()
			return parent
		}
	}
	return ""
}

// declaredParent returns the parent of the class in f whose fully qualified
// name is class. A file declaring the class under another namespace does not
// match.
func declaredParent(f *parse.File, class string) string {
	var parent string
	f.Scan(func(c *parse.ClassLike) bool {
		if c.Kind == parse.KindClass && strings.EqualFold(c.FQN(), class) {
			parent = c.Parent()
			return true
		}
		return false
	})
	return parent
}

// extendsAny reports whether class is one of bases or inherits from one of
// them, following the hierarchy up to maxAncestors levels.
func (a *Analyzer) extendsAny(class string, bases []string) bool {
	for i := 0; class != "" && i <= maxAncestors; i++ {
		if contains(bases, class) {
			return true
		}
		parent, ok := a.hierarchy.Parent(class)
		if !ok {
			return false
		}
		class = parent
	}
	return false
}
