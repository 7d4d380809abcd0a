package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Filter selects parts of a project context. The zero Filter selects
// everything. Given marks a non-empty filter whose keys may all have been
// unrecognised; such a filter selects only what it names, possibly nothing.
type Filter struct {
	Meta  bool
	Trees *TreeFilter
	Given bool
}

// TreeFilter selects parts of the project tree. Paths holds exact paths and
// "dir/*" prefixes; Files maps a directory path to the file names wanted
// from it.
type TreeFilter struct {
	All   bool
	Paths []string
	Files map[string][]string
}

// IsZero reports whether no filter was supplied at all.
func (f Filter) IsZero() bool {
	return !f.Given && !f.Meta && f.Trees == nil
}

func (f TreeFilter) matches(path string) bool {
	for _, p := range f.Paths {
		if p == path {
			return true
		}
		if strings.HasSuffix(p, "/*") {
			dir := strings.TrimRight(p, "/*")
			if path == dir || strings.HasPrefix(path, dir+"/") {
				return true
			}
		}
	}
	return false
}

// NewTreeFilter builds a tree filter from path patterns. A "*" pattern
// selects the whole tree.
func NewTreeFilter(patterns ...string) *TreeFilter {
	tf := &TreeFilter{}
	for _, p := range patterns {
		if p == "*" {
			return &TreeFilter{All: true}
		}
		tf.Paths = append(tf.Paths, p)
	}
	return tf
}

// ParseFilter decodes a JSON filter. It accepts a list of top-level keys
// (["meta", "trees"]) or an object whose "meta" is a boolean and whose
// "trees" is "*", a list of path patterns, or a map from directory to file
// names. Unknown keys are ignored, so a non-empty filter naming nothing known
// selects nothing. Empty input, null, {} and [] yield the zero Filter.
func ParseFilter(data []byte) (Filter, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Filter{}, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Filter{}, fmt.Errorf("decoding filter: %w", err)
	}

	var f Filter
	switch v := raw.(type) {
	case nil:
	case []any:
		f.Given = len(v) > 0
		for _, key := range v {
			switch key {
			case "meta":
				f.Meta = true
			case "trees":
				f.Trees = &TreeFilter{All: true}
			}
		}
	case map[string]any:
		f.Given = len(v) > 0
		if meta, ok := v["meta"].(bool); ok {
			f.Meta = meta
		}
		if trees, ok := v["trees"]; ok && trees != nil {
			tf, err := parseTrees(trees)
			if err != nil {
				return Filter{}, err
			}
			f.Trees = tf
		}
	default:
		return Filter{}, errors.New("filter must be a JSON object or list")
	}
	return f, nil
}

func parseTrees(v any) (*TreeFilter, error) {
	switch v := v.(type) {
	case string:
		return NewTreeFilter(v), nil
	case []any:
		var patterns []string
		for _, p := range v {
			s, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("trees pattern %v is not a string", p)
			}
			patterns = append(patterns, s)
		}
		return NewTreeFilter(patterns...), nil
	case map[string]any:
		tf := &TreeFilter{Files: map[string][]string{}}
		for dir, names := range v {
			list, ok := names.([]any)
			if !ok {
				return nil, fmt.Errorf("trees entry %q must list file names", dir)
			}
			for _, n := range list {
				s, ok := n.(string)
				if !ok {
					return nil, fmt.Errorf("trees entry %q holds non-string %v", dir, n)
				}
				tf.Files[dir] = append(tf.Files[dir], s)
			}
		}
		return tf, nil
	}
	return nil, fmt.Errorf("trees must be \"*\", a list or an object, got %T", v)
}
