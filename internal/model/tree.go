package model

import (
	"maps"
	"strings"
	"time"
)

// TimeLayout is the format of a record's updated_at value.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is a node of a Tree: either a nested Tree or a *FileRecord.
type Entry interface {
	isEntry()
}

// Tree mirrors a directory, keyed by entry name.
type Tree map[string]Entry

// FileRecord is the leaf describing one file. Frontend holds data merged
// from the external analyzer and overrides summary keys; Error is set when
// that analyzer failed for the file.
type FileRecord struct {
	Size      int64
	Lines     int
	UpdatedAt time.Time
	Summary   Summary
	Frontend  map[string]any
	Error     string
}

func (Tree) isEntry()        {}
func (*FileRecord) isEntry() {}

// Fields flattens the record to its output keys.
func (r *FileRecord) Fields() map[string]any {
	out := map[string]any{
		"size":       r.Size,
		"lines":      r.Lines,
		"updated_at": r.UpdatedAt.Format(TimeLayout),
	}
	if r.Summary != nil {
		maps.Copy(out, r.Summary.Fields())
	}
	maps.Copy(out, r.Frontend)
	if r.Error != "" {
		out["error"] = r.Error
	}
	return out
}

// Map converts the tree to nested generic maps for encoding.
func (t Tree) Map() map[string]any {
	out := make(map[string]any, len(t))
	for name, e := range t {
		switch e := e.(type) {
		case Tree:
			out[name] = e.Map()
		case *FileRecord:
			out[name] = e.Fields()
		}
	}
	return out
}

// Dir returns the subtree at a slash-separated path, creating missing
// directories. A file record standing where a directory is needed is
// replaced.
func (t Tree) Dir(path string) Tree {
	cur := t
	if path == "" || path == "." {
		return cur
	}
	for _, part := range strings.Split(path, "/") {
		next, ok := cur[part].(Tree)
		if !ok {
			next = Tree{}
			cur[part] = next
		}
		cur = next
	}
	return cur
}

// File returns the record at a slash-separated path.
func (t Tree) File(path string) (*FileRecord, bool) {
	dir, name := "", path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		dir, name = path[:i], path[i+1:]
	}
	cur := t
	if dir != "" {
		for _, part := range strings.Split(dir, "/") {
			next, ok := cur[part].(Tree)
			if !ok {
				return nil, false
			}
			cur = next
		}
	}
	r, ok := cur[name].(*FileRecord)
	return r, ok
}

// Filter returns the parts of the tree selected by f. Selected entries are
// shared with t, not copied.
func (t Tree) Filter(f TreeFilter) Tree {
	if f.All {
		return t
	}
	return t.filter(f, "")
}

func (t Tree) filter(f TreeFilter, prefix string) Tree {
	out := Tree{}
	for name, e := range t {
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}
		sub, isDir := e.(Tree)

		if f.matches(path) {
			out[name] = e
			continue
		}
		if files := f.Files[path]; isDir && len(files) > 0 {
			picked := Tree{}
			for _, fn := range files {
				if fe, ok := sub[fn]; ok {
					picked[fn] = fe
				}
			}
			if len(picked) > 0 {
				out[name] = picked
			}
			continue
		}
		if isDir {
			if s := sub.filter(f, path); len(s) > 0 {
				out[name] = s
			}
		}
	}
	return out
}
