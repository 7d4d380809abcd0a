// Package analyze classifies PHP files by the role they play in a Laravel
// application and extracts the facts that matter for that role.
//
// Every classifier has the same two phases: find the file's first
// declaration and test a cheap structural predicate, then walk the
// declaration to extract facts only when the predicate holds.
package analyze

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

const (
	emptyMessage     = "Unable to parse the PHP file. It may be empty or have invalid syntax."
	syntaxPrefix     = "PHP syntax error: "
	unexpectedPrefix = "Unexpected error while analyzing: "
	messageLimit     = 100
)

// Classifier turns one file into a summary. Implementations never fail:
// problems are reported as model.Failure or model.Missing summaries.
type Classifier interface {
	Analyze(path string) model.Summary
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(path string) model.Summary

// Analyze calls f(path).
func (f ClassifierFunc) Analyze(path string) model.Summary { return f(path) }

// Bases lists the fully-qualified base classes each role recognizes.
type Bases struct {
	Model      []string
	Controller []string
	Request    []string
	Command    []string
	Resource   []string
	Collection []string
	Migration  []string
}

// DefaultBases returns the framework and conventional project base classes.
func DefaultBases() Bases {
	return Bases{
		Model: []string{
			`Illuminate\Database\Eloquent\Model`,
			`Illuminate\Foundation\Auth\User`,
			`App\Models\BaseModel`,
		},
		Controller: []string{
			`Illuminate\Routing\Controller`,
			`App\Http\Controllers\Controller`,
		},
		Request: []string{
			`Illuminate\Foundation\Http\FormRequest`,
			`App\Http\Requests\BaseFormRequest`,
		},
		Command:    []string{`Illuminate\Console\Command`},
		Resource:   []string{`Illuminate\Http\Resources\Json\JsonResource`},
		Collection: []string{`Illuminate\Http\Resources\Json\ResourceCollection`},
		Migration:  []string{`Illuminate\Database\Migrations\Migration`},
	}
}

// Merge returns b with the classes of extra appended to each list.
func (b Bases) Merge(extra Bases) Bases {
	return Bases{
		Model:      appendNew(b.Model, extra.Model),
		Controller: appendNew(b.Controller, extra.Controller),
		Request:    appendNew(b.Request, extra.Request),
		Command:    appendNew(b.Command, extra.Command),
		Resource:   appendNew(b.Resource, extra.Resource),
		Collection: appendNew(b.Collection, extra.Collection),
		Migration:  appendNew(b.Migration, extra.Migration),
	}
}

func appendNew(list, extra []string) []string {
	out := append([]string(nil), list...)
	for _, e := range extra {
		e = strings.TrimPrefix(e, `\`)
		if e != "" && !contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// Analyzer holds the classifiers and what they consult: the base class
// lists and the superclass lookup.
type Analyzer struct {
	bases     Bases
	hierarchy Hierarchy
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithBases replaces the recognized base classes.
func WithBases(b Bases) Option {
	return func(a *Analyzer) { a.bases = b }
}

// WithHierarchy sets the superclass lookup used for declared subclasses.
func WithHierarchy(h Hierarchy) Option {
	return func(a *Analyzer) { a.hierarchy = h }
}

// WithLogger sets the logger for recovered failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New returns an Analyzer using the default bases and no superclass lookup.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		bases:     DefaultBases(),
		hierarchy: noHierarchy{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// role describes one classifier's folder conventions.
type role struct {
	flag   string
	folder string
	kinds  []parse.Kind
}

func (r role) missing() model.Summary {
	return model.Missing{
		Flag:    r.flag,
		Message: fmt.Sprintf("PHP file in the %s folder does not contain a class declaration.", r.folder),
	}
}

var classOnly = []parse.Kind{parse.KindClass}

// classify runs the two-phase pattern shared by the role classifiers.
func (a *Analyzer) classify(path string, r role, is func(*parse.ClassLike) bool, extract func(*parse.ClassLike) model.Summary) model.Summary {
	return a.withFile(path, func(f *parse.File) model.Summary {
		c := f.FirstDeclaration(r.kinds...)
		if c == nil {
			return r.missing()
		}
		if !is(c) {
			return model.NotRole{Flag: r.flag}
		}
		return extract(c)
	})
}

// withFile parses path and hands the tree to fn, converting parse
// failures and panics into failure summaries.
func (a *Analyzer) withFile(path string, fn func(*parse.File) model.Summary) (s model.Summary) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("classifier panicked", "path", path, "panic", r)
			s = model.Failure{Message: unexpectedPrefix + limit(fmt.Sprint(r))}
		}
	}()

	f, err := parse.ParseFile(path)
	if err != nil {
		return failure(err)
	}
	defer f.Close()
	return fn(f)
}

func failure(err error) model.Summary {
	switch {
	case errors.Is(err, parse.ErrEmpty):
		return model.Failure{Message: emptyMessage}
	case errors.Is(err, parse.ErrSyntax):
		return model.Failure{Message: syntaxPrefix + limit(err.Error())}
	default:
		return model.Failure{Message: unexpectedPrefix + limit(err.Error())}
	}
}

// limit truncates s to the message limit, marking the cut with "...".
func limit(s string) string {
	r := []rune(s)
	if len(r) <= messageLimit {
		return s
	}
	return strings.TrimRightFunc(string(r[:messageLimit]), unicode.IsSpace) + "..."
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// unique returns list without repeated entries, keeping first occurrences.
func unique(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// constructorDeps returns the rendered type of each typed constructor
// parameter.
func constructorDeps(c *parse.ClassLike) []string {
	ctor := c.Method("__construct")
	if ctor == nil {
		return nil
	}
	var deps []string
	for _, p := range ctor.Params {
		if p.Type != nil {
			deps = append(deps, c.FormatType(p.Type))
		}
	}
	return deps
}
