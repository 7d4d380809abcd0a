// Package project builds the context map of a Laravel project: metadata
// plus a tree mirroring the directory layout, with a role summary on every
// analyzable file.
package project

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phobologic/laraguide/internal/analyze"
	"github.com/phobologic/laraguide/internal/bridge"
	"github.com/phobologic/laraguide/internal/discover"
	"github.com/phobologic/laraguide/internal/lang"
	"github.com/phobologic/laraguide/internal/meta"
	"github.com/phobologic/laraguide/internal/model"
)

const (
	unknownFrontendError = "Unknown frontend analysis error"
	noFrontendResult     = "no result returned by the analyzer"
)

// batchOrder is the order front-end batches are submitted in.
var batchOrder = []string{"vue", "javascript"}

// Config describes one build.
type Config struct {
	Root     string
	Discover discover.Options

	// Bases extends the built-in base class lists.
	Bases analyze.Bases
	// HierarchyCache bounds the superclass lookup cache.
	HierarchyCache int

	// Rules builds the path-prefix routing table from the analyzer; nil
	// means DefaultRules.
	Rules func(*analyze.Analyzer) []Rule

	// Frontend maps a batch language name ("vue", "javascript") to the
	// analyzer for its files. Languages without one keep their
	// placeholder summary.
	Frontend map[string]bridge.BatchAnalyzer

	// Workers is the number of concurrent classifiers. Values below 1
	// mean 1.
	Workers int

	Logger *slog.Logger
}

// Context is a built project context.
type Context struct {
	Meta *meta.Meta
	Tree model.Tree
}

// Get returns the parts of the context selected by f. The zero filter
// selects everything.
func (c *Context) Get(f model.Filter) map[string]any {
	if f.IsZero() {
		return map[string]any{
			"meta":  c.Meta.Fields(),
			"trees": c.Tree.Map(),
		}
	}
	out := map[string]any{}
	if f.Meta {
		out["meta"] = c.Meta.Fields()
	}
	if f.Trees != nil {
		out["trees"] = c.Tree.Filter(*f.Trees).Map()
	}
	return out
}

// job is one file to summarize. classifier is nil for files that only get
// the base record.
type job struct {
	rel        string
	abs        string
	record     *model.FileRecord
	classifier analyze.Classifier
}

// New walks cfg.Root and builds its context. Only failures to enumerate the
// root or read its manifests are errors; per-file problems are recorded on
// the file.
func New(ctx context.Context, cfg Config) (*Context, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("run", uuid.NewString())

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	start := time.Now()
	logger.Info("building project context", "root", root)

	entries, err := discover.Entries(root, cfg.Discover)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}

	m, err := meta.Load(root)
	if err != nil {
		return nil, fmt.Errorf("reading project metadata: %w", err)
	}

	hierarchy, err := analyze.NewAutoload(root, m.PSR4(), cfg.HierarchyCache)
	if err != nil {
		return nil, fmt.Errorf("creating class lookup: %w", err)
	}
	a := analyze.New(
		analyze.WithBases(analyze.DefaultBases().Merge(cfg.Bases)),
		analyze.WithHierarchy(hierarchy),
		analyze.WithLogger(logger),
	)
	newRules := cfg.Rules
	if newRules == nil {
		newRules = DefaultRules
	}
	rules := newRules(a)
	generic := analyze.ClassifierFunc(a.Summarize)

	tree := model.Tree{}
	var jobs []job
	batches := map[string][]job{}

	for _, e := range entries {
		if e.Dir {
			tree.Dir(e.Path)
			continue
		}
		rec := &model.FileRecord{Size: e.Size, UpdatedAt: e.ModTime}
		dir, name := path.Split(e.Path)
		tree.Dir(path.Clean(dir))[name] = rec

		j := job{rel: e.Path, abs: filepath.Join(root, filepath.FromSlash(e.Path)), record: rec}
		if l := lang.Languages[e.Language]; l != nil {
			switch {
			case l.Batch:
				rec.Summary = model.Placeholder{Type: l.RecordType}
				batches[l.Name] = append(batches[l.Name], j)
			default:
				j.classifier = route(rules, generic, e.Path)
			}
		}
		jobs = append(jobs, j)
	}

	summarize(jobs, cfg.Workers, logger)

	for _, name := range batchOrder {
		batch := batches[name]
		if len(batch) == 0 {
			continue
		}
		analyzer := cfg.Frontend[name]
		if analyzer == nil {
			logger.Debug("no frontend analyzer", "language", name, "files", len(batch))
			continue
		}
		mergeFrontend(batch, analyzer.AnalyzeBatch(ctx, absPaths(batch)))
	}

	logger.Info("project context built",
		"entries", len(entries),
		"files", len(jobs),
		"elapsed", time.Since(start))
	return &Context{Meta: m, Tree: tree}, nil
}

// summarize counts lines and classifies every job on a pool of workers.
// Results are assigned in input order by the calling goroutine only.
func summarize(jobs []job, workers int, logger *slog.Logger) {
	type result struct {
		index   int
		lines   int
		summary model.Summary
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	debug := logger.Enabled(context.Background(), slog.LevelDebug)
	work := make(chan int, len(jobs))
	results := make(chan result, len(jobs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				j := jobs[idx]
				r := result{index: idx, lines: countLines(j.abs)}
				if j.classifier != nil {
					r.summary = j.classifier.Analyze(j.abs)
					if debug {
						logger.Debug("classified", "path", j.rel, "type", r.summary.Fields()["type"])
					}
				}
				results <- r
			}
		}()
	}

	for i := range jobs {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]result, len(jobs))
	for r := range results {
		ordered[r.index] = r
	}
	for i, r := range ordered {
		jobs[i].record.Lines = r.lines
		if r.summary != nil {
			jobs[i].record.Summary = r.summary
		}
	}
}

// countLines counts the non-blank lines of a file. Unreadable files count
// zero.
func countLines(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	n := 0
	for line := range bytes.Lines(data) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}

func absPaths(batch []job) []string {
	out := make([]string, len(batch))
	for i, j := range batch {
		out[i] = j.abs
	}
	return out
}

// mergeFrontend applies analyzer results to the placeholder records.
func mergeFrontend(batch []job, results map[string]bridge.Result) {
	for _, j := range batch {
		res, ok := results[j.abs]
		switch {
		case !ok:
			j.record.Error = noFrontendResult
		case res.OK():
			j.record.Frontend = res.Data
		case res.Message != "":
			j.record.Error = res.Message
		default:
			j.record.Error = unknownFrontendError
		}
	}
}
