// Package bridge runs the out-of-process analyzer for front-end sources.
//
// The analyzer is a script run by an external interpreter (Node.js by
// default). It receives a JSON array of absolute paths as its only argument
// and prints a JSON object mapping each path to a Result. Every failure of
// the call itself is reported as the same error Result for every path.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single batch call.
const DefaultTimeout = 300 * time.Second

// StatusSuccess marks a Result whose Data holds the analysis.
const StatusSuccess = "success"

// StatusError marks a failed Result.
const StatusError = "error"

// Result is the analyzer's record for one file.
type Result struct {
	Status      string         `json:"status"`
	Data        map[string]any `json:"data,omitempty"`
	Message     string         `json:"message,omitempty"`
	ErrorOutput string         `json:"error_output,omitempty"`
}

// OK reports whether r carries analysis data.
func (r Result) OK() bool {
	return r.Status == StatusSuccess && r.Data != nil
}

// BatchAnalyzer analyzes a batch of files by absolute path.
type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, paths []string) map[string]Result
}

// Runner executes argv in dir and returns its captured output.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children that inherit the pipes must not hold Wait past the deadline.
	cmd.WaitDelay = 2 * time.Second
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Script is a BatchAnalyzer backed by an interpreter and an analyzer script.
type Script struct {
	interpreter string
	script      string
	dir         string
	timeout     time.Duration
	runner      Runner
	lookPath    func(string) (string, error)
	logger      *slog.Logger
}

// Option configures a Script.
type Option func(*Script)

// WithDir sets the working directory of the analyzer process.
func WithDir(dir string) Option {
	return func(s *Script) { s.dir = dir }
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Script) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRunner replaces process execution, mainly for tests.
func WithRunner(r Runner) Option {
	return func(s *Script) { s.runner = r }
}

// WithLogger sets the logger used for failed batches.
func WithLogger(l *slog.Logger) Option {
	return func(s *Script) { s.logger = l }
}

// NewScript returns an analyzer running script with interpreter, which is
// either a path or a name searched in PATH.
func NewScript(interpreter, script string, opts ...Option) *Script {
	s := &Script{
		interpreter: interpreter,
		script:      script,
		timeout:     DefaultTimeout,
		runner:      execRunner{},
		lookPath:    exec.LookPath,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeBatch implements BatchAnalyzer. An empty batch returns an empty
// map without starting a process.
func (s *Script) AnalyzeBatch(ctx context.Context, paths []string) map[string]Result {
	if len(paths) == 0 {
		return map[string]Result{}
	}

	bin, err := s.lookPath(s.interpreter)
	if err != nil {
		return fill(paths, Result{Status: StatusError, Message: "Node.js executable not found in PATH."})
	}
	if _, err := os.Stat(s.script); err != nil {
		return fill(paths, Result{Status: StatusError, Message: "Analysis script not found at " + s.script})
	}

	arg, err := json.Marshal(paths)
	if err != nil {
		return fill(paths, Result{Status: StatusError, Message: "Failed to encode file paths to JSON."})
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, err := s.runner.Run(ctx, s.dir, []string{bin, s.script, string(arg)})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", s.timeout, err)
		}
		s.logger.Warn("frontend batch failed", "script", s.script, "files", len(paths), "error", err)
		return fill(paths, Result{
			Status:      StatusError,
			Message:     "Node.js batch script execution failed: " + err.Error(),
			ErrorOutput: string(stderr),
		})
	}

	var out map[string]Result
	if err := json.Unmarshal(stdout, &out); err != nil {
		s.logger.Warn("frontend batch output undecodable", "script", s.script, "error", err)
		return fill(paths, Result{
			Status:  StatusError,
			Message: "Failed to decode JSON from Node.js batch script. Raw output: " + string(stdout),
		})
	}
	if out == nil {
		out = map[string]Result{}
	}
	s.logger.Debug("frontend batch done", "script", s.script, "files", len(paths), "results", len(out), "elapsed", time.Since(start))
	return out
}

func fill(paths []string, r Result) map[string]Result {
	out := make(map[string]Result, len(paths))
	for _, p := range paths {
		out[p] = r
	}
	return out
}
