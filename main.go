// laraguide prints a structural map of a Laravel project: project metadata
// plus a nested tree of every file classified by its architectural role.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/laraguide/internal/bridge"
	"github.com/phobologic/laraguide/internal/cache"
	"github.com/phobologic/laraguide/internal/config"
	"github.com/phobologic/laraguide/internal/discover"
	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/project"
	"github.com/phobologic/laraguide/internal/toon"
)

var version = "dev"

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOON = "toon"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

type options struct {
	format     string
	filter     string
	meta       bool
	trees      []string
	configFile string
	cachePath  string
	verbose    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "laraguide [flags] [project-root]",
		Short: "Map a Laravel project's files by architectural role",
		Long: `laraguide walks a Laravel project and prints its metadata (composer.json,
package.json, .env summary) together with a tree of every file. PHP files are
classified as models, controllers, form requests, commands, enums, events,
jobs, listeners, API resources or migrations; .vue and .js files are handed to
the project's Node.js analyzer scripts.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return generate(cmd, root, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("laraguide {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, yaml or toon")
	f.StringVar(&opts.filter, "filter", "", `JSON filter, e.g. '{"meta":true,"trees":["app/Models/*"]}'`)
	f.BoolVar(&opts.meta, "meta", false, "include project metadata (with --tree, only the selected parts are printed)")
	f.StringArrayVar(&opts.trees, "tree", nil, `tree path pattern to include ("*", "app/Models/*", "app/Models/User.php"); repeatable`)
	f.StringVar(&opts.configFile, "config", "", "configuration file (default <root>/.laraguide.*)")
	f.StringVar(&opts.cachePath, "cache", "", "cache file path")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	f.StringSlice("exclude", nil, "additional exclusion patterns (gitignore syntax)")
	f.Bool("gitignore", false, "also honour the project's .gitignore")
	f.Int("workers", 1, "number of files classified concurrently")
	f.Int("hierarchy-cache", 1024, "size of the superclass lookup cache")
	f.String("node", "node", "Node.js executable used for .vue and .js analysis")
	f.Duration("timeout", bridge.DefaultTimeout, "time limit for each front-end analyzer run")

	cmd.AddCommand(newInitCmd(stdout, stderr))
	return cmd
}

func generate(cmd *cobra.Command, root string, opts options, stdout, stderr io.Writer) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	encode, err := encoder(opts.format)
	if err != nil {
		return err
	}
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root, opts.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if cfg.File != "" {
		logger.Debug("loaded configuration", "file", cfg.File)
	}

	discoverOpts := discover.Options{Exclude: cfg.Exclude, Gitignore: cfg.Gitignore}
	if opts.cachePath != "" {
		discoverOpts.Exclude = excludeCache(root, opts.cachePath, cfg.Exclude)
	}
	key := cache.Key(opts.format, filterKey(opts), settingsKey(cfg))

	if opts.cachePath != "" {
		if data, ok := loadCache(opts.cachePath, key, root, cfg, discoverOpts); ok {
			logger.Debug("cache hit", "path", opts.cachePath)
			_, err := stdout.Write(data)
			return err
		}
	}

	pc, err := project.New(cmd.Context(), project.Config{
		Root:           root,
		Discover:       discoverOpts,
		Bases:          cfg.Bases,
		HierarchyCache: cfg.HierarchyCache,
		Frontend:       frontend(root, cfg, logger),
		Workers:        cfg.Workers,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	out, err := encode(pc.Get(filter))
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}

	if opts.cachePath != "" {
		if err := cache.Write(opts.cachePath, key, out); err != nil {
			logger.Warn("writing cache", "path", opts.cachePath, "error", err)
		}
	}

	_, err = stdout.Write(out)
	return err
}

// frontend builds the batch analyzers for .vue and .js files. A language
// whose script is configured as empty keeps its placeholder records.
func frontend(root string, cfg *config.Config, logger *slog.Logger) map[string]bridge.BatchAnalyzer {
	scripts := map[string]string{
		"vue":        cfg.Bridge.VueScript,
		"javascript": cfg.Bridge.JSScript,
	}
	out := map[string]bridge.BatchAnalyzer{}
	for name, script := range scripts {
		if script == "" {
			continue
		}
		out[name] = bridge.NewScript(cfg.Bridge.Node, config.Script(root, script),
			bridge.WithDir(root),
			bridge.WithTimeout(cfg.Bridge.Timeout),
			bridge.WithLogger(logger.With("language", name)),
		)
	}
	return out
}

// buildFilter combines --filter with the --meta and --tree shorthands.
func buildFilter(opts options) (model.Filter, error) {
	f, err := model.ParseFilter([]byte(opts.filter))
	if err != nil {
		return model.Filter{}, err
	}
	if opts.meta {
		f.Meta = true
	}
	if len(opts.trees) > 0 {
		f.Trees = model.NewTreeFilter(opts.trees...)
	}
	return f, nil
}

func filterKey(opts options) string {
	data, _ := json.Marshal(struct {
		Filter string   `json:"filter"`
		Meta   bool     `json:"meta"`
		Trees  []string `json:"trees"`
	}{opts.filter, opts.meta, opts.trees})
	return string(data)
}

// settingsKey fingerprints the settings that change the output, so flag
// changes invalidate the cache as well as edits to the config file.
func settingsKey(cfg *config.Config) string {
	data, _ := json.Marshal(cfg)
	return string(data)
}

func encoder(format string) (func(map[string]any) ([]byte, error), error) {
	switch format {
	case formatJSON:
		return encodeJSON, nil
	case formatYAML:
		return func(v map[string]any) ([]byte, error) {
			return yaml.Marshal(v)
		}, nil
	case formatTOON:
		return func(v map[string]any) ([]byte, error) {
			return []byte(toon.Encode(v)), nil
		}, nil
	}
	return nil, fmt.Errorf("unsupported format %q (want json, yaml or toon)", format)
}

func encodeJSON(v map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// excludeCache adds the cache file to the exclusions when it lives inside
// root, so it neither shows up in the tree nor counts as a changed input.
func excludeCache(root, cachePath string, exclude []string) []string {
	abs, err := filepath.Abs(cachePath)
	if err != nil {
		return exclude
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return exclude
	}
	return append(slices.Clone(exclude), "/"+filepath.ToSlash(rel))
}

// loadCache returns the cached output when it was written for key and no
// discovered entry, .env or configuration file changed since.
func loadCache(path, key, root string, cfg *config.Config, opts discover.Options) ([]byte, bool) {
	entries, err := discover.Entries(root, opts)
	if err != nil {
		return nil, false
	}
	inputs := make([]time.Time, 0, len(entries)+2)
	for _, e := range entries {
		inputs = append(inputs, e.ModTime)
	}
	for _, extra := range []string{filepath.Join(root, ".env"), cfg.File} {
		if extra == "" {
			continue
		}
		fi, err := os.Stat(extra)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false
		}
		inputs = append(inputs, fi.ModTime())
	}
	return cache.Load(path, key, inputs)
}
