package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	sentinelStart = "<!-- laraguide:start -->"
	sentinelEnd   = "<!-- laraguide:end -->"
)

// newInitCmd returns the `laraguide init` subcommand, which writes (or
// updates) a laraguide usage section in a CLAUDE.md file.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [flags] [path-to-CLAUDE.md]",
		Short: "Write a laraguide usage section to CLAUDE.md",
		Long: `Write a laraguide usage section to a CLAUDE.md file. The section is wrapped in
sentinel comments so it can be updated in place on subsequent runs without
touching surrounding content. Creates the file if it does not exist.

path-to-CLAUDE.md defaults to ./CLAUDE.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return writeInit(path, dryRun, stdout, stderr)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

func writeInit(path string, dryRun bool, stdout, stderr io.Writer) error {
	section := generateSection()

	// --dry-run with no path: just print the section itself.
	if dryRun && path == "" {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	if path == "" {
		path = "CLAUDE.md"
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote laraguide section to %s\n", path)
	return nil
}

// generateSection returns the full sentinel-wrapped laraguide documentation block.
func generateSection() string {
	body := `## laraguide: Laravel Project Map

Run ` + "`laraguide`" + ` via the Bash tool at the start of any task in this Laravel
project. It prints the composer/package manifests, an .env summary and a tree
of every file with its role (model, controller, form request, job, listener,
event, enum, API resource, migration, artisan command, Vue component) and the
facts that matter for that role.

**Availability:** Check with ` + "`laraguide --version`" + ` first; skip gracefully if
not found.

**Run it:**
` + "```" + `bash
laraguide                                     # whole project as JSON
laraguide --format toon                       # compact output
laraguide --meta                              # metadata only
laraguide --tree 'app/Models/*'               # one folder
laraguide --tree app/Http/Controllers/PostController.php
laraguide --cache .laraguide-cache            # reuse output until files change
` + "```" + `

**Caching:** Use ` + "`--cache <file>`" + ` to skip re-analysis when nothing changed.
Add the cache file to ` + "`.gitignore`" + `. A conventional path is
` + "`.laraguide-cache`" + `.

**All flags:** ` + "`laraguide --help`" + `

**How to use the output:**

1. **Start from the tree, not directory listings.** Each file record carries
   ` + "`type`" + ` and role facts such as ` + "`table_name`" + `, ` + "`relationship_count`" + `,
   ` + "`rule_count`" + ` or ` + "`listens_to_events`" + `.

2. **Use ` + "`meta`" + ` for versions and drivers.** ` + "`laravel_version`" + `,
   ` + "`php_version_required`" + ` and the ` + "`env`" + ` summary answer most setup questions.

3. **Narrow with ` + "`--tree`" + `** on large projects instead of reading whole folders.

4. **Only fall back to Glob/Grep for what laraguide cannot answer**, such as
   method bodies or call sites.`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
