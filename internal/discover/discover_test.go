package discover

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "artisan", "#!/usr/bin/env php")
	writeFile(t, dir, "app/Models/User.php", "<?php class User {}")
	writeFile(t, dir, "resources/js/app.js", "import './bootstrap';")
	writeFile(t, dir, "resources/js/Pages/Home.vue", "<template></template>")
	writeFile(t, dir, ".editorconfig", "root = true")

	entries, err := Entries(dir, Options{})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}

	want := []string{
		".editorconfig",
		"app",
		"app/Models",
		"app/Models/User.php",
		"artisan",
		"resources",
		"resources/js",
		"resources/js/Pages",
		"resources/js/Pages/Home.vue",
		"resources/js/app.js",
	}
	if got := paths(entries); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}

	byPath := map[string]Entry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}
	if e := byPath["app/Models"]; !e.Dir || e.Size != 0 {
		t.Errorf("app/Models = %+v", e)
	}
	if e := byPath["app/Models/User.php"]; e.Dir || e.Size != 19 || e.Language != "php" || e.ModTime.IsZero() {
		t.Errorf("User.php = %+v", e)
	}
	if e := byPath["resources/js/Pages/Home.vue"]; e.Language != "vue" {
		t.Errorf("Home.vue language = %q", e.Language)
	}
	if e := byPath["artisan"]; e.Language != "" {
		t.Errorf("artisan language = %q", e.Language)
	}
}

func TestDefaultExclusions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app/Models/User.php", "<?php")
	writeFile(t, dir, ".env", "APP_KEY=secret")
	writeFile(t, dir, ".env.example", "APP_KEY=")
	writeFile(t, dir, "vendor/laravel/framework/src/Foo.php", "<?php")
	writeFile(t, dir, "node_modules/vue/index.js", "")
	writeFile(t, dir, "storage/logs/laravel.log", "")
	writeFile(t, dir, "bootstrap/cache/services.php", "<?php")
	writeFile(t, dir, "bootstrap/app.php", "<?php")
	writeFile(t, dir, "public/build/manifest.json", "{}")
	writeFile(t, dir, "public/hot", "http://localhost:5173")
	writeFile(t, dir, "public/index.php", "<?php")
	writeFile(t, dir, "database/database.sqlite", "")
	writeFile(t, dir, "config/app.php.bak", "")
	writeFile(t, dir, ".git/HEAD", "ref: refs/heads/main")
	writeFile(t, dir, ".idea/workspace.xml", "")
	writeFile(t, dir, "app/Mcp/Tools/Context.php", "<?php")
	writeFile(t, dir, "resources/js/Mcp/analyzer.js", "")
	writeFile(t, dir, "packages/blog/vendor/x.php", "<?php")

	entries, err := Entries(dir, Options{})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}

	want := []string{
		"app",
		"app/Models",
		"app/Models/User.php",
		"bootstrap",
		"bootstrap/app.php",
		"config",
		"database",
		"packages",
		"packages/blog",
		"packages/blog/vendor",
		"packages/blog/vendor/x.php",
		"public",
		"public/index.php",
		"resources",
		"resources/js",
	}
	if got := paths(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v\nwant    %v", got, want)
	}
}

func TestExtraExclusions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app/Models/User.php", "<?php")
	writeFile(t, dir, "app/Legacy/Old.php", "<?php")
	writeFile(t, dir, "tests/Feature/UserTest.php", "<?php")
	writeFile(t, dir, "lang/en/auth.php", "<?php")

	entries, err := Entries(dir, Options{Exclude: []string{"tests/", `app\Legacy`, "auth.php", "  "}})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	want := []string{"app", "app/Models", "app/Models/User.php", "lang", "lang/en"}
	if got := paths(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "/generated\n*.tmp\n")
	writeFile(t, dir, "generated/api.php", "<?php")
	writeFile(t, dir, "app/cache.tmp", "")
	writeFile(t, dir, "app/Kernel.php", "<?php")

	without, err := Entries(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(without) != 6 {
		t.Errorf("without gitignore: %v", paths(without))
	}

	with, err := Entries(dir, Options{Gitignore: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{".gitignore", "app", "app/Kernel.php"}
	if got := paths(with); !reflect.DeepEqual(got, want) {
		t.Errorf("with gitignore: %v, want %v", got, want)
	}
}

func TestSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.php", "<?php")

	if err := os.Symlink(filepath.Join(dir, "real.php"), filepath.Join(dir, "link.php")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Entries(dir, Options{})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if got := paths(entries); !reflect.DeepEqual(got, []string{"real.php"}) {
		t.Errorf("paths = %v", got)
	}
}

func TestEntriesMissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Entries(filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Error("expected an error for a missing root")
	}

	file := filepath.Join(t.TempDir(), "composer.json")
	writeFile(t, filepath.Dir(file), "composer.json", "{}")
	if _, err := Entries(file, Options{}); err == nil {
		t.Error("expected an error for a file root")
	}
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	m := NewMatcher(t.TempDir(), []string{"docs/*.md"}, false)
	tests := []struct {
		path string
		dir  bool
		want bool
	}{
		{"vendor", true, true},
		{"vendor", false, false},
		{"app/vendor", true, false},
		{"storage/app/file.txt", false, true},
		{"nested/.env", false, true},
		{".env.local", false, false},
		{"logs/today.log", false, true},
		{"docs/readme.md", false, true},
		{"docs/api/readme.md", false, false},
		{".DS_Store", false, true},
		{"app/Mcp", true, true},
		{"app/McpServer.php", false, false},
	}
	for _, tt := range tests {
		if got := m.Excluded(tt.path, tt.dir); got != tt.want {
			t.Errorf("Excluded(%q, dir=%v) = %v, want %v", tt.path, tt.dir, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
