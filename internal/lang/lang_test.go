package lang

import (
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".php", "php"},
		{".vue", "vue"},
		{".js", "javascript"},
		{".PHP", ""},
		{".ts", ""},
		{".blade", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	php, ok := Languages["php"]
	if !ok {
		t.Fatal("php language not registered")
	}
	if php.lang == nil {
		t.Error("php grammar is nil")
	}
	if php.Batch {
		t.Error("php should be analyzed in-process")
	}

	for name, record := range map[string]string{"vue": "vue_sfc", "javascript": "javascript_module"} {
		l, ok := Languages[name]
		if !ok {
			t.Fatalf("%s language not registered", name)
		}
		if !l.Batch {
			t.Errorf("%s should be a batch language", name)
		}
		if l.RecordType != record {
			t.Errorf("%s RecordType = %q, want %q", name, l.RecordType, record)
		}
	}
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	p := Languages["php"].NewParser()
	if p == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	got := CollapseWhitespace("  new   class\n\textends  Migration ")
	if got != "new class extends Migration" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
