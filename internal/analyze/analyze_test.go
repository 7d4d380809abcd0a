package analyze

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/laraguide/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// analyzeSource writes source to a temp file and runs fn over it.
func analyzeSource(t *testing.T, source string, fn func(string) model.Summary) map[string]any {
	t.Helper()
	path := writeFile(t, t.TempDir(), "File.php", source)
	return fn(path).Fields()
}

func TestFailures(t *testing.T) {
	t.Parallel()
	a := New()

	tests := []struct {
		name   string
		source string
		prefix string
	}{
		{"syntax", "<?php\nclass Broken {\n  public function (\n", syntaxPrefix},
		{"empty", "<?php\n", emptyMessage},
		{"blank file", "", emptyMessage},
	}
	classifiers := map[string]func(string) model.Summary{
		"model":     a.Model,
		"generic":   a.Summarize,
		"enum":      a.Enum,
		"listener":  a.Listener,
		"migration": a.Migration,
	}
	for _, tt := range tests {
		for cname, fn := range classifiers {
			t.Run(tt.name+"/"+cname, func(t *testing.T) {
				t.Parallel()
				got := analyzeSource(t, tt.source, fn)
				msg, _ := got["error"].(string)
				if tt.prefix == emptyMessage && cname == "migration" {
					if msg != migrationEmpty {
						t.Errorf("error = %q, want %q", msg, migrationEmpty)
					}
					return
				}
				if !strings.HasPrefix(msg, tt.prefix) {
					t.Errorf("error = %q, want prefix %q", msg, tt.prefix)
				}
				if len(got) != 1 {
					t.Errorf("record = %v, want only an error", got)
				}
			})
		}
	}
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	got := New().Job(filepath.Join(t.TempDir(), "Gone.php")).Fields()
	msg, _ := got["error"].(string)
	if !strings.HasPrefix(msg, unexpectedPrefix) {
		t.Errorf("error = %q", msg)
	}
}

func TestLimit(t *testing.T) {
	t.Parallel()

	short := "short message"
	if limit(short) != short {
		t.Errorf("limit changed %q", short)
	}
	long := strings.Repeat("é", 99) + " tail that is cut"
	got := limit(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 102 {
		t.Errorf("limit = %q (%d runes)", got, len([]rune(got)))
	}
}

func TestMissingDeclaration(t *testing.T) {
	t.Parallel()
	a := New()
	src := "<?php\nfunction helper() { return 1; }\n"

	got := analyzeSource(t, src, a.Controller)
	if got["type"] != model.GenericType || got["is_controller"] != false {
		t.Errorf("record = %v", got)
	}
	if got["error"] != "PHP file in the Controllers folder does not contain a class declaration." {
		t.Errorf("error = %v", got["error"])
	}

	enum := analyzeSource(t, src, a.Enum)
	if len(enum) != 1 || enum["error"] != enumMissing {
		t.Errorf("enum record = %v", enum)
	}

	mig := analyzeSource(t, src, a.Migration)
	if len(mig) != 1 || mig["error"] != migrationMissing {
		t.Errorf("migration record = %v", mig)
	}
}

func TestWrongRole(t *testing.T) {
	t.Parallel()
	a := New()
	src := "<?php\nnamespace App\\Support;\n\nclass Helper {}\n"

	for flag, fn := range map[string]func(string) model.Summary{
		"is_eloquent_model":  a.Model,
		"is_controller":      a.Controller,
		"is_form_request":    a.Request,
		"is_artisan_command": a.Command,
		"is_event":           a.Event,
		"is_job":             a.Job,
		"is_listener":        a.Listener,
		"is_api_resource":    a.Resource,
	} {
		got := analyzeSource(t, src, fn)
		if len(got) != 2 || got["type"] != model.GenericType || got[flag] != false {
			t.Errorf("%s record = %v", flag, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	a := New()

	got := analyzeSource(t, `<?php
namespace App\Services;

use App\Contracts\Billing;
use Psr\Log\LoggerInterface;

class Invoice extends BaseService implements Billing
{
    use \App\Concerns\HasMoney;

    private $total, $tax;
    protected ?string $currency = null;

    public function __construct(LoggerInterface $log, ?Billing $billing, $untyped) {}
    public function total(): int { return 0; }
}
`, a.Summarize)

	if got["type"] != "class" || got["name"] != "Invoice" {
		t.Errorf("type/name = %v/%v", got["type"], got["name"])
	}
	assertList(t, got["extends"], `App\Services\BaseService`)
	assertList(t, got["implements"], `App\Contracts\Billing`)
	assertList(t, got["uses_traits"], `App\Concerns\HasMoney`)
	assertList(t, got["constructor_deps"], `Psr\Log\LoggerInterface`, `?App\Contracts\Billing`)
	if got["method_count"] != 2 || got["property_count"] != 3 {
		t.Errorf("counts = %v/%v", got["method_count"], got["property_count"])
	}

	iface := analyzeSource(t, "<?php\ninterface Shape extends Countable, \\Stringable {}\n", a.Summarize)
	if iface["type"] != "interface" {
		t.Errorf("type = %v", iface["type"])
	}
	assertList(t, iface["extends"], "Countable", "Stringable")
	assertList(t, iface["implements"])

	plain := analyzeSource(t, "<?php\nreturn ['key' => 'value'];\n", a.Summarize)
	if plain["type"] != "php_file" || plain["found_definition"] != false {
		t.Errorf("plain = %v", plain)
	}

	enumOnly := analyzeSource(t, "<?php\nenum Suit { case Hearts; }\n", a.Summarize)
	if enumOnly["type"] != "php_file" {
		t.Errorf("enum file = %v", enumOnly)
	}
}

func assertList(t *testing.T, got any, want ...string) {
	t.Helper()
	list, ok := got.([]any)
	if !ok {
		t.Fatalf("got %T %v, want a list", got, got)
	}
	if len(list) != len(want) {
		t.Fatalf("got %v, want %v", list, want)
	}
	for i, w := range want {
		if list[i] != w {
			t.Errorf("[%d] = %v, want %q", i, list[i], w)
		}
	}
}
