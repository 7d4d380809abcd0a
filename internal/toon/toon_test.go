package toon

import (
	"strings"
	"testing"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"numeric string", "42", `"42"`},
		{"version string", "8.2", `"8.2"`},
		{"leading zero", "01", `"01"`},
		{"exponent", "1e9", `"1e9"`},
		{"comma", "a,b", `"a,b"`},
		{"colon", "mail:send", `"mail:send"`},
		{"quote", `a"b`, `"a\"b"`},
		{"namespace", `App\Models\User`, `"App\\Models\\User"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "app/Models/User.php", "app/Models/User.php"},
		{"timestamp", "2025-07-19 10:00:00", `"2025-07-19 10:00:00"`},
		{"constraint", "^11.0", "^11.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"trees":                 "trees",
		"User.php":              "User.php",
		"composer.json":         "composer.json",
		"laravel/framework":     `"laravel/framework"`,
		"2024_01_01_create.php": `"2024_01_01_create.php"`,
		"is-dev":                `"is-dev"`,
		"":                      `""`,
	}
	for in, want := range tests {
		if got := encodeKey(in); got != want {
			t.Errorf("encodeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	ctx := map[string]any{
		"meta": map[string]any{
			"root_path":       "/srv/shop",
			"laravel_version": "11.0",
			"env": map[string]any{
				"app_debug": false,
				"app_name":  "Shop",
			},
		},
		"trees": map[string]any{
			"app": map[string]any{
				"Models": map[string]any{
					"User.php": map[string]any{
						"size":        int64(312),
						"lines":       14,
						"type":        "eloquent_model",
						"table_name":  "users",
						"uses_traits": []any{`Illuminate\Notifications\Notifiable`},
						"constructor": nil,
						"casts_ratio": 0.5,
						"relations":   []any{},
					},
				},
				"Policies": map[string]any{},
			},
		},
	}

	want := strings.Join([]string{
		"meta:",
		"  env:",
		"    app_debug: false",
		"    app_name: Shop",
		`  laravel_version: "11.0"`,
		"  root_path: /srv/shop",
		"trees:",
		"  app:",
		"    Models:",
		"      User.php:",
		"        casts_ratio: 0.5",
		"        constructor: null",
		"        lines: 14",
		"        relations[0]:",
		"        size: 312",
		"        table_name: users",
		"        type: eloquent_model",
		`        uses_traits[1]: "Illuminate\\Notifications\\Notifiable"`,
		"    Policies:",
	}, "\n")

	if got := Encode(ctx); got != want {
		t.Errorf("Encode mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeArrays(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"keywords": []string{"laravel", "framework"},
		"props": []any{
			map[string]any{"name": "title", "required": true},
			map[string]any{"name": "count", "required": false},
		},
		"mixed": []any{
			"plain",
			map[string]any{"a": 1, "b": map[string]any{"c": 2}},
			[]any{1, 2},
			map[string]any{},
		},
	}

	want := strings.Join([]string{
		"keywords[2]: laravel,framework",
		"mixed[4]:",
		"  - plain",
		"  - a: 1",
		"    b:",
		"      c: 2",
		"  - [2]: 1,2",
		"  -",
		"props[2]{name,required}:",
		"  title,true",
		"  count,false",
	}, "\n")

	if got := Encode(data); got != want {
		t.Errorf("Encode mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()
	if got := Encode(map[string]any{}); got != "" {
		t.Errorf("Encode(empty) = %q", got)
	}
}
