// Package meta reads project-level facts from the manifests and
// environment file at the root of a Laravel application.
package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

// Unknown is reported when the framework version cannot be determined.
const Unknown = "unknown"

var (
	composerKeys = []string{"name", "description", "keywords", "type", "require", "require-dev"}
	autoloadKeys = []string{"autoload", "autoload-dev"}
	packageKeys  = []string{"name", "version", "description", "dependencies", "devDependencies"}
)

var phpVersionRe = regexp.MustCompile(`^(\d+\.\d+)`)

// Meta holds the project metadata block.
type Meta struct {
	RootPath       string
	Composer       map[string]any // filtered composer.json, nil when absent
	LaravelVersion string
	PHPVersion     string         // major.minor required, "" when not declared
	Package        map[string]any // filtered package.json, nil when absent
	Env            Env

	psr4 map[string][]string
}

// Env summarizes the .env file without exposing its values.
type Env struct {
	AppName         string
	AppEnv          string
	AppDebug        bool
	DBConnection    string
	SessionDriver   string
	QueueConnection string
	CacheStore      string
	MailConfigured  bool
	RedisPresent    bool
	AWSS3Present    bool
}

// Load reads composer.json, package.json and .env from root. Missing files
// are not errors; a manifest that is not valid JSON is treated as empty.
func Load(root string) (*Meta, error) {
	m := &Meta{RootPath: root, LaravelVersion: Unknown, psr4: map[string][]string{}}

	composer, found, err := readJSON(filepath.Join(root, "composer.json"))
	if err != nil {
		return nil, err
	}
	if found {
		m.loadComposer(composer)
	}

	pkg, found, err := readJSON(filepath.Join(root, "package.json"))
	if err != nil {
		return nil, err
	}
	if found {
		m.Package = pick(pkg, packageKeys)
	}

	env, err := readEnv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	m.Env = summarize(env)
	return m, nil
}

func (m *Meta) loadComposer(data map[string]any) {
	m.Composer = pick(data, composerKeys)
	for _, key := range autoloadKeys {
		section, ok := data[key].(map[string]any)
		if !ok {
			continue
		}
		prefixes, ok := section["psr-4"].(map[string]any)
		if !ok {
			continue
		}
		m.Composer[key] = map[string]any{"psr-4": prefixes}
		for ns, dirs := range prefixes {
			m.psr4[ns] = append(m.psr4[ns], stringList(dirs)...)
		}
	}

	require, _ := data["require"].(map[string]any)
	if v, ok := require["laravel/framework"].(string); ok {
		m.LaravelVersion = stripConstraint(v)
	}
	if v, ok := require["php"].(string); ok {
		if match := phpVersionRe.FindStringSubmatch(stripConstraint(v)); match != nil {
			m.PHPVersion = match[1]
		}
	}
}

// PSR4 returns the merged autoload and autoload-dev PSR-4 prefixes.
func (m *Meta) PSR4() map[string][]string {
	return m.psr4
}

// Fields returns the metadata block as it appears under "meta".
func (m *Meta) Fields() map[string]any {
	out := map[string]any{
		"root_path":       m.RootPath,
		"laravel_version": m.LaravelVersion,
		"env":             m.Env.Fields(),
	}
	if m.Composer != nil {
		out["composer.json"] = m.Composer
	}
	if m.PHPVersion != "" {
		out["php_version_required"] = m.PHPVersion
	}
	if m.Package != nil {
		out["package.json"] = m.Package
	}
	return out
}

// Fields returns the env summary keys.
func (e Env) Fields() map[string]any {
	return map[string]any{
		"app_name":         e.AppName,
		"app_env":          e.AppEnv,
		"app_debug":        e.AppDebug,
		"db_connection":    e.DBConnection,
		"session_driver":   e.SessionDriver,
		"queue_connection": e.QueueConnection,
		"cache_store":      e.CacheStore,
		"mail_configured":  e.MailConfigured,
		"redis_present":    e.RedisPresent,
		"aws_s3_present":   e.AWSS3Present,
	}
}

// summarize reads the allow-listed .env keys with their defaults. Redis and
// S3 presence are the exception: they are detected from every key, so
// variables such as CACHE_REDIS_DB or LEGACY_AWS_BUCKET count even though
// nothing else about them is reported.
func summarize(env map[string]string) Env {
	get := func(key, def string) string {
		if v, ok := env[key]; ok {
			return v
		}
		return def
	}
	e := Env{
		AppName:         get("APP_NAME", "Not Set"),
		AppEnv:          get("APP_ENV", "local"),
		AppDebug:        get("APP_DEBUG", "false") == "true",
		DBConnection:    get("DB_CONNECTION", "mysql"),
		SessionDriver:   get("SESSION_DRIVER", "file"),
		QueueConnection: get("QUEUE_CONNECTION", "sync"),
		CacheStore:      get("CACHE_STORE", "file"),
	}
	if mailer, ok := env["MAIL_MAILER"]; ok && mailer != "log" {
		e.MailConfigured = true
	}
	for key := range env {
		if strings.Contains(key, "REDIS") {
			e.RedisPresent = true
		}
		if strings.Contains(key, "AWS_BUCKET") {
			e.AWSS3Present = true
		}
	}
	return e
}

// readJSON decodes a JSON object file. found is false when the file does
// not exist.
func readJSON(path string) (data map[string]any, found bool, err error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		return map[string]any{}, true, nil
	}
	return data, true, nil
}

// readEnv parses a dotenv file. A missing or malformed file yields no
// variables.
func readEnv(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, nil
	}
	return env, nil
}

func pick(data map[string]any, keys []string) map[string]any {
	out := map[string]any{}
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			out[k] = v
		}
	}
	return out
}

func stripConstraint(v string) string {
	return strings.NewReplacer("^", "", "~", "").Replace(v)
}

// stringList accepts the single-directory and list forms of a PSR-4 entry.
func stringList(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
