package analyze

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

var relationTypes = map[string]bool{
	`Illuminate\Database\Eloquent\Relations\HasOne`:         true,
	`Illuminate\Database\Eloquent\Relations\HasMany`:        true,
	`Illuminate\Database\Eloquent\Relations\BelongsTo`:      true,
	`Illuminate\Database\Eloquent\Relations\BelongsToMany`:  true,
	`Illuminate\Database\Eloquent\Relations\MorphTo`:        true,
	`Illuminate\Database\Eloquent\Relations\MorphOne`:       true,
	`Illuminate\Database\Eloquent\Relations\MorphMany`:      true,
	`Illuminate\Database\Eloquent\Relations\MorphToMany`:    true,
	`Illuminate\Database\Eloquent\Relations\HasOneThrough`:  true,
	`Illuminate\Database\Eloquent\Relations\HasManyThrough`: true,
}

var modelRole = role{flag: "is_eloquent_model", folder: "Models", kinds: classOnly}

// Model classifies an Eloquent model.
func (a *Analyzer) Model(path string) model.Summary {
	return a.classify(path, modelRole,
		func(c *parse.ClassLike) bool {
			return contains(a.bases.Model, c.Parent())
		},
		func(c *parse.ClassLike) model.Summary {
			s := model.EloquentModel{
				TableName:     tableName(c),
				FillableCount: propertyArrayCount(c, "fillable"),
				GuardedCount:  propertyArrayCount(c, "guarded"),
				TraitCount:    len(c.Traits()),
			}
			if n, ok := arrayPropertyCount(c, "casts"); ok {
				s.CastsCount = n
			} else if m := c.Method("casts"); m != nil {
				s.CastsCount = returnedArrayCount(c, m)
			}
			for _, m := range c.Methods() {
				if m.ReturnType != nil && relationTypes[c.FormatType(m.ReturnType)] {
					s.RelationshipCount++
				}
				if m.Visibility.IsPublic() && strings.HasPrefix(m.Name, "scope") && len(m.Name) > 5 {
					s.ScopeCount++
				}
			}
			return s
		})
}

// tableName returns the $table literal, or the snake_case class name with
// its last word pluralized, as Eloquent derives it by default.
func tableName(c *parse.ClassLike) string {
	if p := c.Property("table"); p != nil {
		if v, ok := c.String(p.Default); ok {
			return v
		}
	}
	return defaultTable(c.Name)
}

// defaultTable pluralizes only the last word, in lower case, so irregular
// and uncountable nouns resolve ("Person" is "people").
func defaultTable(class string) string {
	name := snake(class)
	i := strings.LastIndexByte(name, '_')
	return name[:i+1] + inflect.Pluralize(name[i+1:])
}

// snake converts StudlyCase to snake_case the way Laravel's Str::snake does.
func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// arrayPropertyCount returns the size of the first array literal assigned
// to a property with the given name.
func arrayPropertyCount(c *parse.ClassLike, name string) (int, bool) {
	for _, p := range c.Properties() {
		if p.Name != name {
			continue
		}
		if items, ok := c.Array(p.Default); ok {
			return len(items), true
		}
	}
	return 0, false
}

func propertyArrayCount(c *parse.ClassLike, name string) int {
	n, _ := arrayPropertyCount(c, name)
	return n
}

// returnedArrayCount is the size of the first array literal returned
// directly from the method body.
func returnedArrayCount(c *parse.ClassLike, m *parse.Method) int {
	if items := returnedArray(c, m); items != nil {
		return len(items)
	}
	return 0
}

func returnedArray(c *parse.ClassLike, m *parse.Method) []*sitter.Node {
	for _, stmt := range m.Statements() {
		expr, ok := parse.Returned(stmt)
		if !ok {
			continue
		}
		if items, ok := c.Array(expr); ok {
			return items
		}
	}
	return nil
}
