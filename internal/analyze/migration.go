package analyze

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

const (
	migrationMissing = "No Migration class found in the file."
	migrationEmpty   = "Unable to parse the PHP file."
)

var schemaFacades = []string{"Schema", `Illuminate\Support\Facades\Schema`}

var (
	foreignKeyCalls = []string{"foreign", "constrained"}
	indexCalls      = []string{"index", "unique", "primary", "spatialIndex"}
)

// Migration classifies a schema migration, named or returned as an
// anonymous class.
func (a *Analyzer) Migration(path string) model.Summary {
	s := a.withFile(path, func(f *parse.File) model.Summary {
		var mig *parse.ClassLike
		f.Scan(func(c *parse.ClassLike) bool {
			if c.Kind == parse.KindClass && contains(a.bases.Migration, c.Parent()) {
				mig = c
				return true
			}
			return false
		})
		if mig == nil {
			return model.Missing{Message: migrationMissing}
		}
		return migration(mig)
	})
	if fail, ok := s.(model.Failure); ok && fail.Message == emptyMessage {
		return model.Failure{Message: migrationEmpty}
	}
	return s
}

func migration(c *parse.ClassLike) model.Migration {
	s := model.Migration{
		Operation: model.UnknownOperation,
		Rollback:  model.UnknownOperation,
		Anonymous: c.Anonymous,
	}

	if up := c.Method("up"); up != nil {
		first := true
		for _, call := range schemaCalls(c, up) {
			if first {
				first = false
				switch call.Name {
				case "create":
					s.Operation = model.CreateTable
				case "table":
					s.Operation = model.ModifyTable
				case "drop", "dropIfExists":
					s.Operation = model.DropTable
				}
				if name, ok := c.String(call.Arg(0)); ok {
					s.TableName = &name
				}
			}
			body, ok := parse.ClosureStatements(call.Arg(1))
			if !ok {
				continue
			}
			for _, stmt := range body {
				chain := callChain(c, parse.Expression(stmt))
				if len(chain) == 0 {
					continue
				}
				s.Columns++
				if containsAny(chain, foreignKeyCalls) {
					s.ForeignKeys++
				}
				if containsAny(chain, indexCalls) {
					s.Indexes++
				}
			}
		}
	}

	if down := c.Method("down"); down != nil {
		if calls := schemaCalls(c, down); len(calls) > 0 {
			switch calls[0].Name {
			case "drop", "dropIfExists":
				s.Rollback = model.DropTable
			case "table":
				s.Rollback = model.ModifyTable
			}
		}
	}
	return s
}

// schemaCalls returns the Schema facade calls made as statements of m.
func schemaCalls(c *parse.ClassLike, m *parse.Method) []parse.Call {
	var out []parse.Call
	for _, stmt := range m.Statements() {
		call, ok := c.Call(parse.Expression(stmt))
		if ok && call.Kind == parse.StaticCall && contains(schemaFacades, call.Class) {
			out = append(out, call)
		}
	}
	return out
}

// callChain returns the method names of a fluent member-call chain such as
// $table->foreignId('x')->constrained(), outermost first. It is empty when
// expr is not a member call.
func callChain(c *parse.ClassLike, expr *sitter.Node) []string {
	var names []string
	for {
		call, ok := c.Call(expr)
		if !ok || call.Kind != parse.MemberCall {
			return names
		}
		names = append(names, call.Name)
		expr = call.Object
	}
}

func containsAny(list, want []string) bool {
	for _, w := range want {
		if contains(list, w) {
			return true
		}
	}
	return false
}
