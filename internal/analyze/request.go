package analyze

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

var requestRole = role{flag: "is_form_request", folder: "Requests", kinds: classOnly}

// gateClasses are the names under which the authorization gate is called
// statically.
var gateClasses = []string{"Gate", `Illuminate\Support\Facades\Gate`, `Illuminate\Contracts\Auth\Access\Gate`}

var gateChecks = []string{"allows", "denies", "check", "any", "none", "authorize"}

// Request classifies a form request.
func (a *Analyzer) Request(path string) model.Summary {
	return a.classify(path, requestRole,
		func(c *parse.ClassLike) bool {
			return a.isFormRequest(c.Parent())
		},
		func(c *parse.ClassLike) model.Summary {
			s := model.FormRequest{
				HasCustomMessages:   hasCustomBody(c, "messages"),
				HasCustomAttributes: hasCustomBody(c, "attributes"),
				Authorization:       authorization(c),
			}
			if m := c.Method("rules"); m != nil {
				s.RuleCount = returnedArrayCount(c, m)
			}
			return s
		})
}

// isFormRequest reports whether class is a form request base or one of its
// declared subclasses.
func (a *Analyzer) isFormRequest(class string) bool {
	if class == "" {
		return false
	}
	return a.extendsAny(class, a.bases.Request)
}

// hasCustomBody reports whether the method does anything besides
// returning an empty array.
func hasCustomBody(c *parse.ClassLike, name string) bool {
	m := c.Method(name)
	if m == nil {
		return false
	}
	for _, stmt := range m.Statements() {
		if expr, ok := parse.Returned(stmt); ok {
			if items, ok := c.Array(expr); ok && len(items) == 0 {
				continue
			}
		}
		return true
	}
	return false
}

// authorization classifies the authorize method by its first return.
func authorization(c *parse.ClassLike) model.Authorization {
	m := c.Method("authorize")
	if m == nil {
		return model.NotImplemented
	}
	stmts := m.Statements()
	if len(stmts) == 0 {
		return model.NotImplemented
	}
	for _, stmt := range stmts {
		expr, ok := parse.Returned(stmt)
		if !ok {
			continue
		}
		if v, ok := c.Bool(expr); ok {
			if v {
				return model.AlwaysTrue
			}
			return model.AlwaysFalse
		}
		if isPermissionCheck(c, expr) {
			return model.PolicyOrGateCheck
		}
		return model.CustomLogic
	}
	return model.CustomLogic
}

// isPermissionCheck matches `$this->user()->can(...)` style checks on the
// current user and static gate checks.
func isPermissionCheck(c *parse.ClassLike, expr *sitter.Node) bool {
	call, ok := c.Call(expr)
	if !ok {
		return false
	}
	switch call.Kind {
	case parse.MemberCall:
		if call.Name != "can" && call.Name != "cannot" {
			return false
		}
		recv, ok := c.Call(call.Object)
		return ok && recv.Name == "user" && recv.Kind != parse.StaticCall
	case parse.StaticCall:
		return contains(gateClasses, call.Class) && contains(gateChecks, call.Name)
	}
	return false
}
