package analyze

import (
	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

// resourceActions are the methods of a Laravel resource controller.
var resourceActions = []string{"index", "create", "store", "show", "edit", "update", "destroy"}

var controllerRole = role{flag: "is_controller", folder: "Controllers", kinds: classOnly}

// Controller classifies an HTTP controller.
func (a *Analyzer) Controller(path string) model.Summary {
	return a.classify(path, controllerRole,
		func(c *parse.ClassLike) bool {
			return contains(a.bases.Controller, c.Parent())
		},
		func(c *parse.ClassLike) model.Summary {
			return model.Controller{
				MethodCount:      len(c.Methods()),
				Coverage:         resourceCoverage(c),
				MiddlewareCount:  middlewareCount(c),
				UsesFormRequests: a.usesFormRequests(c),
			}
		})
}

func resourceCoverage(c *parse.ClassLike) model.ResourceCoverage {
	found := map[string]bool{}
	for _, m := range c.Methods() {
		if m.Visibility.IsPublic() && contains(resourceActions, m.Name) {
			found[m.Name] = true
		}
	}
	switch {
	case len(found) == len(resourceActions):
		return model.FullResource
	case len(found) > 0:
		return model.PartialResource
	}
	return model.NoResource
}

// middlewareCount adds the entries of a $middleware property to the
// $this->middleware(...) statements of the constructor. A class using both
// idioms for the same middleware counts it twice.
func middlewareCount(c *parse.ClassLike) int {
	count := 0
	for _, p := range c.Properties() {
		if p.Name != "middleware" {
			continue
		}
		if items, ok := c.Array(p.Default); ok {
			count += len(items)
		} else if _, ok := c.String(p.Default); ok {
			count++
		}
	}
	if ctor := c.Method("__construct"); ctor != nil {
		for _, stmt := range ctor.Statements() {
			call, ok := c.Call(parse.Expression(stmt))
			if ok && call.Kind == parse.MemberCall && call.Name == "middleware" && c.IsThis(call.Object) {
				count++
			}
		}
	}
	return count
}

// usesFormRequests reports whether a public method takes a parameter whose
// plain class type is a form request.
func (a *Analyzer) usesFormRequests(c *parse.ClassLike) bool {
	for _, m := range c.Methods() {
		if !m.Visibility.IsPublic() {
			continue
		}
		for _, p := range m.Params {
			if !parse.IsPlainType(p.Type) {
				continue
			}
			if a.isFormRequest(c.FormatType(p.Type)) {
				return true
			}
		}
	}
	return false
}
