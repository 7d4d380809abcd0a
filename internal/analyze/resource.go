package analyze

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

var resourceRole = role{flag: "is_api_resource", folder: "Resources", kinds: classOnly}

// conditionalCalls are the JsonResource helpers that include a value only
// when a condition holds.
var conditionalCalls = []string{"when", "whenLoaded"}

// resourceFactories are the static constructors of a resource class.
var resourceFactories = []string{"collection", "make"}

var resourceBuiltins = []string{"toArray", "__construct", "__invoke"}

// Resource classifies an API resource transformer.
func (a *Analyzer) Resource(path string) model.Summary {
	return a.classify(path, resourceRole,
		func(c *parse.ClassLike) bool {
			return a.resourceKind(c) != ""
		},
		func(c *parse.ClassLike) model.Summary {
			s := model.Resource{Name: c.Name, Kind: a.resourceKind(c)}
			for _, m := range c.Methods() {
				if m.Visibility.IsPublic() && !contains(resourceBuiltins, m.Name) {
					s.AdditionalMethods++
				}
			}
			switch s.Kind {
			case model.SingleResource:
				if m := c.Method("toArray"); m != nil {
					items := returnedArray(c, m)
					s.AttributeCount = len(items)
					s.Relations, s.UsesConditionals = relations(c, items)
				}
			case model.CollectionResource:
				s.Wraps = collects(c)
			}
			return s
		})
}

func (a *Analyzer) resourceKind(c *parse.ClassLike) model.ResourceKind {
	parent := c.Parent()
	switch {
	case contains(a.bases.Resource, parent):
		return model.SingleResource
	case contains(a.bases.Collection, parent):
		return model.CollectionResource
	}
	return ""
}

// relations collects the resource classes used to transform relations in
// a toArray result, and whether any entry is conditional.
func relations(c *parse.ClassLike, items []*sitter.Node) (names []string, conditional bool) {
	for _, item := range items {
		if cls, ok := c.New(item); ok {
			names = append(names, cls)
			continue
		}
		call, ok := c.Call(item)
		if !ok {
			continue
		}
		switch {
		case call.Kind == parse.MemberCall && contains(conditionalCalls, call.Name):
			conditional = true
			if cls, ok := c.New(call.Arg(1)); ok {
				names = append(names, cls)
			}
		case call.Kind == parse.StaticCall && contains(resourceFactories, call.Name) && call.Class != "":
			names = append(names, call.Class)
			if inner, ok := c.Call(call.Arg(0)); ok && inner.Kind == parse.MemberCall && contains(conditionalCalls, inner.Name) {
				conditional = true
			}
		}
	}
	return unique(names), conditional
}

// collects returns the resource class a collection wraps, from its
// $collects property.
func collects(c *parse.ClassLike) string {
	for _, p := range c.Properties() {
		if p.Name != "collects" {
			continue
		}
		if v, ok := c.String(p.Default); ok {
			return v
		}
		if cls, ok := c.New(p.Default); ok {
			return cls
		}
		if cls, ok := c.ClassConstant(p.Default); ok {
			return cls
		}
	}
	return ""
}
