package analyze

import (
	"strings"

	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

var listenerRole = role{flag: "is_listener", folder: "Listeners", kinds: classOnly}

// Listener classifies an event listener.
func (a *Analyzer) Listener(path string) model.Summary {
	return a.classify(path, listenerRole,
		func(c *parse.ClassLike) bool {
			for _, m := range c.Methods() {
				if m.Visibility.IsPublic() && (m.Name == "handle" || isMultiHandle(m.Name)) {
					return true
				}
			}
			return false
		},
		func(c *parse.ClassLike) model.Summary {
			s := model.Listener{
				Name:            c.Name,
				Queued:          c.ImplementsAny(shouldQueue),
				ConstructorDeps: constructorDeps(c),
				HasHandle:       c.Method("handle") != nil,
			}
			var events []string
			for _, m := range c.Methods() {
				if !m.Visibility.IsPublic() {
					continue
				}
				switch {
				case m.Name == "handle":
				case isMultiHandle(m.Name):
					s.MultiHandleMethods = append(s.MultiHandleMethods, m.Name)
				default:
					continue
				}
				if len(m.Params) > 0 && m.Params[0].Type != nil {
					events = append(events, c.FormatType(m.Params[0].Type))
				}
			}
			s.Events = unique(events)
			if s.Queued {
				s.Queue = queueSettings(c)
			}
			return s
		})
}

// isMultiHandle matches handleSomething methods of subscribers.
func isMultiHandle(name string) bool {
	return strings.HasPrefix(name, "handle") && len(name) > len("handle")
}
