package analyze

import (
	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

const dispatchableTrait = `Illuminate\Foundation\Events\Dispatchable`

var broadcastInterfaces = []string{
	`Illuminate\Contracts\Broadcasting\ShouldBroadcast`,
	`Illuminate\Contracts\Broadcasting\ShouldBroadcastNow`,
}

var eventRole = role{flag: "is_event", folder: "Events", kinds: classOnly}

// Event classifies a domain event.
func (a *Analyzer) Event(path string) model.Summary {
	return a.classify(path, eventRole, isEvent,
		func(c *parse.ClassLike) model.Summary {
			s := model.Event{
				Name:             c.Name,
				Broadcastable:    c.ImplementsAny(broadcastInterfaces...),
				HasBroadcastOn:   c.Method("broadcastOn") != nil,
				HasBroadcastWith: c.Method("broadcastWith") != nil,
				HasBroadcastAs:   c.Method("broadcastAs") != nil,
				ConstructorDeps:  constructorDeps(c),
			}
			var types []string
			for _, p := range c.Properties() {
				if !p.Visibility.IsPublic() {
					continue
				}
				s.PublicPropertyCount++
				if p.Type != nil {
					types = append(types, c.FormatType(p.Type))
				}
			}
			for _, p := range promotedPublic(c) {
				s.PublicPropertyCount++
				if p.Type != nil {
					types = append(types, c.FormatType(p.Type))
				}
			}
			s.PublicPropertyTypes = unique(types)
			return s
		})
}

// isEvent looks for any trait of an event: public state, the dispatchable
// trait, or broadcasting.
func isEvent(c *parse.ClassLike) bool {
	for _, p := range c.Properties() {
		if p.Visibility.IsPublic() {
			return true
		}
	}
	return len(promotedPublic(c)) > 0 ||
		c.UsesAny(dispatchableTrait) ||
		c.Method("broadcastOn") != nil ||
		c.ImplementsAny(broadcastInterfaces...)
}

func promotedPublic(c *parse.ClassLike) []*parse.Param {
	ctor := c.Method("__construct")
	if ctor == nil {
		return nil
	}
	var out []*parse.Param
	for _, p := range ctor.Params {
		if p.Promoted && p.Visibility.IsPublic() {
			out = append(out, p)
		}
	}
	return out
}
