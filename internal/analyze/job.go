package analyze

import (
	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

const shouldQueue = `Illuminate\Contracts\Queue\ShouldQueue`

var jobRole = role{flag: "is_job", folder: "Jobs", kinds: classOnly}

// Job classifies a queued job.
func (a *Analyzer) Job(path string) model.Summary {
	return a.classify(path, jobRole,
		func(c *parse.ClassLike) bool {
			return c.ImplementsAny(shouldQueue)
		},
		func(c *parse.ClassLike) model.Summary {
			s := model.Job{
				Name:            c.Name,
				Implements:      c.Implements,
				ConstructorDeps: constructorDeps(c),
				HasHandle:       c.Method("handle") != nil,
				HasFailed:       c.Method("failed") != nil,
				HasDisplayName:  c.Method("displayName") != nil,
				HasTags:         c.Method("tags") != nil,
				Queue:           queueSettings(c),
			}
			for _, p := range c.Properties() {
				if p.Visibility.IsPublic() {
					s.PublicPropertyCount++
				}
			}
			return s
		})
}

// queueSettings reads the integer literal defaults of the properties the
// queue worker honours.
func queueSettings(c *parse.ClassLike) model.QueueSettings {
	var q model.QueueSettings
	for _, p := range c.Properties() {
		v, ok := c.Int(p.Default)
		if !ok {
			continue
		}
		switch p.Name {
		case "tries":
			q.Tries = &v
		case "timeout":
			q.Timeout = &v
		case "maxExceptions":
			q.MaxExceptions = &v
		}
	}
	return q
}
