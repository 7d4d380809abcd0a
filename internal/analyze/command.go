package analyze

import (
	"regexp"

	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

var (
	signatureArgRe    = regexp.MustCompile(`\{\s*([a-zA-Z0-9_]+)\s*(?:[?*]|\*?\s*=[^}]*)?\s*(?::[^}]*)?\}`)
	signatureOptionRe = regexp.MustCompile(`--([a-zA-Z0-9_-]+)`)
)

var commandRole = role{flag: "is_artisan_command", folder: "Commands", kinds: classOnly}

// Command classifies an artisan console command.
func (a *Analyzer) Command(path string) model.Summary {
	return a.classify(path, commandRole,
		func(c *parse.ClassLike) bool {
			return contains(a.bases.Command, c.Parent())
		},
		func(c *parse.ClassLike) model.Summary {
			s := model.Command{
				Name:        stringProperty(c, "signature"),
				Description: stringProperty(c, "description"),
				HasHandle:   c.Method("handle") != nil,
				Traits:      c.Traits(),
			}
			if s.Name != nil {
				s.ArgumentCount, s.OptionCount = countSignature(*s.Name)
			}
			return s
		})
}

// countSignature counts the positional arguments and options declared in
// a command signature such as "mail:send {user} {--queue=}".
func countSignature(sig string) (args, options int) {
	return len(signatureArgRe.FindAllString(sig, -1)), len(signatureOptionRe.FindAllString(sig, -1))
}

// stringProperty returns the string literal assigned to the first property
// with the given name that has one.
func stringProperty(c *parse.ClassLike, name string) *string {
	for _, p := range c.Properties() {
		if p.Name != name {
			continue
		}
		if v, ok := c.String(p.Default); ok {
			return &v
		}
	}
	return nil
}
