package analyze

import (
	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

// Summarize reports the first class, interface or trait of any PHP file.
// It is the classifier for files outside the role folders.
func (a *Analyzer) Summarize(path string) model.Summary {
	return a.withFile(path, func(f *parse.File) model.Summary {
		c := f.FirstDeclaration(parse.KindClass, parse.KindInterface, parse.KindTrait)
		if c == nil {
			return model.PlainFile{}
		}
		return declaration(c)
	})
}

func declaration(c *parse.ClassLike) model.Declaration {
	d := model.Declaration{
		Kind:            string(c.Kind),
		Name:            c.Name,
		Traits:          c.Traits(),
		ConstructorDeps: constructorDeps(c),
	}
	switch c.Kind {
	case parse.KindClass:
		if p := c.Parent(); p != "" {
			d.Extends = []string{p}
		}
		d.Implements = c.Implements
	case parse.KindInterface:
		d.Extends = c.Extends
	}
	for _, m := range c.Members {
		switch m.(type) {
		case *parse.Method:
			d.MethodCount++
		case *parse.Property:
			d.PropertyCount++
		}
	}
	return d
}
