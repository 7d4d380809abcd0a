package analyze

import (
	"github.com/phobologic/laraguide/internal/model"
	"github.com/phobologic/laraguide/internal/parse"
)

const enumMissing = "PHP file in the Enums folder does not contain an enum declaration."

// Enum classifies an enum. Every enum passes; a file without one reports
// only an error.
func (a *Analyzer) Enum(path string) model.Summary {
	return a.withFile(path, func(f *parse.File) model.Summary {
		c := f.FirstDeclaration(parse.KindEnum)
		if c == nil {
			return model.Missing{Message: enumMissing}
		}
		return model.Enum{
			BackedType:  c.BackingType,
			CaseCount:   len(c.Cases()),
			MethodCount: len(c.Methods()),
		}
	})
}
