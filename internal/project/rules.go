package project

import (
	"strings"

	"github.com/phobologic/laraguide/internal/analyze"
)

// Rule routes PHP files under a path prefix to a classifier.
type Rule struct {
	Prefix     string
	Classifier analyze.Classifier
}

// DefaultRules returns the conventional Laravel folder layout, in match
// order.
func DefaultRules(a *analyze.Analyzer) []Rule {
	return []Rule{
		{"database/migrations/", analyze.ClassifierFunc(a.Migration)},
		{"app/Enums/", analyze.ClassifierFunc(a.Enum)},
		{"app/Models/", analyze.ClassifierFunc(a.Model)},
		{"app/Http/Controllers/", analyze.ClassifierFunc(a.Controller)},
		{"app/Http/Requests/", analyze.ClassifierFunc(a.Request)},
		{"app/Console/Commands/", analyze.ClassifierFunc(a.Command)},
		{"app/Http/Resources/", analyze.ClassifierFunc(a.Resource)},
		{"app/Jobs/", analyze.ClassifierFunc(a.Job)},
		{"app/Listeners/", analyze.ClassifierFunc(a.Listener)},
		{"app/Events/", analyze.ClassifierFunc(a.Event)},
	}
}

// route returns the classifier for a relative PHP path, falling back to
// generic.
func route(rules []Rule, generic analyze.Classifier, rel string) analyze.Classifier {
	for _, r := range rules {
		if strings.HasPrefix(rel, r.Prefix) {
			return r.Classifier
		}
	}
	return generic
}
