package parse

import (
	"maps"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/laraguide/internal/lang"
)

// Scope is the namespace and class imports in effect at a declaration.
type Scope struct {
	Namespace string
	aliases   map[string]string
}

// NewScope returns an empty scope for the given namespace.
func NewScope(namespace string) *Scope {
	return &Scope{Namespace: namespace, aliases: map[string]string{}}
}

// Import records a class import. An empty alias uses the last segment of name.
func (s *Scope) Import(name, alias string) {
	name = strings.TrimPrefix(name, `\`)
	if alias == "" {
		alias = lastSegment(name)
	}
	s.aliases[strings.ToLower(alias)] = name
}

// Resolve turns a class reference as written in source into a fully
// qualified name without a leading backslash. self, parent and static are
// returned unchanged.
func (s *Scope) Resolve(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, `\`) {
		return name[1:]
	}
	switch strings.ToLower(name) {
	case "self", "parent", "static":
		return name
	}
	if rest, ok := cutFold(name, `namespace\`); ok {
		return s.qualify(rest)
	}

	first, rest, nested := strings.Cut(name, `\`)
	if full, ok := s.aliases[strings.ToLower(first)]; ok {
		if nested {
			return full + `\` + rest
		}
		return full
	}
	return s.qualify(name)
}

func (s *Scope) qualify(name string) string {
	if s.Namespace == "" {
		return name
	}
	return s.Namespace + `\` + name
}

func (s *Scope) clone() *Scope {
	return &Scope{Namespace: s.Namespace, aliases: maps.Clone(s.aliases)}
}

// addUse records the class imports of a namespace_use_declaration.
// Function and constant imports are skipped.
func (s *Scope) addUse(n *sitter.Node, source []byte) {
	if hasToken(n, "function") || hasToken(n, "const") {
		return
	}
	if group := childOfType(n, nodeUseGroup); group != nil {
		prefix := ""
		if p := childOfType(n, nodeNamespaceName, nodeQualifiedName, nodeName); p != nil {
			prefix = strings.Trim(lang.NodeText(p, source), `\`)
		}
		for _, clause := range namedChildren(group) {
			switch clause.Type() {
			case nodeUseClause, nodeUseGroupClause:
				s.addClause(clause, prefix, source)
			}
		}
		return
	}
	for _, clause := range namedChildren(n) {
		if clause.Type() == nodeUseClause {
			s.addClause(clause, "", source)
		}
	}
}

func (s *Scope) addClause(clause *sitter.Node, prefix string, source []byte) {
	if hasToken(clause, "function") || hasToken(clause, "const") {
		return
	}
	var names []*sitter.Node
	var alias string
	for i := 0; i < int(clause.ChildCount()); i++ {
		c := clause.Child(i)
		if c == nil || !c.IsNamed() {
			continue
		}
		switch {
		case clause.FieldNameForChild(i) == "alias":
			alias = lang.NodeText(c, source)
		case c.Type() == nodeAliasingClause:
			if a := childOfType(c, nodeName); a != nil {
				alias = lang.NodeText(a, source)
			}
		case isNameNode(c):
			names = append(names, c)
		}
	}
	if len(names) == 0 {
		return
	}
	if alias == "" && len(names) > 1 && hasToken(clause, "as") {
		alias = lang.NodeText(names[len(names)-1], source)
	}

	full := strings.TrimPrefix(lang.NodeText(names[0], source), `\`)
	if prefix != "" {
		full = prefix + `\` + full
	}
	s.Import(full, alias)
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

func cutFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

