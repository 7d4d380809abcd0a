package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/laraguide/internal/lang"
)

// FormatType renders a type declaration node as a normalized string. Class
// names are resolved against the scope; nullable, union and intersection
// types keep their ?, | and & markers. A nil node yields "".
func (s *Scope) FormatType(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case nodeNamedType:
		if name := childOfType(n, nodeName, nodeQualifiedName, nodeRelativeScope); name != nil {
			return s.Resolve(lang.NodeText(name, source))
		}
		return s.Resolve(lang.NodeText(n, source))
	case nodeName, nodeQualifiedName:
		return s.Resolve(lang.NodeText(n, source))
	case nodePrimitiveType, nodeRelativeScope:
		return lang.NodeText(n, source)
	case nodeBottomType:
		return "never"
	case nodeOptionalType:
		inner := namedChildren(n)
		if len(inner) == 0 {
			return "?mixed"
		}
		return "?" + s.FormatType(inner[0], source)
	case nodeUnionType, nodeDNFType:
		return s.joinTypes(n, "|", source)
	case nodeIntersectionType:
		return s.joinTypes(n, "&", source)
	}
	return lang.CollapseWhitespace(lang.NodeText(n, source))
}

func (s *Scope) joinTypes(n *sitter.Node, sep string, source []byte) string {
	var parts []string
	for _, c := range namedChildren(n) {
		if c.Type() == nodeComment {
			continue
		}
		parts = append(parts, s.FormatType(c, source))
	}
	if len(parts) == 0 {
		return "mixed"
	}
	return strings.Join(parts, sep)
}

// IsPlainType reports whether n is a single class or builtin type, as
// opposed to a nullable, union or intersection type.
func IsPlainType(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case nodeNamedType, nodePrimitiveType, nodeName, nodeQualifiedName:
		return true
	case nodeUnionType:
		// Some grammar versions wrap a lone type in a union node.
		inner := namedChildren(n)
		return len(inner) == 1 && IsPlainType(inner[0])
	}
	return false
}
