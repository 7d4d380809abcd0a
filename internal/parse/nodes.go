package parse

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node types of the tree-sitter PHP grammar.
const (
	nodeError             = "ERROR"
	nodePHPTag            = "php_tag"
	nodeComment           = "comment"
	nodeTextInterpolation = "text_interpolation"

	nodeNamespaceDefinition = "namespace_definition"
	nodeNamespaceName       = "namespace_name"
	nodeUseDeclaration      = "namespace_use_declaration"
	nodeUseClause           = "namespace_use_clause"
	nodeUseGroup            = "namespace_use_group"
	nodeUseGroupClause      = "namespace_use_group_clause"
	nodeAliasingClause      = "namespace_aliasing_clause"

	nodeClass          = "class_declaration"
	nodeInterface      = "interface_declaration"
	nodeTrait          = "trait_declaration"
	nodeEnum           = "enum_declaration"
	nodeAnonymousClass = "anonymous_class"
	nodeBaseClause     = "base_clause"
	nodeInterfaceList  = "class_interface_clause"
	nodeDeclList       = "declaration_list"
	nodeEnumDeclList   = "enum_declaration_list"

	nodeMethod          = "method_declaration"
	nodeProperty        = "property_declaration"
	nodePropertyElement = "property_element"
	nodePropertyInit    = "property_initializer"
	nodeTraitUse        = "use_declaration"
	nodeEnumCase        = "enum_case"

	nodeSimpleParam   = "simple_parameter"
	nodePromotedParam = "property_promotion_parameter"
	nodeVariadicParam = "variadic_parameter"

	nodeVisibility = "visibility_modifier"
	nodeStatic     = "static_modifier"
	nodeAbstract   = "abstract_modifier"
	nodeReadonly   = "readonly_modifier"

	nodeName          = "name"
	nodeQualifiedName = "qualified_name"
	nodeRelativeScope = "relative_scope"
	nodeVariableName  = "variable_name"
	nodeByRef         = "by_ref"

	nodeNamedType        = "named_type"
	nodePrimitiveType    = "primitive_type"
	nodeOptionalType     = "optional_type"
	nodeUnionType        = "union_type"
	nodeIntersectionType = "intersection_type"
	nodeDNFType          = "disjunctive_normal_form_type"
	nodeBottomType       = "bottom_type"

	nodeReturn              = "return_statement"
	nodeExpressionStatement = "expression_statement"
	nodeCompound            = "compound_statement"
	nodeParenthesized       = "parenthesized_expression"
	nodeMemberCall          = "member_call_expression"
	nodeNullsafeMemberCall  = "nullsafe_member_call_expression"
	nodeScopedCall          = "scoped_call_expression"
	nodeFunctionCall        = "function_call_expression"
	nodeObjectCreation      = "object_creation_expression"
	nodeClassConstant       = "class_constant_access_expression"
	nodeArray               = "array_creation_expression"
	nodeArrayElement        = "array_element_initializer"
	nodeArguments           = "arguments"
	nodeArgument            = "argument"
	nodeString              = "string"
	nodeEncapsedString      = "encapsed_string"
	nodeStringContent       = "string_content"
	nodeStringValue         = "string_value"
	nodeEscapeSequence      = "escape_sequence"
	nodeInteger             = "integer"
	nodeBoolean             = "boolean"
	nodeNull                = "null"
	nodeClosure             = "anonymous_function"
	nodeClosureCreation     = "anonymous_function_creation_expression"
	nodeArrowFunction       = "arrow_function"
)

var typeNodes = map[string]bool{
	nodeNamedType:        true,
	nodePrimitiveType:    true,
	nodeOptionalType:     true,
	nodeUnionType:        true,
	nodeIntersectionType: true,
	nodeDNFType:          true,
	nodeBottomType:       true,
}

func isNameNode(n *sitter.Node) bool {
	switch n.Type() {
	case nodeName, nodeQualifiedName, nodeNamespaceName:
		return true
	}
	return false
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// hasToken reports whether n has a direct anonymous child with the given text.
func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && !c.IsNamed() && c.Type() == token {
			return true
		}
	}
	return false
}

func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range namedChildren(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

// statements returns the named children of a block, skipping comments.
func statements(block *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range namedChildren(block) {
		if c.Type() == nodeComment {
			continue
		}
		out = append(out, c)
	}
	return out
}

// unwrap strips parentheses around an expression.
func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == nodeParenthesized {
		inner := namedChildren(n)
		if len(inner) == 0 {
			return n
		}
		n = inner[0]
	}
	return n
}
