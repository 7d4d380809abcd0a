package parse

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// CallKind distinguishes the call expression forms.
type CallKind int

const (
	MemberCall CallKind = iota + 1
	StaticCall
	FunctionCall
)

// Call is a method, static or function call. For a static call Class is
// the resolved class name; for a member call Object is the receiver.
type Call struct {
	Kind   CallKind
	Name   string
	Class  string
	Object *sitter.Node
	Args   []*sitter.Node
}

// Call decodes n as a call expression. Calls with a dynamic method name
// are not decoded.
func (c *ClassLike) Call(n *sitter.Node) (Call, bool) {
	n = unwrap(n)
	if n == nil {
		return Call{}, false
	}
	var call Call
	switch n.Type() {
	case nodeMemberCall, nodeNullsafeMemberCall:
		call.Kind = MemberCall
		call.Object = unwrap(n.ChildByFieldName("object"))
	case nodeScopedCall:
		call.Kind = StaticCall
		scope := n.ChildByFieldName("scope")
		if scope == nil {
			return Call{}, false
		}
		call.Class = c.className(scope)
	case nodeFunctionCall:
		call.Kind = FunctionCall
		fn := n.ChildByFieldName("function")
		if fn == nil || !isNameNode(fn) {
			return Call{}, false
		}
		call.Name = c.Text(fn)
	default:
		return Call{}, false
	}
	if call.Kind != FunctionCall {
		name := n.ChildByFieldName("name")
		if name == nil || name.Type() != nodeName {
			return Call{}, false
		}
		call.Name = c.Text(name)
	}
	call.Args = arguments(n.ChildByFieldName("arguments"))
	return call, true
}

// Arg returns the i-th argument value, or nil.
func (call Call) Arg(i int) *sitter.Node {
	if i < 0 || i >= len(call.Args) {
		return nil
	}
	return call.Args[i]
}

// arguments returns the value node of each argument.
func arguments(list *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, a := range namedChildren(list) {
		if a.Type() != nodeArgument {
			continue
		}
		vals := namedChildren(a)
		if len(vals) == 0 {
			continue
		}
		out = append(out, unwrap(vals[len(vals)-1]))
	}
	return out
}

// className resolves a name used as a class reference. Dynamic references
// such as `$class::make()` yield "".
func (c *ClassLike) className(n *sitter.Node) string {
	switch n.Type() {
	case nodeName, nodeQualifiedName:
		return c.Scope.Resolve(c.Text(n))
	case nodeRelativeScope:
		return c.Text(n)
	}
	return ""
}

// New returns the resolved class instantiated by a `new X(...)`
// expression. Anonymous classes and dynamic class names are not reported.
func (c *ClassLike) New(n *sitter.Node) (string, bool) {
	n = unwrap(n)
	if n == nil || n.Type() != nodeObjectCreation || anonymousClass(n) != nil {
		return "", false
	}
	for _, child := range namedChildren(n) {
		if name := c.className(child); name != "" {
			return name, true
		}
	}
	return "", false
}

// ClassConstant returns the resolved class of an `X::class` expression.
func (c *ClassLike) ClassConstant(n *sitter.Node) (string, bool) {
	n = unwrap(n)
	if n == nil || n.Type() != nodeClassConstant {
		return "", false
	}
	parts := namedChildren(n)
	if len(parts) != 2 || !strings.EqualFold(c.Text(parts[1]), "class") {
		return "", false
	}
	name := c.className(parts[0])
	return name, name != ""
}

// Array returns the element values of an array literal.
func (c *ClassLike) Array(n *sitter.Node) ([]*sitter.Node, bool) {
	n = unwrap(n)
	if n == nil || n.Type() != nodeArray {
		return nil, false
	}
	out := []*sitter.Node{}
	for _, el := range namedChildren(n) {
		if el.Type() != nodeArrayElement {
			continue
		}
		vals := namedChildren(el)
		if len(vals) == 0 {
			continue
		}
		if hasToken(el, "=>") {
			out = append(out, unwrap(vals[len(vals)-1]))
		} else {
			out = append(out, unwrap(vals[0]))
		}
	}
	return out, true
}

// String returns the value of a string literal. Interpolated strings are
// not literals.
func (c *ClassLike) String(n *sitter.Node) (string, bool) {
	n = unwrap(n)
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case nodeString:
		raw := strings.TrimLeft(c.Text(n), "bB")
		if len(raw) < 2 {
			return "", false
		}
		body := raw[1 : len(raw)-1]
		if raw[0] == '"' {
			return unescapeDouble(body), true
		}
		return strings.NewReplacer(`\\`, `\`, `\'`, `'`).Replace(body), true
	case nodeEncapsedString:
		for _, part := range namedChildren(n) {
			switch part.Type() {
			case nodeStringContent, nodeStringValue, nodeEscapeSequence:
			default:
				return "", false
			}
		}
		raw := strings.TrimLeft(c.Text(n), "bB")
		if len(raw) < 2 {
			return "", false
		}
		return unescapeDouble(raw[1 : len(raw)-1]), true
	}
	return "", false
}

var doubleQuoted = strings.NewReplacer(
	`\\`, `\`, `\"`, `"`, `\$`, `$`,
	`\n`, "\n", `\t`, "\t", `\r`, "\r", `\v`, "\v", `\f`, "\f", `\e`, "\x1b",
)

func unescapeDouble(s string) string {
	return doubleQuoted.Replace(s)
}

// Int returns the value of an integer literal.
func (c *ClassLike) Int(n *sitter.Node) (int64, bool) {
	n = unwrap(n)
	if n == nil || n.Type() != nodeInteger {
		return 0, false
	}
	text := strings.ReplaceAll(c.Text(n), "_", "")
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Bool returns the value of a true or false literal.
func (c *ClassLike) Bool(n *sitter.Node) (bool, bool) {
	n = unwrap(n)
	if n == nil {
		return false, false
	}
	switch n.Type() {
	case nodeBoolean, nodeName, nodeQualifiedName:
		switch strings.ToLower(strings.TrimPrefix(c.Text(n), `\`)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// IsThis reports whether n is the $this variable.
func (c *ClassLike) IsThis(n *sitter.Node) bool {
	n = unwrap(n)
	return n != nil && n.Type() == nodeVariableName && c.Text(n) == "$this"
}

// Expression returns the expression of an expression statement, or nil
// for other statements.
func Expression(stmt *sitter.Node) *sitter.Node {
	if stmt == nil || stmt.Type() != nodeExpressionStatement {
		return nil
	}
	return firstExpr(stmt)
}

// Returned returns the expression of a return statement. ok is false for
// other statements; a bare `return;` yields a nil node.
func Returned(stmt *sitter.Node) (expr *sitter.Node, ok bool) {
	if stmt == nil || stmt.Type() != nodeReturn {
		return nil, false
	}
	return firstExpr(stmt), true
}

// ClosureStatements returns the body statements of a closure or of an
// arrow function's single expression.
func ClosureStatements(n *sitter.Node) ([]*sitter.Node, bool) {
	n = unwrap(n)
	if n == nil {
		return nil, false
	}
	switch n.Type() {
	case nodeClosure, nodeClosureCreation:
		body := n.ChildByFieldName("body")
		if body == nil {
			body = childOfType(n, nodeCompound)
		}
		return statements(body), true
	case nodeArrowFunction:
		return nil, true
	}
	return nil, false
}
