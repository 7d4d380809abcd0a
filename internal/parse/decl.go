package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind is the kind of a class-like declaration.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindTrait     Kind = "trait"
	KindEnum      Kind = "enum"
)

var declKinds = map[string]Kind{
	nodeClass:     KindClass,
	nodeInterface: KindInterface,
	nodeTrait:     KindTrait,
	nodeEnum:      KindEnum,
}

// Visibility is a member's access modifier.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// ClassLike is a class, interface, trait or enum declaration. All names are
// fully qualified against the scope in effect where it was declared.
type ClassLike struct {
	Kind      Kind
	Name      string
	Anonymous bool
	Abstract  bool

	// Extends holds the parent class, or the parent interfaces of an interface.
	Extends     []string
	Implements  []string
	BackingType string
	Members     []Member
	Scope       *Scope

	file *File
}

// Member is one entry of a declaration body: *Method, *Property,
// *TraitUse or *EnumCase.
type Member interface {
	member()
}

// Method is a method declaration. Body is nil for abstract and interface
// methods.
type Method struct {
	Name       string
	Visibility Visibility
	Static     bool
	Abstract   bool
	Params     []*Param
	ReturnType *sitter.Node
	Body       *sitter.Node
}

// Property is one element of a property declaration; `public $a, $b;`
// yields two.
type Property struct {
	Name       string
	Visibility Visibility
	Static     bool
	Readonly   bool
	Type       *sitter.Node
	Default    *sitter.Node
}

// TraitUse is a `use A, B;` statement inside a declaration body.
type TraitUse struct {
	Names []string
}

// EnumCase is a case of an enum, with its backing value if any.
type EnumCase struct {
	Name  string
	Value *sitter.Node
}

// Param is a method parameter. Promoted constructor parameters carry
// their own visibility.
type Param struct {
	Name       string
	Type       *sitter.Node
	Default    *sitter.Node
	Promoted   bool
	Visibility Visibility
	Variadic   bool
}

func (*Method) member()   {}
func (*Property) member() {}
func (*TraitUse) member() {}
func (*EnumCase) member() {}

// Scan visits the class-like declarations of f in source order: top-level
// statements, the statements of each namespace, and anonymous classes
// returned by a top-level return statement. It does not look inside
// functions or other nested blocks. Scanning stops when visit returns true.
func (f *File) Scan(visit func(c *ClassLike) bool) {
	scope := NewScope("")
	stop := false

	step := func(n *sitter.Node) {
		if stop {
			return
		}
		switch n.Type() {
		case nodeUseDeclaration:
			scope.addUse(n, f.Source)
		case nodeReturn:
			if anon := anonymousClass(firstExpr(n)); anon != nil {
				stop = visit(f.newClassLike(anon, KindClass, true, scope.clone()))
			}
		default:
			if kind, ok := declKinds[n.Type()]; ok {
				stop = visit(f.newClassLike(n, kind, false, scope.clone()))
			}
		}
	}

	for _, n := range namedChildren(f.Root) {
		if stop {
			return
		}
		if n.Type() != nodeNamespaceDefinition {
			step(n)
			continue
		}
		name := ""
		if nn := n.ChildByFieldName("name"); nn != nil {
			name = strings.Trim(f.Text(nn), `\`)
		} else if nn := childOfType(n, nodeNamespaceName); nn != nil {
			name = strings.Trim(f.Text(nn), `\`)
		}
		scope = NewScope(name)
		body := n.ChildByFieldName("body")
		if body == nil {
			body = childOfType(n, nodeCompound)
		}
		// `namespace Foo;` applies to the sibling statements that follow.
		for _, c := range namedChildren(body) {
			step(c)
		}
	}
}

// FirstDeclaration returns the first named declaration of one of the given
// kinds, or nil when there is none.
func (f *File) FirstDeclaration(kinds ...Kind) *ClassLike {
	var found *ClassLike
	f.Scan(func(c *ClassLike) bool {
		if c.Anonymous {
			return false
		}
		for _, k := range kinds {
			if c.Kind == k {
				found = c
				return true
			}
		}
		return false
	})
	return found
}

func firstExpr(n *sitter.Node) *sitter.Node {
	for _, c := range namedChildren(n) {
		if c.Type() != nodeComment {
			return unwrap(c)
		}
	}
	return nil
}

// anonymousClass returns the node holding an anonymous class body when n
// is a `new class ...` expression.
func anonymousClass(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case nodeAnonymousClass:
		return n
	case nodeObjectCreation:
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case nodeAnonymousClass:
				return c
			case nodeDeclList:
				return n
			}
		}
	}
	return nil
}

func (f *File) newClassLike(n *sitter.Node, kind Kind, anonymous bool, scope *Scope) *ClassLike {
	c := &ClassLike{Kind: kind, Anonymous: anonymous, Scope: scope, file: f}
	if name := n.ChildByFieldName("name"); name != nil && !anonymous {
		c.Name = f.Text(name)
	}

	body := n.ChildByFieldName("body")
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case nodeAbstract:
			c.Abstract = true
		case nodeBaseClause:
			c.Extends = append(c.Extends, c.clauseNames(child)...)
		case nodeInterfaceList:
			c.Implements = append(c.Implements, c.clauseNames(child)...)
		case nodeDeclList, nodeEnumDeclList:
			if body == nil {
				body = child
			}
		default:
			if kind == KindEnum && typeNodes[child.Type()] && c.BackingType == "" {
				c.BackingType = scope.FormatType(child, f.Source)
			}
		}
	}

	for _, m := range namedChildren(body) {
		switch m.Type() {
		case nodeMethod:
			c.Members = append(c.Members, f.newMethod(m, scope))
		case nodeProperty:
			for _, p := range f.newProperties(m) {
				c.Members = append(c.Members, p)
			}
		case nodeTraitUse:
			use := &TraitUse{}
			for _, name := range namedChildren(m) {
				if isNameNode(name) {
					use.Names = append(use.Names, scope.Resolve(f.Text(name)))
				}
			}
			c.Members = append(c.Members, use)
		case nodeEnumCase:
			ec := &EnumCase{Value: m.ChildByFieldName("value")}
			if name := m.ChildByFieldName("name"); name != nil {
				ec.Name = f.Text(name)
			} else if name := childOfType(m, nodeName); name != nil {
				ec.Name = f.Text(name)
			}
			c.Members = append(c.Members, ec)
		}
	}
	return c
}

func (c *ClassLike) clauseNames(clause *sitter.Node) []string {
	var out []string
	for _, n := range namedChildren(clause) {
		if isNameNode(n) {
			out = append(out, c.Scope.Resolve(c.file.Text(n)))
		}
	}
	return out
}

func (f *File) newMethod(n *sitter.Node, scope *Scope) *Method {
	m := &Method{
		Visibility: Public,
		ReturnType: n.ChildByFieldName("return_type"),
		Body:       n.ChildByFieldName("body"),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		m.Name = f.Text(name)
	}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case nodeVisibility:
			m.Visibility = Visibility(strings.ToLower(f.Text(c)))
		case nodeStatic:
			m.Static = true
		case nodeAbstract:
			m.Abstract = true
		}
	}
	params := n.ChildByFieldName("parameters")
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case nodeSimpleParam, nodePromotedParam, nodeVariadicParam:
			m.Params = append(m.Params, f.newParam(p))
		}
	}
	return m
}

func (f *File) newParam(n *sitter.Node) *Param {
	p := &Param{
		Type:     n.ChildByFieldName("type"),
		Default:  n.ChildByFieldName("default_value"),
		Promoted: n.Type() == nodePromotedParam,
		Variadic: n.Type() == nodeVariadicParam,
	}
	if name := n.ChildByFieldName("name"); name != nil {
		p.Name = strings.TrimLeft(f.Text(name), "&$")
	}
	if p.Promoted {
		p.Visibility = Public
		if vis := childOfType(n, nodeVisibility); vis != nil {
			p.Visibility = Visibility(strings.ToLower(f.Text(vis)))
		}
	}
	return p
}

func (f *File) newProperties(n *sitter.Node) []*Property {
	base := Property{Visibility: Public, Type: n.ChildByFieldName("type")}
	for _, c := range namedChildren(n) {
		switch {
		case c.Type() == nodeVisibility:
			base.Visibility = Visibility(strings.ToLower(f.Text(c)))
		case c.Type() == nodeStatic:
			base.Static = true
		case c.Type() == nodeReadonly:
			base.Readonly = true
		case base.Type == nil && typeNodes[c.Type()]:
			base.Type = c
		}
	}

	var out []*Property
	for _, el := range namedChildren(n) {
		if el.Type() != nodePropertyElement {
			continue
		}
		p := base
		if name := childOfType(el, nodeVariableName); name != nil {
			p.Name = strings.TrimPrefix(f.Text(name), "$")
		}
		p.Default = propertyDefault(el)
		out = append(out, &p)
	}
	return out
}

func propertyDefault(el *sitter.Node) *sitter.Node {
	if d := el.ChildByFieldName("default_value"); d != nil {
		return d
	}
	if init := childOfType(el, nodePropertyInit); init != nil {
		return firstExpr(init)
	}
	for _, c := range namedChildren(el) {
		if c.Type() != nodeVariableName && c.Type() != nodeComment {
			return c
		}
	}
	return nil
}

// Methods returns the declared methods in source order.
func (c *ClassLike) Methods() []*Method {
	var out []*Method
	for _, m := range c.Members {
		if method, ok := m.(*Method); ok {
			out = append(out, method)
		}
	}
	return out
}

// Method returns the first method with the given name. PHP method names
// are case-insensitive.
func (c *ClassLike) Method(name string) *Method {
	for _, m := range c.Methods() {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// Properties returns the declared properties in source order. Promoted
// constructor parameters are not included.
func (c *ClassLike) Properties() []*Property {
	var out []*Property
	for _, m := range c.Members {
		if p, ok := m.(*Property); ok {
			out = append(out, p)
		}
	}
	return out
}

// Property returns the first property with the given name.
func (c *ClassLike) Property(name string) *Property {
	for _, p := range c.Properties() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Traits returns the names of every trait used by the declaration.
func (c *ClassLike) Traits() []string {
	var out []string
	for _, m := range c.Members {
		if use, ok := m.(*TraitUse); ok {
			out = append(out, use.Names...)
		}
	}
	return out
}

// Cases returns the enum cases in source order.
func (c *ClassLike) Cases() []*EnumCase {
	var out []*EnumCase
	for _, m := range c.Members {
		if ec, ok := m.(*EnumCase); ok {
			out = append(out, ec)
		}
	}
	return out
}

// Parent returns the declared parent class, or "" if there is none.
func (c *ClassLike) Parent() string {
	if c.Kind != KindClass || len(c.Extends) == 0 {
		return ""
	}
	return c.Extends[0]
}

// FQN returns the fully qualified name of a named declaration.
func (c *ClassLike) FQN() string {
	if c.Name == "" {
		return ""
	}
	return c.Scope.qualify(c.Name)
}

// ImplementsAny reports whether the declaration directly implements one of
// the given interfaces.
func (c *ClassLike) ImplementsAny(ifaces ...string) bool {
	for _, have := range c.Implements {
		for _, want := range ifaces {
			if have == want {
				return true
			}
		}
	}
	return false
}

// UsesAny reports whether the declaration uses one of the given traits.
func (c *ClassLike) UsesAny(traits ...string) bool {
	for _, have := range c.Traits() {
		for _, want := range traits {
			if have == want {
				return true
			}
		}
	}
	return false
}

// FormatType renders a type node in the scope of the declaration.
func (c *ClassLike) FormatType(n *sitter.Node) string {
	return c.Scope.FormatType(n, c.file.Source)
}

// Text returns the source text of n.
func (c *ClassLike) Text(n *sitter.Node) string {
	return c.file.Text(n)
}

// Statements returns the statements of a method body, or nil for a
// method without one.
func (m *Method) Statements() []*sitter.Node {
	if m.Body == nil {
		return nil
	}
	return statements(m.Body)
}

// IsPublic reports whether v is public.
func (v Visibility) IsPublic() bool { return v == Public }
