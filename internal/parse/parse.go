// Package parse turns PHP source into class-like declarations with resolved
// names, using tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/laraguide/internal/lang"
)

var (
	// ErrSyntax marks a file that does not parse as PHP.
	ErrSyntax = errors.New("syntax error")
	// ErrEmpty marks a file that parses but holds no statements.
	ErrEmpty = errors.New("no statements")
)

// Error describes why a file could not be turned into a syntax tree.
type Error struct {
	Err  error
	Line int
	Near string
}

func (e *Error) Error() string {
	switch {
	case e.Err == ErrSyntax && e.Near != "":
		return fmt.Sprintf("syntax error, unexpected '%s' on line %d", e.Near, e.Line)
	case e.Err == ErrSyntax:
		return fmt.Sprintf("syntax error on line %d", e.Line)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// File is a parsed PHP file. Nodes handed out by a File are only valid
// until Close is called.
type File struct {
	Source []byte
	Root   *sitter.Node
	tree   *sitter.Tree
}

// ParseFile reads and parses the PHP file at path.
func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(source)
}

// Parse parses PHP source. The returned error is an *Error for syntax
// errors and empty files.
func Parse(source []byte) (*File, error) {
	parser := lang.Languages["php"].NewParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	root := tree.RootNode()

	if root.HasError() {
		perr := &Error{Err: ErrSyntax, Line: 1}
		if bad := firstError(root); bad != nil {
			perr.Line = int(bad.StartPoint().Row) + 1
			perr.Near = nearText(bad, source)
		}
		tree.Close()
		return nil, perr
	}

	if !hasStatements(root) {
		tree.Close()
		return nil, &Error{Err: ErrEmpty}
	}

	return &File{Source: source, Root: root, tree: tree}, nil
}

// Close releases the syntax tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Text returns the source text of n.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return lang.NodeText(n, f.Source)
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == nodeError || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.HasError() && !c.IsMissing() {
			continue
		}
		if bad := firstError(c); bad != nil {
			return bad
		}
	}
	return nil
}

func nearText(n *sitter.Node, source []byte) string {
	if n.IsMissing() {
		return n.Type()
	}
	text := lang.CollapseWhitespace(lang.NodeText(n, source))
	if r := []rune(text); len(r) > 20 {
		text = string(r[:20])
	}
	return text
}

// hasStatements reports whether the program holds anything beyond the
// opening tag, comments and a closing tag.
func hasStatements(root *sitter.Node) bool {
	for _, c := range namedChildren(root) {
		switch c.Type() {
		case nodePHPTag, nodeComment, nodeTextInterpolation:
			continue
		}
		return true
	}
	return false
}
