// Package lang provides a language registry mapping file extensions to the
// analysis path each kind of source file takes.
package lang

import (
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Language holds the configuration for one supported source language.
//
// Languages with a tree-sitter grammar are analyzed in-process. Languages
// marked Batch are handed to an external analyzer in a single call per build,
// and their files carry RecordType as a placeholder summary until then.
type Language struct {
	Name       string
	Extensions []string
	Batch      bool
	RecordType string
	lang       *sitter.Language
}

// NewParser creates a tree-sitter parser for the language's grammar. Parsers
// are not safe for concurrent use.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Languages maps language names to their configuration. Each language
// registers itself from an init function in its own file.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
// Matching is case-sensitive, so ".PHP" is not treated as PHP.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
