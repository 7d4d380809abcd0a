package lang

import (
	"github.com/smacker/go-tree-sitter/php"
)

func init() {
	Languages["php"] = &Language{
		Name:       "php",
		Extensions: []string{".php"},
		lang:       php.GetLanguage(),
	}
}
