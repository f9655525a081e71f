package ts

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NamePolicy maps a declared name to the identifier printed for it.
type NamePolicy func(name string) string

// =============================================================================
// Policies
// =============================================================================

// Identity keeps names unchanged.
func Identity(name string) string { return name }

// CamelCase prints names in camelCase: MyModel becomes myModel.
func CamelCase(name string) string {
	if name == "" {
		return name
	}
	return inflect.CamelizeDownFirst(name)
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// PascalCase prints names in PascalCase: my_model becomes MyModel.
func PascalCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, "")
}

// PolicyByName returns the policy registered under name.
func PolicyByName(name string) (NamePolicy, error) {
	switch strings.ToLower(name) {
	case "", "camel", "camelcase":
		return CamelCase, nil
	case "pascal", "pascalcase":
		return PascalCase, nil
	case "none", "identity":
		return Identity, nil
	default:
		return nil, fmt.Errorf("ts: unknown name policy %q; use camel, pascal or none", name)
	}
}

// =============================================================================
// Identifiers
// =============================================================================

var reserved = names(
	"break", "case", "catch", "class", "const", "continue", "debugger", "default",
	"delete", "do", "else", "enum", "export", "extends", "false", "finally", "for",
	"function", "if", "import", "in", "instanceof", "new", "null", "return",
	"super", "switch", "this", "throw", "true", "try", "typeof", "var", "void",
	"while", "with", "as", "implements", "interface", "let", "package", "private",
	"protected", "public", "static", "yield", "await", "any", "boolean",
	"number", "string", "symbol", "type", "undefined",
)

func names(ns ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ns))
	for _, n := range ns {
		m[n] = struct{}{}
	}
	return m
}

// IsIdentifier reports whether s is a valid identifier name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// IsReserved reports whether s is a reserved word.
func IsReserved(s string) bool {
	_, ok := reserved[s]
	return ok
}

// Identifier sanitizes s into a binding name that is neither invalid nor
// reserved.
func Identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	id := b.String()
	if id == "" {
		id = "_"
	}
	if IsReserved(id) {
		id += "_"
	}
	return id
}

// Quote returns s as a double quoted string literal.
func Quote(s string) string {
	b, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return `""`
	}
	return string(b)
}
