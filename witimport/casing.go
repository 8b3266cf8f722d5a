package witimport

import (
	"strings"
	"unicode"
)

// pascalCase converts kebab-case or snake_case to PascalCase.
func pascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var b strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// snakeCase converts kebab-case, camelCase or PascalCase to snake_case.
// Acronyms stay together: "HTTPRequest" becomes "http_request".
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(strings.ReplaceAll(s, "-", "_"))

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && runes[i-1] != '_' {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevUpper || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// upperSnakeCase converts a name to UPPER_SNAKE_CASE.
func upperSnakeCase(s string) string {
	return strings.ToUpper(snakeCase(s))
}

var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "asm": true, "auto": true,
	"bool": true, "break": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "constexpr": true, "continue": true,
	"decltype": true, "default": true, "delete": true, "do": true,
	"double": true, "else": true, "enum": true, "explicit": true,
	"export": true, "extern": true, "false": true, "float": true, "for": true,
	"friend": true, "goto": true, "if": true, "inline": true, "int": true,
	"long": true, "mutable": true, "namespace": true, "new": true,
	"noexcept": true, "not": true, "nullptr": true, "operator": true,
	"or": true, "private": true, "protected": true, "public": true,
	"register": true, "return": true, "short": true, "signed": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"template": true, "this": true, "throw": true, "true": true, "try": true,
	"typedef": true, "typeid": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true, "xor": true,
}

// memberName turns a WIT field or case name into a C++ member name.
func memberName(s string) string {
	name := snakeCase(s)
	if cppKeywords[name] {
		return name + "_"
	}
	return name
}
