package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits a string into words, handling camelCase, PascalCase, snake_case, kebab-case
// and runs of capitals such as "XMLHttp"
func SplitWords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = RemoveAccents(s)

	var words []string
	for _, part := range nonAlnum.Split(s, -1) {
		if part == "" {
			continue
		}
		words = append(words, SplitCamelCase(part)...)
	}
	return words
}

// SplitCamelCase splits a camelCase or PascalCase string into words
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var current strings.Builder

	rs := []rune(s)
	for i, r := range rs {
		isNewWord := false
		if i > 0 && isUppercase(r) {
			if !isUppercase(rs[i-1]) {
				isNewWord = true
			} else if i < len(rs)-1 && isLowercase(rs[i+1]) {
				// "XMLHttp" -> "XML", "Http"
				isNewWord = true
			}
		}

		if isNewWord && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func isUppercase(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isLowercase(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// Capitalize upper-cases the first letter and lower-cases the rest
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// UpperFirst upper-cases the first letter and keeps the rest as is
func UpperFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ToPascalCase converts a string to PascalCase
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range SplitWords(s) {
		b.WriteString(Capitalize(w))
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase
func ToCamelCase(s string) string {
	words := SplitWords(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(Capitalize(w))
	}
	return b.String()
}

// ToKebabCase converts a string to kebab-case
func ToKebabCase(s string) string {
	words := SplitWords(s)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, "-")
}

// ToSnakeCase converts a string to snake_case
func ToSnakeCase(s string) string {
	words := SplitWords(s)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, "_")
}
