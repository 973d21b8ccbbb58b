package ir

import (
	"maps"
	"slices"
)

// nodePair is a pair of nodes under comparison, used to break reference cycles
type nodePair struct {
	a, b *SchemaNode
}

// Equal reports whether two schema fragments are structurally equal.
// Properties compare as a name-keyed set; required names, enum members and allOf
// components compare in order. Unmodeled keywords compare by their canonical JSON.
// The originating $ref is not part of the structure.
func Equal(a, b *SchemaNode) bool {
	return equalVisited(a, b, make(map[nodePair]bool))
}

func equalVisited(a, b *SchemaNode, visited map[nodePair]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	pair := nodePair{a, b}
	if visited[pair] {
		return true
	}
	visited[pair] = true

	if a.Kind() != b.Kind() {
		return false
	}
	if a.Type != b.Type || a.Format != b.Format {
		return false
	}
	if a.Title != b.Title || a.Description != b.Description {
		return false
	}
	if !equalLiteralPtr(a.Default, b.Default) {
		return false
	}
	if !slices.Equal(a.Enum, b.Enum) {
		return false
	}
	if !slices.Equal(a.Required, b.Required) {
		return false
	}
	if !maps.Equal(a.Extra, b.Extra) {
		return false
	}
	if !equalVisited(a.Items, b.Items, visited) {
		return false
	}
	if len(a.AllOf) != len(b.AllOf) {
		return false
	}
	for i := range a.AllOf {
		if !equalVisited(a.AllOf[i], b.AllOf[i], visited) {
			return false
		}
	}
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	for _, p := range a.Properties {
		other, ok := b.Property(p.Name)
		if !ok || !equalVisited(p.Schema, other, visited) {
			return false
		}
	}
	return true
}

func equalLiteralPtr(a, b *Literal) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
