package generator

import (
	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/ir"
)

// Resolver maps schema fragments to type descriptors against one registry.
// Only registry entries that produce a declaration are reference targets, so a
// resolved reference always names an emitted type.
type Resolver struct {
	registry *ir.Registry
	declared map[string]bool
}

// NewResolver prepares a resolver for the given registry
func NewResolver(registry *ir.Registry) *Resolver {
	r := &Resolver{registry: registry, declared: make(map[string]bool)}
	for _, e := range registry.Entries() {
		if len(CompressComposite(e.Schema).Properties) > 0 {
			r.declared[e.Name] = true
		}
	}
	return r
}

// ResolveType resolves node against registry. See Resolver.ResolveType.
func ResolveType(node *ir.SchemaNode, registry *ir.Registry) ir.TypeDescriptor {
	return NewResolver(registry).ResolveType(node)
}

// ResolveType returns the type of node. The first rule that applies wins:
// enum literals, a structurally equal registry entry, then the declared type.
func (r *Resolver) ResolveType(node *ir.SchemaNode) ir.TypeDescriptor {
	if node == nil {
		return ir.TypeDescriptor{Kind: ir.GenericObject}
	}
	if len(node.Enum) > 0 {
		lits := make([]ir.Literal, len(node.Enum))
		copy(lits, node.Enum)
		return ir.TypeDescriptor{Kind: ir.LiteralUnion, Literals: lits}
	}
	if name, ok := r.registry.MatchWhere(node, r.isDeclared); ok {
		return ir.TypeDescriptor{Kind: ir.Reference, Name: name}
	}
	switch node.Type {
	case "integer":
		return ir.TypeDescriptor{Kind: ir.Numeric, Integer: true}
	case "number":
		return ir.TypeDescriptor{Kind: ir.Numeric}
	case "object", "":
		return ir.TypeDescriptor{Kind: ir.GenericObject}
	case "array":
		elem := r.ResolveType(node.Items)
		return ir.TypeDescriptor{Kind: ir.ArrayOf, Elem: &elem}
	default:
		return ir.TypeDescriptor{Kind: ir.Passthrough, Name: node.Type}
	}
}

func (r *Resolver) isDeclared(e ir.RegistryEntry) bool {
	return r.declared[e.Name]
}

// Declared reports whether name produces a type declaration
func (r *Resolver) Declared(name string) bool {
	return r.declared[name]
}

// CompressComposite flattens allOf composition into a single object shape.
// Components are compressed depth first and folded with MergeShapes after the
// node's own members. A node without allOf is returned unchanged.
func CompressComposite(node *ir.SchemaNode) *ir.SchemaNode {
	return compress(node, make(map[*ir.SchemaNode]bool))
}

func compress(node *ir.SchemaNode, active map[*ir.SchemaNode]bool) *ir.SchemaNode {
	if node == nil || len(node.AllOf) == 0 {
		return node
	}
	if active[node] {
		// a component that includes itself contributes nothing further
		return &ir.SchemaNode{Type: "object"}
	}
	active[node] = true
	defer delete(active, node)

	own := *node
	own.AllOf = nil
	shapes := []*ir.SchemaNode{&own}
	for _, c := range node.AllOf {
		shapes = append(shapes, compress(c, active))
	}
	return MergeShapes(shapes...)
}

// MergeShapes folds object shapes left to right into a new object node.
// A property declared again by a later shape replaces the earlier schema and keeps the
// position of its first declaration. Required names form an ordered union. Title,
// description and format come from the last shape that sets them.
func MergeShapes(shapes ...*ir.SchemaNode) *ir.SchemaNode {
	out := &ir.SchemaNode{Type: "object"}
	pos := make(map[string]int)
	seenRequired := make(map[string]bool)
	for _, s := range shapes {
		if s == nil {
			continue
		}
		if s.Title != "" {
			out.Title = s.Title
		}
		if s.Description != "" {
			out.Description = s.Description
		}
		if s.Format != "" {
			out.Format = s.Format
		}
		for _, p := range s.Properties {
			if i, ok := pos[p.Name]; ok {
				out.Properties[i].Schema = p.Schema
				continue
			}
			pos[p.Name] = len(out.Properties)
			out.Properties = append(out.Properties, p)
		}
		for _, name := range s.Required {
			if !seenRequired[name] {
				seenRequired[name] = true
				out.Required = append(out.Required, name)
			}
		}
	}
	return out
}

// BuildDeclaredTypes produces one declaration per registry entry with at least one
// property after composite compression, in registry order
func BuildDeclaredTypes(registry *ir.Registry) []ir.DeclaredType {
	r := NewResolver(registry)
	return r.DeclaredTypes()
}

// DeclaredTypes produces the declarations of the resolver's registry
func (r *Resolver) DeclaredTypes() []ir.DeclaredType {
	var out []ir.DeclaredType
	for _, e := range r.registry.Entries() {
		shape := CompressComposite(e.Schema)
		if len(shape.Properties) == 0 {
			continue
		}
		dt := ir.DeclaredType{Name: e.Name, Description: shape.Description}
		for _, p := range shape.Properties {
			desc := ""
			if p.Schema != nil {
				desc = p.Schema.Description
			}
			dt.Fields = append(dt.Fields, ir.DeclaredField{
				Name:        p.Name,
				Description: desc,
				Optional:    !shape.IsRequired(p.Name),
				Type:        r.ResolveType(p.Schema),
			})
		}
		out = append(out, dt)
	}
	return out
}
