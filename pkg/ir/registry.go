package ir

// RegistryEntry is one named schema eligible for a type declaration
type RegistryEntry struct {
	Name   string
	Schema *SchemaNode
}

// Registry is the ordered set of named top-level schemas. Insertion order is kept
// and the first entry registered under a name wins.
type Registry struct {
	entries []RegistryEntry
	index   map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Eligible reports whether a schema may be registered
func Eligible(n *SchemaNode) bool {
	if n == nil {
		return false
	}
	k := n.Kind()
	return k == KindObject || k == KindComposite
}

// Add registers a schema under name. Ineligible schemas and repeated names are ignored;
// the return value reports whether the entry was added.
func (r *Registry) Add(name string, n *SchemaNode) bool {
	if !Eligible(n) {
		return false
	}
	if _, exists := r.index[name]; exists {
		return false
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, RegistryEntry{Name: name, Schema: n})
	return true
}

// Entries returns the registered schemas in registration order
func (r *Registry) Entries() []RegistryEntry {
	if r == nil {
		return nil
	}
	out := make([]RegistryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Lookup returns the schema registered under name
func (r *Registry) Lookup(name string) (*SchemaNode, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].Schema, true
}

// Match returns the name of the first entry, in registration order, whose schema is
// structurally equal to n. Ties between equal entries resolve to the earliest one.
func (r *Registry) Match(n *SchemaNode) (string, bool) {
	return r.MatchWhere(n, nil)
}

// MatchWhere is Match restricted to the entries accepted by keep. A nil keep accepts all.
func (r *Registry) MatchWhere(n *SchemaNode, keep func(RegistryEntry) bool) (string, bool) {
	if r == nil || n == nil {
		return "", false
	}
	for _, e := range r.entries {
		if keep != nil && !keep(e) {
			continue
		}
		if Equal(e.Schema, n) {
			return e.Name, true
		}
	}
	return "", false
}
