package gen

import (
	"slices"
	"strings"
)

// Kind is the kind of a schema type.
type Kind uint8

const (
	_ Kind = iota
	// KindNode is a node entity.
	KindNode
	// KindRelation is a relationship entity with its own attributes.
	KindRelation
	// KindInterface is a true interface marked as a schema interface.
	KindInterface
	// KindAbstract is a plain superclass promoted to a schema interface.
	KindAbstract
)

var kindNames = [...]string{
	KindNode:      "NODE",
	KindRelation:  "RELATION",
	KindInterface: "INTERFACE",
	KindAbstract:  "ABSTRACT",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsInterface reports whether the kind renders as a GraphQL interface.
func (k Kind) IsInterface() bool {
	return k == KindInterface || k == KindAbstract
}

// The following types are the schema model consumed by the renderers.
type (
	// Type is one schema type: a node, a relationship entity or an interface.
	Type struct {
		// Kind of the type.
		Kind Kind
		// Class is the fully qualified name of the originating class.
		Class string
		// SimpleName is the class name without its package.
		SimpleName string
		// Name is the schema name of the type.
		Name string
		// Fields holds the scalar and enum attributes.
		Fields []*Field
		// Edges holds the relationship attributes.
		Edges []*Edge
		// Interfaces implemented by the type.
		Interfaces []*Type
		// Key holds the key attributes, in scan order.
		Key []*Field
		// Relation is the relationship label of a relationship entity.
		Relation string
		// From and To are the endpoints of a relationship entity.
		From, To *Endpoint

		ignored map[string]bool
		suffix  string
	}

	// Endpoint is one end of a relationship entity.
	Endpoint struct {
		// Name of the endpoint attribute. Empty for an inferred start node.
		Name string
		// Class of the endpoint.
		Class string
		// Type is set by Resolve.
		Type *Type
	}
)

// NewType returns an empty type.
func NewType(kind Kind, class, name string) *Type {
	return &Type{
		Kind:       kind,
		Class:      class,
		SimpleName: simpleName(class),
		Name:       name,
		ignored:    make(map[string]bool),
		suffix:     DefaultInterfaceSuffix,
	}
}

func simpleName(class string) string {
	if i := strings.LastIndexAny(class, ".$"); i >= 0 {
		return class[i+1:]
	}
	return class
}

// FragmentName returns the name of the type's fragment. Interface
// names lose their suffix first.
func (t *Type) FragmentName() string {
	name := t.Name
	if t.Kind.IsInterface() && t.suffix != "" && name != t.suffix {
		name = strings.TrimSuffix(name, t.suffix)
	}
	return name + "Fields"
}

// QueryName is the root field of the type's queries.
func (t *Type) QueryName() string {
	return Decapitalize(t.Name)
}

// FromName returns the start node attribute name, or the placeholder
// used when the start node was inferred.
func (t *Type) FromName() string {
	if t.From == nil || t.From.Name == "" {
		return DefaultFromName
	}
	return t.From.Name
}

// ToName returns the end node attribute name.
func (t *Type) ToName() string {
	if t.To == nil {
		return ""
	}
	return t.To.Name
}

// Ignored reports whether the attribute name was explicitly ignored.
func (t *Type) Ignored(name string) bool {
	return t.ignored[name]
}

// Ignore removes the named attribute and blocks it from being added later.
func (t *Type) Ignore(name string) {
	t.ignored[name] = true
	t.Fields = slices.DeleteFunc(t.Fields, func(f *Field) bool { return f.Name == name })
	t.Key = slices.DeleteFunc(t.Key, func(f *Field) bool { return f.Name == name })
	t.Edges = slices.DeleteFunc(t.Edges, func(e *Edge) bool { return e.Name == name })
}

// Field returns the simple attribute with the given name.
func (t *Type) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Edge returns the relationship attribute with the given name.
func (t *Type) Edge(name string) (*Edge, bool) {
	for _, e := range t.Edges {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Empty reports whether t has no attribute to render. A relationship
// entity always has its endpoints.
func (t *Type) Empty() bool {
	return t.Kind != KindRelation && len(t.Fields) == 0 && len(t.Edges) == 0
}

func (t *Type) hasAttribute(name string) bool {
	if _, ok := t.Field(name); ok {
		return true
	}
	_, ok := t.Edge(name)
	return ok
}

func (t *Type) isEndpoint(name string) bool {
	return t.From != nil && t.From.Name == name || t.To != nil && t.To.Name == name
}

// AddField adds a simple attribute. It reports false, without error,
// when the name is ignored, taken, or names an endpoint.
func (t *Type) AddField(f *Field) bool {
	if t.ignored[f.Name] || t.hasAttribute(f.Name) || t.isEndpoint(f.Name) {
		return false
	}
	t.Fields = append(t.Fields, f)
	return true
}

// AddKey marks a registered simple attribute as a key attribute.
func (t *Type) AddKey(f *Field) {
	if !slices.Contains(t.Fields, f) || slices.Contains(t.Key, f) {
		return
	}
	t.Key = append(t.Key, f)
}

// AddEdge adds a relationship attribute. Relationship entities cannot
// carry relationship attributes.
func (t *Type) AddEdge(e *Edge) (bool, error) {
	if t.Kind == KindRelation {
		return false, NewAttributeError(t.Class, e.Name, "unable to add relationship attribute on relationship entity", nil)
	}
	if t.ignored[e.Name] || t.hasAttribute(e.Name) {
		return false, nil
	}
	t.Edges = append(t.Edges, e)
	return true, nil
}

// AddInterface adds an implemented interface, once per schema name.
func (t *Type) AddInterface(i *Type) {
	for _, have := range t.Interfaces {
		if have.Name == i.Name {
			return
		}
	}
	t.Interfaces = append(t.Interfaces, i)
}

// SetFrom sets the start node of a relationship entity.
func (t *Type) SetFrom(name, class string) {
	t.From = &Endpoint{Name: name, Class: class}
	t.Fields = slices.DeleteFunc(t.Fields, func(f *Field) bool { return f.Name == name })
}

// SetTo sets the end node of a relationship entity.
func (t *Type) SetTo(name, class string) {
	t.To = &Endpoint{Name: name, Class: class}
	t.Fields = slices.DeleteFunc(t.Fields, func(f *Field) bool { return f.Name == name })
}

// resolve links the edges and endpoints of t to registered types.
func (t *Type) resolve(g *Graph) error {
	for _, e := range t.Edges {
		target := g.Type(e.Class)
		if target == nil {
			return NewResolveError(t.Name, e.Name, e.Class, "")
		}
		e.Type = target
	}
	if t.Kind != KindRelation {
		return nil
	}
	if t.To == nil {
		return NewResolveError(t.Name, "", "", "relation entity does not have @EndNode")
	}
	if t.To.Type = g.Type(t.To.Class); t.To.Type == nil {
		return NewResolveError(t.Name, t.To.Name, t.To.Class, "relation entity end node is not a valid entity")
	}
	if t.From != nil {
		t.From.Type = g.Type(t.From.Class)
	}
	if t.From == nil || t.From.Type == nil {
		source := g.referencing(t)
		if source == nil {
			return NewResolveError(t.Name, "", "", "relation entity not referenced from any source node")
		}
		if t.From == nil {
			t.From = &Endpoint{}
		}
		t.From.Class, t.From.Type = source.Class, source
	}
	return nil
}
