package gen

import (
	"cmp"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Mention records a reference from an attribute to a class, checked by Validate.
type Mention struct {
	// Class is the mentioned class.
	Class string
	// Source is the class declaring the attribute.
	Source string
	// Attribute is the schema name of the attribute.
	Attribute string
}

// Graph is the schema model of one generation run. It accumulates
// scalars, enums and types during scanning, and is final once Validate
// has run.
type Graph struct {
	*Config

	scalars  *Scalars
	types    []*Type
	byClass  map[string]*Type
	enums    map[string]*Scalar
	mentions []Mention
	ignored  []Mention
}

// NewGraph returns an empty graph with the built-in and configured scalars.
func NewGraph(c *Config) *Graph {
	if c == nil {
		c = defaultConfig()
	}
	g := &Graph{
		Config:  c,
		scalars: NewScalars(c.Extensions),
		byClass: make(map[string]*Type),
		enums:   make(map[string]*Scalar),
	}
	for _, m := range c.Scalars {
		sc := g.scalars.AddMapping(m)
		g.log().Info("add scalar", zap.String("scalar", sc.Name))
	}
	return g
}

// AddType registers t, replacing any type of the same class. A replaced
// type keeps its position in the model.
func (g *Graph) AddType(t *Type) {
	g.log().Info("add type", zap.String("type", t.Name), zap.String("class", t.Class))
	g.upsert(t)
}

// AddInterface registers an interface type, replacing any type of the same class.
func (g *Graph) AddInterface(t *Type) {
	g.log().Info("add interface", zap.String("interface", t.Name), zap.String("class", t.Class))
	g.upsert(t)
}

func (g *Graph) upsert(t *Type) {
	t.suffix = g.suffix()
	if _, ok := g.byClass[t.Class]; ok {
		i := slices.IndexFunc(g.types, func(have *Type) bool { return have.Class == t.Class })
		g.types[i] = t
	} else {
		g.types = append(g.types, t)
	}
	g.byClass[t.Class] = t
}

func (g *Graph) remove(class string) {
	delete(g.byClass, class)
	g.types = slices.DeleteFunc(g.types, func(t *Type) bool { return t.Class == class })
}

// HasType reports whether a type is registered for the class.
func (g *Graph) HasType(class string) bool {
	_, ok := g.byClass[class]
	return ok
}

// Type returns the type registered for the class, or nil.
func (g *Graph) Type(class string) *Type {
	return g.byClass[class]
}

// Types returns every registered type, interfaces included, in
// registration order.
func (g *Graph) Types() []*Type {
	return slices.Clone(g.types)
}

// Interface returns the interface type registered for the class, or nil.
func (g *Graph) Interface(class string) *Type {
	if t := g.byClass[class]; t != nil && t.Kind.IsInterface() {
		return t
	}
	return nil
}

// AddEnum registers an enum for the class. It is a no-op, reporting
// false, when the class already has one.
func (g *Graph) AddEnum(class string, e *Scalar) bool {
	if g.HasEnum(class) {
		return false
	}
	e.Enum = true
	g.enums[class] = e
	g.scalars.Bind(class, e)
	g.log().Info("add enum", zap.String("enum", e.Name), zap.String("class", class))
	return true
}

// HasEnum reports whether an enum is registered for the class.
func (g *Graph) HasEnum(class string) bool {
	_, ok := g.enums[class]
	return ok
}

// Enum returns the enum registered for the class, or nil.
func (g *Graph) Enum(class string) *Scalar {
	return g.enums[class]
}

// Enums returns the registered enums sorted by name, then by class.
// When enums of different classes share a name, only the first is
// returned; Validate reports the others.
func (g *Graph) Enums() []*Scalar {
	enums, _ := g.enumsByName()
	return enums
}

func (g *Graph) enumsByName() (enums []*Scalar, collisions []error) {
	classes := slices.Sorted(maps.Keys(g.enums))
	slices.SortStableFunc(classes, func(a, b string) int {
		return cmp.Compare(g.enums[a].Name, g.enums[b].Name)
	})
	owner := make(map[string]string, len(classes))
	for _, class := range classes {
		e := g.enums[class]
		if slices.Contains(enums, e) {
			continue
		}
		if first, ok := owner[e.Name]; ok {
			collisions = append(collisions, NewEnumCollisionError(class, first, e.Name))
			continue
		}
		owner[e.Name] = class
		enums = append(enums, e)
	}
	return enums, collisions
}

// DeclaredScalars returns the custom scalars to declare in the schema,
// in declaration order.
func (g *Graph) DeclaredScalars() []*Scalar {
	return slices.DeleteFunc(g.scalars.Declared(), func(s *Scalar) bool { return s.Enum })
}

// Scalar returns the scalar or enum bound to the class, or nil.
func (g *Graph) Scalar(class string) *Scalar {
	return g.scalars.Lookup(class)
}

// IsScalarClass reports whether the class maps to a scalar or an enum.
func (g *Graph) IsScalarClass(class string) bool {
	return g.Scalar(class) != nil
}

// AddMention records a reference from an attribute to a class.
func (g *Graph) AddMention(class, source, attribute string) {
	m := Mention{Class: class, Source: source, Attribute: attribute}
	if !slices.Contains(g.mentions, m) {
		g.mentions = append(g.mentions, m)
	}
}

// IgnoreMention excludes a reference from validation.
func (g *Graph) IgnoreMention(class, source, attribute string) {
	m := Mention{Class: class, Source: source, Attribute: attribute}
	if !slices.Contains(g.ignored, m) {
		g.ignored = append(g.ignored, m)
	}
}

// Mentions returns the recorded references.
func (g *Graph) Mentions() []Mention {
	return slices.Clone(g.mentions)
}

// Resolve links every registered type. A type that fails to resolve is
// removed from the model and its error returned. Passes run in
// registration order until no type is removed, so a type linked to a
// type removed later in the same pass is removed too.
func (g *Graph) Resolve() []error {
	var errs []error
	for removed := true; removed; {
		removed = false
		for _, t := range slices.Clone(g.types) {
			if err := t.resolve(g); err != nil {
				g.log().Warn("remove unresolved type", zap.String("type", t.Name), zap.Error(err))
				g.remove(t.Class)
				errs = append(errs, err)
				removed = true
			}
		}
	}
	return errs
}

// Validate resolves the model, then checks that every mention that was
// not ignored names a scalar or a registered type, and that enum names
// are unique.
func (g *Graph) Validate() []error {
	errs := g.Resolve()
	for _, m := range g.mentions {
		if slices.Contains(g.ignored, m) {
			continue
		}
		if !g.IsScalarClass(m.Class) && !g.HasType(m.Class) {
			errs = append(errs, NewValidationError(m.Source, m.Attribute, m.Class))
		}
	}
	_, collisions := g.enumsByName()
	return append(errs, collisions...)
}

// referencing returns the first node type with an edge to the class of
// rel. Interfaces are skipped: the start node is always concrete.
func (g *Graph) referencing(rel *Type) *Type {
	for _, t := range g.types {
		if t.Kind != KindNode {
			continue
		}
		for _, e := range t.Edges {
			if e.Class == rel.Class {
				return t
			}
		}
	}
	return nil
}
