package load

import (
	"errors"
	"fmt"
)

// ErrClassNotFound is returned by a ClassLoader for unknown classes.
var ErrClassNotFound = errors.New("load: class not found")

// ClassLoader answers the questions the scanner cannot answer from
// annotations alone: whether a class is an enum (and its constants),
// whether it is a collection, and whether a member is declared nullable.
type ClassLoader interface {
	LoadClass(name string) (*LoadedClass, error)
}

// LoadedClass is the answer of a ClassLoader.
type LoadedClass struct {
	Name          string
	Enum          bool
	EnumConstants []string
	Collection    bool
	nullable      map[string]bool
}

// IsMemberNullable reports the declared nullability of a member.
// known is false when the class carries no nullability information for it.
func (c *LoadedClass) IsMemberNullable(member string) (nullable, known bool) {
	nullable, known = c.nullable[member]
	return nullable, known
}

// collections are library classes assignable to a collection.
var collections = map[string]bool{
	"java.lang.Iterable":               true,
	"java.util.Collection":             true,
	"java.util.List":                   true,
	"java.util.ArrayList":              true,
	"java.util.LinkedList":             true,
	"java.util.Vector":                 true,
	"java.util.Set":                    true,
	"java.util.HashSet":                true,
	"java.util.LinkedHashSet":          true,
	"java.util.SortedSet":              true,
	"java.util.NavigableSet":           true,
	"java.util.TreeSet":                true,
	"java.util.Queue":                  true,
	"java.util.Deque":                  true,
	"java.util.ArrayDeque":             true,
	"kotlin.collections.Collection":    true,
	"kotlin.collections.List":          true,
	"kotlin.collections.MutableList":   true,
	"kotlin.collections.Set":           true,
	"kotlin.collections.MutableSet":    true,
	"kotlin.collections.Iterable":      true,
	"kotlin.collections.ArrayList":     true,
	"kotlin.collections.HashSet":       true,
	"kotlin.collections.LinkedHashSet": true,
}

// library lists well-known non-collection library classes, which resolve
// even though they are never part of an application index.
var library = map[string]bool{
	"java.lang.Object":                true,
	"java.lang.String":                true,
	"java.lang.Integer":               true,
	"java.lang.Long":                  true,
	"java.lang.Short":                 true,
	"java.lang.Byte":                  true,
	"java.lang.Character":             true,
	"java.lang.Float":                 true,
	"java.lang.Double":                true,
	"java.lang.Number":                true,
	"java.lang.Boolean":               true,
	"java.math.BigDecimal":            true,
	"java.math.BigInteger":            true,
	"java.util.Map":                   true,
	"java.util.HashMap":               true,
	"java.util.Optional":              true,
	"java.util.UUID":                  true,
	"java.util.Date":                  true,
	"java.time.Instant":               true,
	"java.time.LocalDate":             true,
	"java.time.LocalTime":             true,
	"java.time.LocalDateTime":         true,
	"java.time.OffsetTime":            true,
	"java.time.OffsetDateTime":        true,
	"java.time.ZonedDateTime":         true,
	"java.time.Duration":              true,
	"kotlin.Int":                      true,
	"kotlin.Long":                     true,
	"kotlin.Short":                    true,
	"kotlin.Float":                    true,
	"kotlin.Double":                   true,
	"kotlin.Boolean":                  true,
	"kotlin.String":                   true,
	"kotlin.collections.Map":          true,
	"org.neo4j.graphdb.spatial.Point": true,
}

// IndexLoader is a ClassLoader backed by an Index and a table of
// library classes.
type IndexLoader struct {
	index Index
}

// NewIndexLoader returns a loader over idx.
func NewIndexLoader(idx Index) *IndexLoader {
	return &IndexLoader{index: idx}
}

// LoadClass implements ClassLoader.
func (l *IndexLoader) LoadClass(name string) (*LoadedClass, error) {
	if cls := l.index.Class(name); cls != nil {
		return &LoadedClass{
			Name:          cls.Name,
			Enum:          cls.Enum,
			EnumConstants: cls.EnumConstants,
			Collection:    l.isCollection(cls, map[string]bool{}),
			nullable:      cls.Nullability,
		}, nil
	}
	switch {
	case IsPrimitive(name), library[name]:
		return &LoadedClass{Name: name}, nil
	case collections[name]:
		return &LoadedClass{Name: name, Collection: true}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
}

// isCollection walks the supertypes of an indexed class.
func (l *IndexLoader) isCollection(cls *ClassInfo, seen map[string]bool) bool {
	if seen[cls.Name] {
		return false
	}
	seen[cls.Name] = true
	supers := append([]string{cls.Superclass}, cls.Interfaces...)
	for _, name := range supers {
		if name == "" {
			continue
		}
		if collections[name] {
			return true
		}
		if sup := l.index.Class(name); sup != nil && l.isCollection(sup, seen) {
			return true
		}
	}
	return false
}
