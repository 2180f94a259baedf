// Package load reads the class metadata index that drives schema generation.
//
// The index is a document listing classes with their annotations, fields,
// getters, superclass and interfaces. It is produced by the host build and
// consumed here through the Index interface, so the scanner never touches
// bytecode or source directly.
package load

import (
	"fmt"
	"strings"
)

// Document is the serialized form of an index.
type Document struct {
	Version int          `json:"version,omitempty" yaml:"version,omitempty" msgpack:"version,omitempty"`
	Classes []*ClassInfo `json:"classes" yaml:"classes" msgpack:"classes"`
}

// ClassInfo describes one indexed class or interface.
type ClassInfo struct {
	Name          string          `json:"name" yaml:"name" msgpack:"name"`
	Interface     bool            `json:"interface,omitempty" yaml:"interface,omitempty" msgpack:"interface,omitempty"`
	Enum          bool            `json:"enum,omitempty" yaml:"enum,omitempty" msgpack:"enum,omitempty"`
	Superclass    string          `json:"superclass,omitempty" yaml:"superclass,omitempty" msgpack:"superclass,omitempty"`
	Interfaces    []string        `json:"interfaces,omitempty" yaml:"interfaces,omitempty" msgpack:"interfaces,omitempty"`
	Annotations   Annotations     `json:"annotations,omitempty" yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
	Fields        []*FieldInfo    `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
	Methods       []*MethodInfo   `json:"methods,omitempty" yaml:"methods,omitempty" msgpack:"methods,omitempty"`
	EnumConstants []string        `json:"enum_constants,omitempty" yaml:"enum_constants,omitempty" msgpack:"enum_constants,omitempty"`
	Nullability   map[string]bool `json:"nullability,omitempty" yaml:"nullability,omitempty" msgpack:"nullability,omitempty"` // member name -> declared nullable
}

// FieldInfo describes a declared field.
type FieldInfo struct {
	Name        string      `json:"name" yaml:"name" msgpack:"name"`
	Type        *Type       `json:"type" yaml:"type" msgpack:"type"`
	Static      bool        `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
	Annotations Annotations `json:"annotations,omitempty" yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
}

// MethodInfo describes a declared method. Type is the return type.
type MethodInfo struct {
	Name        string      `json:"name" yaml:"name" msgpack:"name"`
	Type        *Type       `json:"type" yaml:"type" msgpack:"type"`
	Static      bool        `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
	Public      bool        `json:"public,omitempty" yaml:"public,omitempty" msgpack:"public,omitempty"`
	Parameters  int         `json:"parameters,omitempty" yaml:"parameters,omitempty" msgpack:"parameters,omitempty"`
	Annotations Annotations `json:"annotations,omitempty" yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
}

// SimpleName returns the class name without its package or enclosing class.
func (c *ClassInfo) SimpleName() string {
	return SimpleName(c.Name)
}

// SimpleName strips the package and enclosing class from a class name.
func SimpleName(name string) string {
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// TargetKind is the kind of element an annotation is applied to.
type TargetKind uint8

const (
	_ TargetKind = iota
	TargetClass
	TargetField
	TargetMethod
)

func (k TargetKind) String() string {
	switch k {
	case TargetClass:
		return "class"
	case TargetField:
		return "field"
	case TargetMethod:
		return "method"
	default:
		return "unknown"
	}
}

// Target is an annotation instance together with the element carrying it.
type Target struct {
	Kind       TargetKind
	Class      *ClassInfo // declaring class for fields and methods
	Field      *FieldInfo
	Method     *MethodInfo
	Annotation *Annotation
}

// Index is a read-only view of the indexed classes.
type Index interface {
	// Class returns the class with the given fully-qualified name, or nil.
	Class(name string) *ClassInfo
	// Annotated returns every application of the named annotation.
	Annotated(annotation string) []Target
	// Classes returns all classes in index order.
	Classes() []*ClassInfo
}

// FindAnnotation locates the named annotation on the class itself, then on
// its fields, then on its methods. It returns the kind of the carrying element.
func (c *ClassInfo) FindAnnotation(name string) (*Annotation, TargetKind) {
	if a := c.Annotations.Find(name); a != nil {
		return a, TargetClass
	}
	for _, f := range c.Fields {
		if a := f.Annotations.Find(name); a != nil {
			return a, TargetField
		}
	}
	for _, m := range c.Methods {
		if a := m.Annotations.Find(name); a != nil {
			return a, TargetMethod
		}
	}
	return nil, 0
}

type memIndex struct {
	classes []*ClassInfo
	byName  map[string]*ClassInfo
}

// NewIndex builds an in-memory index over the given classes.
// A class name appearing twice is an error.
func NewIndex(classes ...*ClassInfo) (Index, error) {
	idx := &memIndex{byName: make(map[string]*ClassInfo, len(classes))}
	for _, c := range classes {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("load: class without name in index")
		}
		if _, ok := idx.byName[c.Name]; ok {
			return nil, fmt.Errorf("load: duplicate class %q in index", c.Name)
		}
		idx.byName[c.Name] = c
		idx.classes = append(idx.classes, c)
	}
	return idx, nil
}

// MustNewIndex is like NewIndex but panics on error.
func MustNewIndex(classes ...*ClassInfo) Index {
	idx, err := NewIndex(classes...)
	if err != nil {
		panic(err)
	}
	return idx
}

func (m *memIndex) Class(name string) *ClassInfo { return m.byName[name] }

func (m *memIndex) Classes() []*ClassInfo { return m.classes }

func (m *memIndex) Annotated(annotation string) []Target {
	var targets []Target
	for _, c := range m.classes {
		if a := c.Annotations.Find(annotation); a != nil {
			targets = append(targets, Target{Kind: TargetClass, Class: c, Annotation: a})
		}
		for _, f := range c.Fields {
			if a := f.Annotations.Find(annotation); a != nil {
				targets = append(targets, Target{Kind: TargetField, Class: c, Field: f, Annotation: a})
			}
		}
		for _, mt := range c.Methods {
			if a := mt.Annotations.Find(annotation); a != nil {
				targets = append(targets, Target{Kind: TargetMethod, Class: c, Method: mt, Annotation: a})
			}
		}
	}
	return targets
}

// Composite merges several indexes. For a class defined in more than one
// index, the first definition wins everywhere.
type Composite []Index

// NewComposite returns a composite view, or the index itself when only one is given.
func NewComposite(indexes ...Index) Index {
	if len(indexes) == 1 {
		return indexes[0]
	}
	return Composite(indexes)
}

// Class implements Index.
func (c Composite) Class(name string) *ClassInfo {
	for _, idx := range c {
		if cls := idx.Class(name); cls != nil {
			return cls
		}
	}
	return nil
}

// Classes implements Index.
func (c Composite) Classes() []*ClassInfo {
	var classes []*ClassInfo
	for _, idx := range c {
		for _, cls := range idx.Classes() {
			if c.Class(cls.Name) == cls {
				classes = append(classes, cls)
			}
		}
	}
	return classes
}

// Annotated implements Index.
func (c Composite) Annotated(annotation string) []Target {
	var targets []Target
	for _, idx := range c {
		for _, t := range idx.Annotated(annotation) {
			if c.Class(t.Class.Name) == t.Class {
				targets = append(targets, t)
			}
		}
	}
	return targets
}
