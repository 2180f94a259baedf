package gen

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/syssam/graphgen/compiler/load"
)

// classified is the outcome of classifying a member type. The member is
// a simple attribute when Scalar is set, and a relationship attribute to
// Element otherwise.
type classified struct {
	Element    *load.Type
	Collection bool
	Required   bool
	Scalar     *Scalar
}

// classify resolves the element type, the collection and required flags,
// and the scalar or enum of a member.
func (s *Scanner) classify(t *Type, m member, name string) (*classified, error) {
	if m.Type == nil {
		return nil, NewAttributeError(t.Class, name, "member has no type", nil)
	}
	c := &classified{}
	var err error
	if c.Collection, err = s.isCollection(m.Type); err != nil {
		return nil, NewAttributeError(t.Class, name, "unable to load type", err)
	}
	if c.Element, err = element(m.Type, c.Collection); err != nil {
		return nil, NewAttributeError(t.Class, name, err.Error(), nil)
	}
	c.Required = s.required(m)
	c.Scalar = s.scalarOf(m.Type, c.Collection)
	if c.Scalar != nil {
		return c, nil
	}
	switch c.Element.Kind {
	case load.KindVariable:
		return nil, NewAttributeError(t.Class, name, fmt.Sprintf("unable to handle type variable %s", c.Element), nil)
	case load.KindParameterized, load.KindPrimitive:
		// Nested collections and unmapped primitives are never enums.
		return c, nil
	}
	cls, err := s.loader.LoadClass(c.Element.Name)
	if err != nil {
		return nil, NewAttributeError(t.Class, name, "unable to load type", err)
	}
	if cls.Enum {
		c.Scalar = s.enum(cls)
	}
	return c, nil
}

// elementOf returns the element type of a member without classifying
// it, or nil when it cannot be determined. No enum is registered.
func (s *Scanner) elementOf(m member) *load.Type {
	if m.Type == nil {
		return nil
	}
	collection, err := s.isCollection(m.Type)
	if err != nil {
		return nil
	}
	elem, err := element(m.Type, collection)
	if err != nil {
		return nil
	}
	return elem
}

// isCollection reports whether the declared type is an array or a
// parameterized collection.
func (s *Scanner) isCollection(typ *load.Type) (bool, error) {
	switch typ.Kind {
	case load.KindArray:
		return true, nil
	case load.KindParameterized:
		cls, err := s.loader.LoadClass(typ.Name)
		if err != nil {
			return false, err
		}
		return cls.Collection, nil
	default:
		return false, nil
	}
}

// element returns the element type of an array or collection, or the type
// itself. A wildcard element is replaced by its upper bound.
func element(typ *load.Type, collection bool) (*load.Type, error) {
	var elem *load.Type
	switch {
	case typ.Kind == load.KindArray:
		elem = typ.Component
	case typ.Kind == load.KindParameterized && collection:
		if len(typ.Arguments) != 1 {
			return nil, fmt.Errorf("unable to handle parameterized type %s", typ)
		}
		elem = typ.Arguments[0]
	default:
		return typ, nil
	}
	if elem.Kind == load.KindVariable && elem.Name == "?" && elem.Component != nil {
		elem = elem.Component
	}
	return elem, nil
}

// scalarOf looks up the scalar of a declared type.
func (s *Scanner) scalarOf(typ *load.Type, collection bool) *Scalar {
	switch typ.Kind {
	case load.KindPrimitive, load.KindClass:
		return s.graph.Scalar(typ.Name)
	case load.KindArray:
		return s.scalarOf(typ.Component, false)
	case load.KindParameterized:
		if !collection {
			return nil
		}
		elem, err := element(typ, true)
		if err != nil || elem.Kind == load.KindVariable {
			return nil
		}
		return s.graph.Scalar(elem.Name)
	default:
		return nil
	}
}

// enum returns the registered enum of cls, registering it when the class
// was not marked as a schema enum.
func (s *Scanner) enum(cls *load.LoadedClass) *Scalar {
	if e := s.graph.Enum(cls.Name); e != nil {
		return e
	}
	e := &Scalar{Name: load.SimpleName(cls.Name), Values: uniq(cls.EnumConstants)}
	s.log.Warn("enum added without @SchemaEnum", zap.String("class", cls.Name))
	s.graph.AddEnum(cls.Name, e)
	return e
}

// required reports whether the member renders as non-null. Unknown
// nullability is optional.
func (s *Scanner) required(m member) bool {
	if m.Type.Kind == load.KindPrimitive || m.has(NodeKey) {
		return true
	}
	if v, ok := m.annotation(NodeAttribute).Bool("required"); ok && v {
		return true
	}
	if m.Declaring == nil || !m.Declaring.Annotations.Has(KotlinMetadata) {
		return false
	}
	cls, err := s.loader.LoadClass(m.Declaring.Name)
	if err != nil {
		s.log.Warn("unable to load declaring class", zap.String("class", m.Declaring.Name), zap.Error(err))
		return false
	}
	nullable, known := cls.IsMemberNullable(m.Name)
	return known && !nullable
}

func uniq(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
