package gen

import (
	"slices"
)

// Scalar is a GraphQL scalar or enum type. Scalars are identified by name.
type Scalar struct {
	Name string
	// Values holds the enum values in declaration order.
	Values []string
	Enum   bool
}

// ScalarMapping declares a custom scalar and the classes it represents.
type ScalarMapping struct {
	Name    string   `mapstructure:"name" yaml:"name" validate:"required"`
	Classes []string `mapstructure:"classes" yaml:"classes" validate:"required,min=1,dive,required"`
}

// Built-in GraphQL scalars.
var (
	ScalarInt     = &Scalar{Name: "Int"}
	ScalarFloat   = &Scalar{Name: "Float"}
	ScalarString  = &Scalar{Name: "String"}
	ScalarBoolean = &Scalar{Name: "Boolean"}
	ScalarID      = &Scalar{Name: "ID"}
)

var builtinScalars = map[string]*Scalar{
	"java.lang.Integer": ScalarInt,
	"java.lang.Long":    ScalarInt,
	"java.lang.Short":   ScalarInt,
	"int":               ScalarInt,
	"long":              ScalarInt,
	"short":             ScalarInt,
	"kotlin.Int":        ScalarInt,
	"kotlin.Long":       ScalarInt,
	"kotlin.Short":      ScalarInt,
	"java.lang.Float":   ScalarFloat,
	"java.lang.Double":  ScalarFloat,
	"java.lang.Number":  ScalarFloat,
	"float":             ScalarFloat,
	"double":            ScalarFloat,
	"kotlin.Float":      ScalarFloat,
	"kotlin.Double":     ScalarFloat,
	"java.lang.Boolean": ScalarBoolean,
	"boolean":           ScalarBoolean,
	"kotlin.Boolean":    ScalarBoolean,
	"java.lang.String":  ScalarString,
	"kotlin.String":     ScalarString,
}

// neo4jScalars are the native Neo4j temporal and spatial types, plus Instant.
// The order is the declaration order in the schema.
var neo4jScalars = []struct {
	class  string
	scalar string
}{
	{"org.neo4j.graphdb.spatial.Point", "Point"},
	{"java.time.LocalDate", "Date"},
	{"java.time.LocalTime", "LocalTime"},
	{"java.time.OffsetTime", "Time"},
	{"java.time.ZonedDateTime", "DateTime"},
	{"java.time.LocalDateTime", "LocalDateTime"},
	{"java.time.Instant", "DateTime"},
	{"java.time.Duration", "Duration"},
}

// Scalars maps classes to scalars and tracks the scalars that must be
// declared in the schema.
type Scalars struct {
	byClass  map[string]*Scalar
	declared []*Scalar
}

// NewScalars returns the built-in registry, optionally extended with
// the Neo4j scalar set.
func NewScalars(extensions bool) *Scalars {
	s := &Scalars{byClass: make(map[string]*Scalar, len(builtinScalars))}
	for class, sc := range builtinScalars {
		s.byClass[class] = sc
	}
	if extensions {
		for _, n := range neo4jScalars {
			s.byClass[n.class] = s.declare(&Scalar{Name: n.scalar})
		}
	}
	return s
}

// declare adds sc to the declared set unless a scalar with the same
// name is already declared, and returns the declared instance.
func (s *Scalars) declare(sc *Scalar) *Scalar {
	for _, d := range s.declared {
		if d.Name == sc.Name {
			return d
		}
	}
	s.declared = append(s.declared, sc)
	return sc
}

// AddMapping declares a user scalar for the mapped classes.
func (s *Scalars) AddMapping(m ScalarMapping) *Scalar {
	sc := s.declare(&Scalar{Name: m.Name})
	for _, class := range m.Classes {
		s.byClass[class] = sc
	}
	return sc
}

// Bind maps a class to a scalar or enum.
func (s *Scalars) Bind(class string, sc *Scalar) {
	s.byClass[class] = sc
}

// Lookup returns the scalar for the class, or nil.
func (s *Scalars) Lookup(class string) *Scalar {
	return s.byClass[class]
}

// Declared returns the declared custom scalars in insertion order.
func (s *Scalars) Declared() []*Scalar {
	return slices.Clone(s.declared)
}
