package gen

import (
	"fmt"
	"slices"
	"strings"
)

// Direction of a relationship, seen from the owning type.
type Direction string

// Relationship directions.
const (
	Out Direction = "OUT"
	In  Direction = "IN"
)

// ParseDirection parses a direction name. The empty string is Out.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "OUT", "OUTGOING":
		return Out, nil
	case "IN", "INCOMING":
		return In, nil
	default:
		return "", fmt.Errorf("unknown relationship direction %q", s)
	}
}

// Edge is a relationship attribute.
type Edge struct {
	// Name is the schema name of the attribute.
	Name string
	// Class is the element class the attribute points to.
	Class string
	// Type is the target type, set by Resolve.
	Type *Type
	// Relation is the relationship label.
	Relation string
	// Direction of the relationship.
	Direction Direction
	// Required renders as a non-null type.
	Required bool
	// Collection renders as a list.
	Collection bool
	// Cascades holds the cascade markers (DELETE, ALL, ...).
	Cascades []string
	// Across is set when the target is a relationship entity.
	Across bool
}

// Cascading reports whether the edge cascades deletes, which makes
// query expansion follow it.
func (e *Edge) Cascading() bool {
	return slices.Contains(e.Cascades, "DELETE") || slices.Contains(e.Cascades, "ALL")
}

// TypeName returns the schema name of the target, or its class name
// before resolution.
func (e *Edge) TypeName() string {
	if e.Type != nil {
		return e.Type.Name
	}
	return simpleName(e.Class)
}
