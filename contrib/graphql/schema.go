package graphql

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/graphgen/compiler/gen"
)

// indent is the attribute indentation of schema and fragment blocks.
const indent = "    "

// Schema renders the schema definition of g. Declared scalars come
// first, in declaration order, followed by enums, interfaces and types,
// each sorted by name. Interfaces without attributes are left out, along
// with every implements clause naming them.
func Schema(g *gen.Graph) string {
	var b strings.Builder
	if scalars := g.DeclaredScalars(); len(scalars) > 0 {
		for _, s := range scalars {
			fmt.Fprintf(&b, "scalar %s\n", s.Name)
		}
		b.WriteString("\n")
	}
	for _, e := range g.Enums() {
		block(&b, "enum "+e.Name+" {", e.Values)
	}
	interfaces, types := partition(g.Types())
	for _, t := range interfaces {
		block(&b, "interface "+t.Name+" {", attributes(t))
	}
	for _, t := range types {
		block(&b, header(t), attributes(t))
	}
	return b.String()
}

// SchemaDocument renders the schema definition of g as a document.
func SchemaDocument(g *gen.Graph) gen.Document {
	return gen.Document{Path: g.SchemaFileName(), Content: []byte(Schema(g))}
}

// partition splits types into rendered interfaces and concrete types,
// both sorted by name.
func partition(all []*gen.Type) (interfaces, types []*gen.Type) {
	for _, t := range all {
		if t.Kind.IsInterface() {
			if !t.Empty() {
				interfaces = append(interfaces, t)
			}
		} else {
			types = append(types, t)
		}
	}
	byName := func(a, b *gen.Type) int { return cmp.Compare(a.Name, b.Name) }
	slices.SortStableFunc(interfaces, byName)
	slices.SortStableFunc(types, byName)
	return interfaces, types
}

func block(b *strings.Builder, open string, lines []string) {
	b.WriteString(open)
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(indent)
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func header(t *gen.Type) string {
	switch {
	case t.Kind == gen.KindRelation:
		return fmt.Sprintf("type %s @relation(name: %q, from: %q, to: %q) {", t.Name, t.Relation, t.FromName(), t.ToName())
	case len(implemented(t)) > 0:
		return fmt.Sprintf("type %s implements %s {", t.Name, strings.Join(implemented(t), " & "))
	default:
		return fmt.Sprintf("type %s {", t.Name)
	}
}

// implemented returns the names of the rendered interfaces of t.
func implemented(t *gen.Type) []string {
	var names []string
	for _, it := range t.Interfaces {
		if !it.Empty() {
			names = append(names, it.Name)
		}
	}
	return names
}

// attributes returns the attribute lines of t: simple attributes, then
// relationship attributes, or the endpoints of a relationship entity.
func attributes(t *gen.Type) []string {
	lines := make([]string, 0, len(t.Fields)+len(t.Edges)+2)
	for _, f := range t.Fields {
		lines = append(lines, fmt.Sprintf("%s : %s", f.Name, typeRef(f.ScalarName(), f.Collection, f.Required)))
	}
	if t.Kind == gen.KindRelation {
		return append(lines,
			fmt.Sprintf("%s : %s!", t.FromName(), endpointName(t.From)),
			fmt.Sprintf("%s : %s!", t.ToName(), endpointName(t.To)),
		)
	}
	for _, e := range t.Edges {
		lines = append(lines, fmt.Sprintf("%s : %s @relation(name: %q, direction: %q)",
			e.Name, typeRef(e.TypeName(), e.Collection, e.Required), e.Relation, string(e.Direction)))
	}
	return lines
}

func typeRef(name string, collection, required bool) string {
	if collection {
		name = "[" + name + "!]"
	}
	if required {
		name += "!"
	}
	return name
}

func endpointName(e *gen.Endpoint) string {
	switch {
	case e == nil:
		return ""
	case e.Type != nil:
		return e.Type.Name
	default:
		return e.Class[strings.LastIndexByte(e.Class, '.')+1:]
	}
}
