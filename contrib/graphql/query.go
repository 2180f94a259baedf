package graphql

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/syssam/graphgen/compiler/gen"
)

// Filter decides which query documents are rendered. It is called once
// per node type with an empty file name, and again with the file name of
// each of its documents.
type Filter func(t *gen.Type, file string) bool

// All accepts every type and document.
func All(*gen.Type, string) bool { return true }

// Queries renders the get-all and get-by-key documents of every node
// type accepted by filter. A nil filter accepts everything.
func Queries(g *gen.Graph, filter Filter) []gen.Document {
	if filter == nil {
		filter = All
	}
	dir := filepath.ToSlash(g.QueryPath())
	var docs []gen.Document
	for _, t := range g.Types() {
		if t.Kind != gen.KindNode || !filter(t, "") {
			continue
		}
		if file := GetAllFile(t); filter(t, file) {
			docs = append(docs, gen.Document{Path: path.Join(dir, file), Content: []byte(GetAll(t))})
		}
		if len(t.Key) == 0 {
			continue
		}
		if file := ByKeyFile(t); filter(t, file) {
			docs = append(docs, gen.Document{Path: path.Join(dir, file), Content: []byte(ByKey(t))})
		}
	}
	return docs
}

// GetAllName is the operation name of the get-all query of t.
func GetAllName(t *gen.Type) string {
	return gen.Pluralize(t.QueryName())
}

// ByKeyName is the operation name of the get-by-key query of t.
func ByKeyName(t *gen.Type) string {
	return t.QueryName() + "ByKey"
}

// GetAllFile is the file name of the get-all query of t.
func GetAllFile(t *gen.Type) string { return GetAllName(t) + ".query" }

// ByKeyFile is the file name of the get-by-key query of t.
func ByKeyFile(t *gen.Type) string { return ByKeyName(t) + ".query" }

// GetAll renders the query document selecting every instance of t.
// Relationships are expanded when they cascade deletes.
func GetAll(t *gen.Type) string {
	sels := gen.Closure(t, false)
	var b strings.Builder
	b.WriteString("params: {}\n")
	writeFragments(&b, gen.Fragments(t, sels))
	b.WriteString("query: |\n")
	fmt.Fprintf(&b, "  query %s {\n", GetAllName(t))
	fmt.Fprintf(&b, "    %s {\n", t.QueryName())
	writeBody(&b, t, sels)
	b.WriteString("    }\n  }\n")
	return b.String()
}

// ByKey renders the query document selecting one instance of t by its
// key attributes. Every relationship of t itself is expanded.
func ByKey(t *gen.Type) string {
	sels := gen.Closure(t, true)
	var (
		b          strings.Builder
		params     = make([]string, len(t.Key))
		conditions = make([]string, len(t.Key))
	)
	b.WriteString("params:\n")
	for i, k := range t.Key {
		fmt.Fprintf(&b, "  %s: %s\n", k.Name, k.ScalarName())
		params[i] = fmt.Sprintf("$%s: %s!", k.Name, k.ScalarName())
		conditions[i] = fmt.Sprintf("%s: $%s", k.Name, k.Name)
	}
	writeFragments(&b, gen.Fragments(t, sels))
	b.WriteString("query: |\n")
	fmt.Fprintf(&b, "  query %s(%s) {\n", ByKeyName(t), strings.Join(params, ", "))
	fmt.Fprintf(&b, "    %s(%s) {\n", t.QueryName(), strings.Join(conditions, ", "))
	writeBody(&b, t, sels)
	b.WriteString("    }\n  }\n")
	return b.String()
}

func writeFragments(b *strings.Builder, names []string) {
	b.WriteString("fragments:\n")
	for _, name := range names {
		fmt.Fprintf(b, "  - %s\n", name)
	}
}

func writeBody(b *strings.Builder, t *gen.Type, sels []*gen.Selection) {
	fmt.Fprintf(b, "      ...%s\n", t.FragmentName())
	for _, sel := range sels {
		writeSelection(b, sel, 3)
	}
}

// writeSelection prints sel at depth levels of two spaces.
func writeSelection(b *strings.Builder, sel *gen.Selection, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s {\n", pad, sel.Name)
	fmt.Fprintf(b, "%s  ...%s\n", pad, sel.Type.FragmentName())
	for _, child := range sel.Children {
		writeSelection(b, child, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", pad)
}
