package graphql

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/syssam/graphgen/compiler/gen"
)

// typename is selected by fragments of types without simple attributes.
const typename = "__typename"

// Fragment renders the fragment of t, selecting its simple attributes.
func Fragment(t *gen.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fragment %s on %s {\n", t.FragmentName(), t.Name)
	if len(t.Fields) == 0 {
		b.WriteString(indent + typename + "\n")
	}
	for _, f := range t.Fields {
		b.WriteString(indent + f.Name + "\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// Fragments renders one fragment document per registered type,
// interfaces included, in registration order. Interfaces left out of the
// schema get no fragment.
func Fragments(g *gen.Graph) []gen.Document {
	dir := filepath.ToSlash(g.FragmentPath())
	types := g.Types()
	docs := make([]gen.Document, 0, len(types))
	for _, t := range types {
		if t.Kind.IsInterface() && t.Empty() {
			continue
		}
		docs = append(docs, gen.Document{
			Path:    path.Join(dir, t.FragmentName()+".fragment"),
			Content: []byte(Fragment(t)),
		})
	}
	return docs
}
