// Package cypher renders the Cypher constraint script of a schema model
// and applies it to a Neo4j database.
package cypher

import (
	"fmt"
	"strings"

	"github.com/syssam/graphgen/compiler/gen"
)

// Constraints renders an index and a uniqueness constraint for every node
// type with exactly one key attribute, in registration order.
func Constraints(g *gen.Graph) string {
	var b strings.Builder
	for _, t := range g.Types() {
		if t.Kind != gen.KindNode || len(t.Key) != 1 {
			continue
		}
		key := t.Key[0].Name
		fmt.Fprintf(&b, "CREATE INDEX index_%s_%s IF NOT EXISTS FOR (n:%s) ON (n.%s);\n", t.Name, key, t.Name, key)
		fmt.Fprintf(&b, "CREATE CONSTRAINT constraint_%s_%s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE;\n", t.Name, key, t.Name, key)
		b.WriteString("\n")
	}
	return b.String()
}

// ConstraintDocument renders the constraint script of g as a document
// named after the schema file.
func ConstraintDocument(g *gen.Graph) gen.Document {
	return gen.Document{Path: g.ConstraintFileName(), Content: []byte(Constraints(g))}
}

// Statements splits a script into its statements. Line comments and blank
// statements are dropped, and the terminating semicolons removed.
func Statements(script string) []string {
	var (
		stmts []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		for {
			i := strings.IndexByte(line, ';')
			if i < 0 {
				break
			}
			cur.WriteString(line[:i])
			flush()
			line = line[i+1:]
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush()
	return stmts
}
