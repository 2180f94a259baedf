package graphql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/compiler/gen"
)

func TestGetAll(t *testing.T) {
	g := shop(t)

	want := `params: {}
fragments:
  - OrderFields
  - LineItemFields
  - ProductFields
query: |
  query orders {
    order {
      ...OrderFields
      items {
        ...LineItemFields
        product {
          ...ProductFields
        }
      }
    }
  }
`
	assert.Equal(t, want, GetAll(g.Type("com.acme.Order")))
}

func TestByKey(t *testing.T) {
	g := shop(t)

	want := `params:
  id: String
fragments:
  - PersonFields
query: |
  query personByKey($id: String!) {
    person(id: $id) {
      ...PersonFields
      friends {
        ...PersonFields
        friends {
          ...PersonFields
        }
      }
    }
  }
`
	assert.Equal(t, want, ByKey(g.Type("com.acme.Person")))
}

func TestByKeyCompositeKey(t *testing.T) {
	typ := keyed("com.acme.Seat", "Seat", "row")
	number := &gen.Field{Name: "number", Scalar: gen.ScalarInt, Required: true}
	typ.AddField(number)
	typ.AddKey(number)

	doc := ByKey(typ)

	assert.Contains(t, doc, "params:\n  row: String\n  number: Int\n")
	assert.Contains(t, doc, "  query seatByKey($row: String!, $number: Int!) {\n")
	assert.Contains(t, doc, "    seat(row: $row, number: $number) {\n")
}

func TestGetAllCascadeCycle(t *testing.T) {
	g := gen.NewGraph(nil)
	author := keyed("com.acme.Author", "Author", "id")
	book := keyed("com.acme.Book", "Book", "isbn")
	edge(author, &gen.Edge{Name: "books", Class: "com.acme.Book", Relation: "WROTE", Direction: gen.Out, Collection: true, Cascades: []string{"DELETE"}})
	edge(book, &gen.Edge{Name: "author", Class: "com.acme.Author", Relation: "WROTE", Direction: gen.In, Cascades: []string{"DELETE"}})
	g.AddType(author)
	g.AddType(book)
	require.Empty(t, g.Validate())

	doc := GetAll(author)

	want := `params: {}
fragments:
  - AuthorFields
  - BookFields
query: |
  query authors {
    author {
      ...AuthorFields
      books {
        ...BookFields
        author {
          ...AuthorFields
          books {
            ...BookFields
          }
        }
      }
    }
  }
`
	assert.Equal(t, want, doc)
	assert.Equal(t, 1, strings.Count(doc, "- BookFields"))
}

func TestQueries(t *testing.T) {
	g := shop(t)

	paths := func(docs []gen.Document) []string {
		var out []string
		for _, d := range docs {
			out = append(out, d.Path)
		}
		return out
	}

	t.Run("all node types", func(t *testing.T) {
		assert.Equal(t, []string{
			"persons.query", "personByKey.query",
			"orders.query", "orderByKey.query",
			"products.query", "productByKey.query",
		}, paths(Queries(g, nil)))
	})

	t.Run("filter", func(t *testing.T) {
		docs := Queries(g, func(typ *gen.Type, file string) bool {
			return typ.Name != "Order" && file != "personByKey.query"
		})
		assert.Equal(t, []string{"persons.query", "products.query", "productByKey.query"}, paths(docs))
	})

	t.Run("query directory", func(t *testing.T) {
		g.QueryDir = "queries"
		defer func() { g.QueryDir = "" }()
		assert.Equal(t, "queries/persons.query", Queries(g, nil)[0].Path)
	})

	t.Run("no key", func(t *testing.T) {
		g := gen.NewGraph(nil)
		g.AddType(node("com.acme.Note", "Note", str("text", false)))
		assert.Equal(t, []string{"notes.query"}, paths(Queries(g, nil)))
	})
}
