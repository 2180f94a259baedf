package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/compiler/gen"
)

func TestSchemaMinimalNode(t *testing.T) {
	g := gen.NewGraph(nil)
	g.AddType(keyed("com.acme.Person", "Person", "id", str("name", false)))

	want := `type Person {
    id : String!
    name : String
}

`
	assert.Equal(t, want, Schema(g))
}

func TestSchema(t *testing.T) {
	want := `scalar Money

enum Color {
    RED
    GREEN
}

enum Status {
    OPEN
    CLOSED
}

interface BaseIntf {
    version : Int
}

interface Named {
    name : String
}

type LineItem @relation(name: "CONTAINS", from: "sourceNode", to: "product") {
    quantity : Int!
    sourceNode : Order!
    product : Product!
}

type Order {
    id : String!
    items : [LineItem!] @relation(name: "CONTAINS", direction: "OUT")
}

type Person implements Named & BaseIntf {
    id : String!
    name : String
    tags : [String!]
    price : Money
    status : Status
    friends : [Person!] @relation(name: "KNOWS", direction: "OUT")
}

type Product {
    sku : String!
}

`
	assert.Equal(t, want, Schema(shop(t)))
}

func TestSchemaDocument(t *testing.T) {
	doc := SchemaDocument(shop(t))
	assert.Equal(t, gen.DefaultSchemaFile, doc.Path)
	assert.Contains(t, string(doc.Content), "type Product {")
}

func TestSchemaRelationEndpoints(t *testing.T) {
	g := gen.NewGraph(nil)
	customer := keyed("com.acme.Customer", "Customer", "id")
	product := keyed("com.acme.Product", "Product", "sku")
	rel := gen.NewType(gen.KindRelation, "com.acme.Purchase", "Purchase")
	rel.Relation = "BOUGHT"
	rel.SetFrom("buyer", "com.acme.Customer")
	rel.SetTo("item", "com.acme.Product")
	edge(customer, &gen.Edge{Name: "purchases", Class: "com.acme.Purchase", Relation: "BOUGHT", Direction: gen.Out, Required: true, Across: true})
	for _, typ := range []*gen.Type{customer, product, rel} {
		g.AddType(typ)
	}
	assert.Empty(t, g.Validate())

	schema := Schema(g)

	assert.Contains(t, schema, "type Purchase @relation(name: \"BOUGHT\", from: \"buyer\", to: \"item\") {\n    buyer : Customer!\n    item : Product!\n}\n")
	assert.Contains(t, schema, "    purchases : Purchase! @relation(name: \"BOUGHT\", direction: \"OUT\")\n")
}

func TestSchemaEmptyInterface(t *testing.T) {
	tests := []struct {
		name string
		kind gen.Kind
		want string
	}{
		{"promoted superclass", gen.KindAbstract, "type Person implements Named {\n"},
		{"declared interface", gen.KindInterface, "type Person implements Named {\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gen.NewGraph(nil)
			empty := gen.NewType(tt.kind, "com.acme.Auditable", "Auditable")
			named := node("com.acme.Named", "Named", str("name", false))
			named.Kind = gen.KindInterface
			g.AddInterface(empty)
			g.AddInterface(named)
			person := keyed("com.acme.Person", "Person", "id", str("name", false))
			person.AddInterface(empty)
			person.AddInterface(named)
			g.AddType(person)
			require.Empty(t, g.Validate())

			schema := Schema(g)

			assert.NotContains(t, schema, "Auditable")
			assert.Contains(t, schema, "interface Named {\n")
			assert.Contains(t, schema, tt.want)

			frags := Fragments(g)
			for _, d := range frags {
				assert.NotContains(t, d.Path, "Auditable")
			}
			assert.NoError(t, Verify(SchemaDocument(g), frags, Queries(g, nil)))
		})
	}

	t.Run("only interface", func(t *testing.T) {
		g := gen.NewGraph(nil)
		empty := gen.NewType(gen.KindAbstract, "com.acme.Auditable", "Auditable")
		g.AddInterface(empty)
		user := keyed("com.acme.User", "User", "id")
		user.AddInterface(empty)
		g.AddType(user)
		require.Empty(t, g.Validate())

		assert.Equal(t, "type User {\n    id : String!\n}\n\n", Schema(g))
		assert.NoError(t, Verify(SchemaDocument(g), Fragments(g), Queries(g, nil)))
	})
}
