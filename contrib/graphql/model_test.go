package graphql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/compiler/gen"
)

func str(name string, required bool) *gen.Field {
	return &gen.Field{Name: name, Scalar: gen.ScalarString, Required: required, Class: "java.lang.String"}
}

func node(class, name string, fields ...*gen.Field) *gen.Type {
	t := gen.NewType(gen.KindNode, class, name)
	for _, f := range fields {
		t.AddField(f)
	}
	return t
}

func keyed(class, name, key string, fields ...*gen.Field) *gen.Type {
	k := str(key, true)
	t := node(class, name, append([]*gen.Field{k}, fields...)...)
	t.AddKey(k)
	return t
}

func edge(t *gen.Type, e *gen.Edge) {
	if _, err := t.AddEdge(e); err != nil {
		panic(err)
	}
}

// shop builds a resolved model with custom scalars, enums, interfaces,
// a self reference and a relationship entity.
func shop(t *testing.T) *gen.Graph {
	t.Helper()
	g := gen.NewGraph(&gen.Config{
		SchemaFile:  gen.DefaultSchemaFile,
		FragmentDir: gen.DefaultFragmentDir,
		Scalars:     []gen.ScalarMapping{{Name: "Money", Classes: []string{"com.acme.Money"}}},
	})
	g.AddEnum("com.acme.Status", &gen.Scalar{Name: "Status", Values: []string{"OPEN", "CLOSED"}})
	g.AddEnum("com.acme.Color", &gen.Scalar{Name: "Color", Values: []string{"RED", "GREEN"}})

	named := node("com.acme.Named", "Named", str("name", false))
	named.Kind = gen.KindInterface
	base := node("com.acme.Base", "BaseIntf", &gen.Field{Name: "version", Scalar: gen.ScalarInt})
	base.Kind = gen.KindAbstract
	g.AddInterface(named)
	g.AddInterface(base)

	person := keyed("com.acme.Person", "Person", "id",
		str("name", false),
		&gen.Field{Name: "tags", Scalar: gen.ScalarString, Collection: true},
		&gen.Field{Name: "price", Scalar: g.Scalar("com.acme.Money")},
		&gen.Field{Name: "status", Scalar: g.Enum("com.acme.Status")},
	)
	person.AddInterface(named)
	person.AddInterface(base)
	edge(person, &gen.Edge{Name: "friends", Class: "com.acme.Person", Relation: "KNOWS", Direction: gen.Out, Collection: true})

	order := keyed("com.acme.Order", "Order", "id")
	edge(order, &gen.Edge{Name: "items", Class: "com.acme.LineItem", Relation: "CONTAINS", Direction: gen.Out, Collection: true, Across: true})

	item := gen.NewType(gen.KindRelation, "com.acme.LineItem", "LineItem")
	item.Relation = "CONTAINS"
	item.AddField(&gen.Field{Name: "quantity", Scalar: gen.ScalarInt, Required: true})
	item.SetTo("product", "com.acme.Product")

	product := keyed("com.acme.Product", "Product", "sku")

	for _, typ := range []*gen.Type{person, order, item, product} {
		g.AddType(typ)
	}
	require.Empty(t, g.Validate())
	return g
}
