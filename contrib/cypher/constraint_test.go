package cypher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/compiler/gen"
)

func keyed(class, name string, keys ...string) *gen.Type {
	t := gen.NewType(gen.KindNode, class, name)
	for _, k := range keys {
		f := &gen.Field{Name: k, Scalar: gen.ScalarString, Required: true}
		t.AddField(f)
		t.AddKey(f)
	}
	return t
}

func model() *gen.Graph {
	g := gen.NewGraph(&gen.Config{SchemaFile: "shop.graphql"})
	g.AddType(keyed("com.acme.Person", "Person", "id"))
	g.AddType(keyed("com.acme.Order", "Order"))
	g.AddType(keyed("com.acme.Product", "Item", "sku"))
	g.AddType(keyed("com.acme.Pair", "Pair", "left", "right"))
	named := gen.NewType(gen.KindInterface, "com.acme.Named", "Named")
	named.AddField(&gen.Field{Name: "name", Scalar: gen.ScalarString})
	named.AddKey(named.Fields[0])
	g.AddInterface(named)
	return g
}

func TestConstraints(t *testing.T) {
	want := "CREATE INDEX index_Person_id IF NOT EXISTS FOR (n:Person) ON (n.id);\n" +
		"CREATE CONSTRAINT constraint_Person_id IF NOT EXISTS FOR (n:Person) REQUIRE n.id IS UNIQUE;\n" +
		"\n" +
		"CREATE INDEX index_Item_sku IF NOT EXISTS FOR (n:Item) ON (n.sku);\n" +
		"CREATE CONSTRAINT constraint_Item_sku IF NOT EXISTS FOR (n:Item) REQUIRE n.sku IS UNIQUE;\n" +
		"\n"
	assert.Equal(t, want, Constraints(model()))
}

func TestConstraintsEmpty(t *testing.T) {
	g := gen.NewGraph(nil)
	g.AddType(keyed("com.acme.Order", "Order"))
	assert.Empty(t, Constraints(g))
}

func TestConstraintDocument(t *testing.T) {
	doc := ConstraintDocument(model())
	assert.Equal(t, "shop.constraint", doc.Path)
	assert.Contains(t, string(doc.Content), "constraint_Person_id")
}

func TestStatements(t *testing.T) {
	script := "// generated\n" +
		"CREATE INDEX a;\n" +
		"CREATE CONSTRAINT b\n  REQUIRE x IS UNIQUE;\n" +
		"\n" +
		"RETURN 1; RETURN 2;\n" +
		"   \n"

	assert.Equal(t, []string{
		"CREATE INDEX a",
		"CREATE CONSTRAINT b\n  REQUIRE x IS UNIQUE",
		"RETURN 1",
		"RETURN 2",
	}, Statements(script))
	assert.Empty(t, Statements(""))
	assert.Len(t, Statements(Constraints(model())), 4)
}

type recorder struct {
	ran  []string
	fail int
}

func (r *recorder) Run(_ context.Context, stmt string) error {
	if r.fail > 0 && len(r.ran)+1 == r.fail {
		return errors.New("syntax error")
	}
	r.ran = append(r.ran, stmt)
	return nil
}

func TestApply(t *testing.T) {
	script := Constraints(model())

	t.Run("runs every statement", func(t *testing.T) {
		r := &recorder{}
		n, err := Apply(context.Background(), r, script, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "CREATE INDEX index_Person_id IF NOT EXISTS FOR (n:Person) ON (n.id)", r.ran[0])
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		r := &recorder{fail: 2}
		n, err := Apply(context.Background(), r, script, nil)
		require.Error(t, err)
		assert.Equal(t, 1, n)
		assert.Contains(t, err.Error(), "statement 2: syntax error")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n, err := Apply(ctx, &recorder{}, script, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, n)
	})
}
