package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/compiler/load"
)

func config(t *testing.T, index string, opts ...gen.Option) *gen.Config {
	t.Helper()
	opts = append([]gen.Option{
		gen.WithIndex(index),
		gen.WithTarget(filepath.Join(t.TempDir(), "resources")),
		gen.WithPackage("com.acme.graphql"),
		gen.WithVerify(true),
	}, opts...)
	cfg, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	return cfg
}

func read(t *testing.T, path ...string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(path...))
	require.NoError(t, err)
	return string(b)
}

func touch(t *testing.T, path ...string) string {
	t.Helper()
	p := filepath.Join(path...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("// hand written\n"), 0o644))
	return p
}

func TestGenerate(t *testing.T) {
	repoDir := t.TempDir()
	cfg := config(t, "testdata/shop.yaml",
		gen.WithFeatureNames("fragments", "constraints", "queries", "repositories"),
		gen.WithQueryDir("queries"),
		gen.WithRepository(&gen.RepositoryConfig{Dir: repoDir, Language: gen.LangJava}),
	)

	res, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.NotEmpty(t, res.RunID)

	dir := cfg.ResourceDir()
	assert.Contains(t, read(t, dir, "schema.graphql"), "type Person {")
	assert.Contains(t, read(t, dir, "fragments", "ItemFields.fragment"), "fragment ItemFields on Item {")
	assert.Equal(t,
		"CREATE INDEX index_Person_id IF NOT EXISTS FOR (n:Person) ON (n.id);\n"+
			"CREATE CONSTRAINT constraint_Person_id IF NOT EXISTS FOR (n:Person) REQUIRE n.id IS UNIQUE;\n"+
			"\n"+
			"CREATE INDEX index_Order_id IF NOT EXISTS FOR (n:Order) ON (n.id);\n"+
			"CREATE CONSTRAINT constraint_Order_id IF NOT EXISTS FOR (n:Order) REQUIRE n.id IS UNIQUE;\n"+
			"\n"+
			"CREATE INDEX index_Item_sku IF NOT EXISTS FOR (n:Item) ON (n.sku);\n"+
			"CREATE CONSTRAINT constraint_Item_sku IF NOT EXISTS FOR (n:Item) REQUIRE n.sku IS UNIQUE;\n"+
			"\n",
		read(t, dir, "schema.constraint"))
	for _, q := range []string{"persons", "personByKey", "orders", "orderByKey", "items", "itemByKey"} {
		assert.FileExists(t, filepath.Join(dir, "queries", q+".query"))
	}
	assert.Equal(t, len(res.Resources), res.Metrics.FilesWritten)

	assert.Equal(t, []string{"PersonRepository.java", "OrderRepository.java", "ProductRepository.java"}, res.Repositories)
	stub := read(t, repoDir, "com", "acme", "graphql", "repository", "ProductRepository.java")
	assert.Contains(t, stub, "package com.acme.graphql.repository;")
	assert.Contains(t, stub, `singleEntityQuery("itemByKey", params)`)
	assert.False(t, res.Copied)
}

func TestGenerateSourceOverrides(t *testing.T) {
	src := t.TempDir()
	repoDir := t.TempDir()
	touch(t, src, "com", "acme", "graphql", "repository", "OrderRepository.java")
	touch(t, src, "com", "acme", "graphql", "queries", "orders.query")
	stale := touch(t, repoDir, "com", "acme", "graphql", "repository", "CustomerRepository.java")

	cfg := config(t, "testdata/shop.yaml",
		gen.WithFeatureNames("queries", "repositories"),
		gen.WithQueryDir("queries"),
		gen.WithSourceRoots(src),
		gen.WithRepository(&gen.RepositoryConfig{Dir: repoDir}),
	)

	res, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotContains(t, res.Repositories, "OrderRepository.java")
	assert.NoFileExists(t, stale)
	assert.NoFileExists(t, filepath.Join(cfg.ResourceDir(), "queries", "orders.query"))
	assert.FileExists(t, filepath.Join(cfg.ResourceDir(), "queries", "orderByKey.query"))
}

func TestGenerateModelErrors(t *testing.T) {
	copyTo := t.TempDir()
	cfg := config(t, "testdata/broken.yaml", gen.WithCopyTo(copyTo), gen.WithFeatureNames("constraints"))

	res, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	require.NotEmpty(t, res.Errors)
	assert.Error(t, res.Err())
	assert.ErrorContains(t, res.Err(), "com.acme.model.Pet")
	assert.False(t, res.Graph.HasType("com.acme.model.Shelf"))
	assert.FileExists(t, filepath.Join(cfg.ResourceDir(), "schema.graphql"))
	assert.False(t, res.Copied)
	assert.NoDirExists(t, filepath.Join(copyTo, "com"))
}

func TestGenerateCopyTo(t *testing.T) {
	copyTo := t.TempDir()
	cfg := config(t, "testdata/shop.yaml", gen.WithCopyTo(copyTo), gen.WithFeatureNames("fragments"))

	res, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, res.Copied)
	assert.Equal(t,
		read(t, cfg.ResourceDir(), "schema.graphql"),
		read(t, copyTo, "com", "acme", "graphql", "schema.graphql"))
	assert.FileExists(t, filepath.Join(copyTo, "com", "acme", "graphql", "fragments", "PersonFields.fragment"))
}

func TestGenerateCleanup(t *testing.T) {
	cfg := config(t, "testdata/shop.yaml", gen.WithFeatureNames("fragments", "constraints"))
	_, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	fragment := filepath.Join(cfg.ResourceDir(), "fragments", "PersonFields.fragment")
	require.FileExists(t, fragment)

	cfg.Features = nil
	_, err = Generate(context.Background(), cfg)
	require.NoError(t, err)

	assert.NoFileExists(t, fragment)
	assert.NoFileExists(t, filepath.Join(cfg.ResourceDir(), "schema.constraint"))
	assert.FileExists(t, filepath.Join(cfg.ResourceDir(), "schema.graphql"))
}

func TestGenerateVerifyFailure(t *testing.T) {
	index := filepath.Join(t.TempDir(), "index.yaml")
	require.NoError(t, os.WriteFile(index, []byte(`classes:
  - name: com.acme.Product
    annotations:
      - name: NodeEntity
        values:
          label: [Bad Label]
    fields:
      - name: sku
        type: java.lang.String
        annotations:
          - name: NodeKey
`), 0o644))
	cfg := config(t, index)

	_, err := Generate(context.Background(), cfg)

	require.Error(t, err)
	assert.True(t, gen.IsGenerationError(err))
	assert.NoFileExists(t, filepath.Join(cfg.ResourceDir(), "schema.graphql"))
}

func TestGenerateFatal(t *testing.T) {
	t.Run("missing index", func(t *testing.T) {
		_, err := Generate(context.Background(), config(t, "testdata/missing.yaml"))
		assert.ErrorIs(t, err, load.ErrIndexNotFound)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := Generate(context.Background(), &gen.Config{Index: []string{"testdata/shop.yaml"}})
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Generate(ctx, config(t, "testdata/shop.yaml"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestModel(t *testing.T) {
	g, errs, err := Model(context.Background(), config(t, "testdata/shop.yaml"))
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.True(t, g.HasType("com.acme.model.LineItem"))
	assert.Equal(t, "Status", g.Enum("com.acme.model.Status").Name)

	_, _, err = Model(context.Background(), nil)
	assert.True(t, gen.IsConfigError(err))
}
