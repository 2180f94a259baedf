package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/contrib/cypher"
	"github.com/syssam/graphgen/internal/config"
)

const script = "CREATE INDEX index_Person_id IF NOT EXISTS FOR (n:Person) ON (n.id);\n" +
	"CREATE CONSTRAINT constraint_Person_id IF NOT EXISTS FOR (n:Person) REQUIRE n.id IS UNIQUE;\n" +
	"\n" +
	"CREATE INDEX index_Order_id IF NOT EXISTS FOR (n:Order) ON (n.id);\n" +
	"CREATE CONSTRAINT constraint_Order_id IF NOT EXISTS FOR (n:Order) REQUIRE n.id IS UNIQUE;\n" +
	"\n" +
	"CREATE INDEX index_Item_sku IF NOT EXISTS FOR (n:Item) ON (n.sku);\n" +
	"CREATE CONSTRAINT constraint_Item_sku IF NOT EXISTS FOR (n:Item) REQUIRE n.sku IS UNIQUE;\n" +
	"\n"

// project writes a configuration file reading the given compiler test
// index and returns its path with the output directory.
func project(t *testing.T, index string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	abs, err := filepath.Abs(filepath.Join("..", "..", "compiler", "testdata", index))
	require.NoError(t, err)
	out := filepath.Join(dir, "resources")
	path := filepath.Join(dir, config.FileName)
	content := fmt.Sprintf("index:\n  - %s\noutput:\n  dir: %s\n  package: com.acme.graphql\nlog:\n  level: error\n", abs, out)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, out
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "graphgen version: dev")
	assert.Contains(t, out, "Go version: go")
}

func TestGenerateCommand(t *testing.T) {
	path, dir := project(t, "shop.yaml")

	out, err := run(t, "generate", "--config", path, "--feature", "queries")

	require.NoError(t, err)
	assert.Contains(t, out, "Generated ")
	assert.NotContains(t, out, "model errors")
	res := filepath.Join(dir, "com", "acme", "graphql")
	assert.FileExists(t, filepath.Join(res, "schema.graphql"))
	assert.FileExists(t, filepath.Join(res, "schema.constraint"))
	assert.FileExists(t, filepath.Join(res, "personByKey.query"))
}

func TestGenerateCommandOverrides(t *testing.T) {
	path, _ := project(t, "shop.yaml")
	out := filepath.Join(t.TempDir(), "elsewhere")

	_, err := run(t, "generate", "--config", path, "--out", out)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "com", "acme", "graphql", "schema.graphql"))
}

func TestGenerateCommandModelErrors(t *testing.T) {
	path, _ := project(t, "broken.yaml")

	t.Run("reported", func(t *testing.T) {
		out, err := run(t, "generate", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "model errors, affected classes were left out")
		assert.Contains(t, out, "com.acme.model.Pet")
	})

	t.Run("strict", func(t *testing.T) {
		_, err := run(t, "generate", "--config", path, "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "strict mode:")
	})
}

func TestGenerateCommandErrors(t *testing.T) {
	path, _ := project(t, "shop.yaml")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing config", args: []string{"generate", "--config", filepath.Join(t.TempDir(), "none.yaml")}, want: "config: read"},
		{name: "unknown feature", args: []string{"generate", "--config", path, "--feature", "resolvers"}, want: "unknown feature"},
		{name: "missing index", args: []string{"generate", "--config", path, "--index", filepath.Join(t.TempDir(), "none.yaml")}, want: "none.yaml"},
		{name: "bad log level", args: []string{"generate", "--config", path, "--log-level", "loud"}, want: "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConstraintsPrint(t *testing.T) {
	path, dir := project(t, "shop.yaml")

	out, err := run(t, "constraints", "print", "--config", path)

	require.NoError(t, err)
	assert.Equal(t, script, out)
	assert.NoDirExists(t, dir)
}

type fakeRunner struct {
	conn       cypher.Neo4jConfig
	statements []string
	fail       bool
	closed     bool
}

func (r *fakeRunner) Run(_ context.Context, stmt string) error {
	if r.fail {
		return errors.New("unauthorized")
	}
	r.statements = append(r.statements, stmt)
	return nil
}

func (r *fakeRunner) Close(context.Context) error {
	r.closed = true
	return nil
}

func stubRunner(t *testing.T, r *fakeRunner) {
	t.Helper()
	prev := newRunner
	newRunner = func(_ context.Context, c cypher.Neo4jConfig) (runner, error) {
		r.conn = c
		return r, nil
	}
	t.Cleanup(func() { newRunner = prev })
}

func TestConstraintsApply(t *testing.T) {
	path, _ := project(t, "shop.yaml")

	t.Run("applies every statement", func(t *testing.T) {
		r := &fakeRunner{}
		stubRunner(t, r)

		out, err := run(t, "constraints", "apply", "--config", path, "--uri", "bolt://db:7687", "--database", "shop")

		require.NoError(t, err)
		assert.Contains(t, out, "Applied 6 statements")
		require.Len(t, r.statements, 6)
		assert.Equal(t, "CREATE INDEX index_Person_id IF NOT EXISTS FOR (n:Person) ON (n.id)", r.statements[0])
		assert.Equal(t, "bolt://db:7687", r.conn.URI)
		assert.Equal(t, "shop", r.conn.Database)
		assert.Equal(t, "neo4j", r.conn.Username)
		assert.True(t, r.closed)
	})

	t.Run("failure", func(t *testing.T) {
		r := &fakeRunner{fail: true}
		stubRunner(t, r)

		_, err := run(t, "constraints", "apply", "--config", path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unauthorized")
		assert.Equal(t, "neo4j://localhost:7687", r.conn.URI)
		assert.True(t, r.closed)
	})
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)

	out, err := run(t, "init", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = run(t, "init", "--file", path)
	assert.Error(t, err, "an existing file is kept")
}

func TestInitInteractive(t *testing.T) {
	prev := askOne
	t.Cleanup(func() { askOne = prev })
	answers := map[string]string{
		"Annotation index:":                        "build/classes/index.yaml",
		"Resource package:":                        "com.acme.graphql",
		"Repository base type (import/path.Name):": "github.com/acme/ogm.Repository",
		"Model package import path:":               "github.com/acme/shop/model",
	}
	askOne = func(p survey.Prompt, resp interface{}, _ ...survey.AskOpt) error {
		switch p := p.(type) {
		case *survey.Input:
			*resp.(*string) = answers[p.Message]
		case *survey.MultiSelect:
			*resp.(*[]string) = []string{"fragments", "repositories"}
		case *survey.Select:
			*resp.(*string) = "go"
		}
		return nil
	}
	path := filepath.Join(t.TempDir(), config.FileName)

	_, err := run(t, "init", "--interactive", "--file", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"build/classes/index.yaml"}, cfg.Index)
	assert.Equal(t, "com.acme.graphql", cfg.Output.Package)
	assert.Equal(t, []string{"fragments", "repositories"}, cfg.Features)
	assert.Equal(t, "go", cfg.Repository.Language)
	assert.Equal(t, "github.com/acme/ogm.Repository", cfg.Repository.BaseClass)
	assert.Equal(t, "github.com/acme/shop/model", cfg.Repository.ModelPackage)
}
