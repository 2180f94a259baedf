package graphql

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"gopkg.in/yaml.v3"

	"github.com/syssam/graphgen/compiler/gen"
)

// QueryDocument is the structure of a rendered query document.
type QueryDocument struct {
	Params    map[string]string `yaml:"params"`
	Fragments []string          `yaml:"fragments"`
	Query     string            `yaml:"query"`
}

// ParseQueryDocument decodes a query document.
func ParseQueryDocument(b []byte) (*QueryDocument, error) {
	var doc QueryDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Verify parses the schema, every fragment and the query of every query
// document. A query must also list each fragment it spreads. All failures
// are returned joined, each as a GenerationError of the verify phase.
func Verify(schema gen.Document, fragments, queries []gen.Document) error {
	var errs []error
	if _, err := parser.ParseSchema(source(schema.Path, string(schema.Content))); err != nil {
		errs = append(errs, gen.NewGenerationError("verify", schema.Path, "invalid schema", err))
	}
	for _, doc := range fragments {
		if _, err := parser.ParseQuery(source(doc.Path, string(doc.Content))); err != nil {
			errs = append(errs, gen.NewGenerationError("verify", doc.Path, "invalid fragment", err))
		}
	}
	for _, doc := range queries {
		if err := verifyQuery(doc); err != nil {
			errs = append(errs, gen.NewGenerationError("verify", doc.Path, "invalid query document", err))
		}
	}
	return errors.Join(errs...)
}

func verifyQuery(doc gen.Document) error {
	q, err := ParseQueryDocument(doc.Content)
	if err != nil {
		return err
	}
	parsed, err := parser.ParseQuery(source(doc.Path, q.Query))
	if err != nil {
		return err
	}
	for _, op := range parsed.Operations {
		for _, name := range spreads(op.SelectionSet, nil) {
			if !slices.Contains(q.Fragments, name) {
				return fmt.Errorf("fragment %s is not included", name)
			}
		}
	}
	return nil
}

// spreads collects the fragment spreads of a selection set.
func spreads(set ast.SelectionSet, names []string) []string {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *ast.FragmentSpread:
			names = append(names, sel.Name)
		case *ast.Field:
			names = spreads(sel.SelectionSet, names)
		case *ast.InlineFragment:
			names = spreads(sel.SelectionSet, names)
		}
	}
	return names
}

func source(name, input string) *ast.Source {
	return &ast.Source{Name: name, Input: input}
}
