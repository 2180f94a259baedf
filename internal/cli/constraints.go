package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/graphgen/compiler"
	"github.com/syssam/graphgen/contrib/cypher"
)

// runner is a closable statement runner.
type runner interface {
	cypher.Runner
	Close(context.Context) error
}

// newRunner connects to the database the script is applied to.
var newRunner = func(ctx context.Context, c cypher.Neo4jConfig) (runner, error) {
	r, err := cypher.NewNeo4jRunner(ctx, c)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newConstraintsCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "Print or apply the Cypher constraint script",
	}
	cmd.AddCommand(newConstraintsPrintCommand(g))
	cmd.AddCommand(newConstraintsApplyCommand(g))
	return cmd
}

// script builds the model and renders its constraint script.
func (g *globals) script(ctx context.Context, f *genFlags) (string, error) {
	cfg, err := g.genConfig(f)
	if err != nil {
		return "", err
	}
	graph, errs, err := compiler.Model(ctx, cfg)
	if err != nil {
		return "", err
	}
	if cfg.Strict && len(errs) > 0 {
		return "", fmt.Errorf("strict mode: %d model errors", len(errs))
	}
	return cypher.Constraints(graph), nil
}

func newConstraintsPrintCommand(g *globals) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Write the constraint script to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			script, err := g.script(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newConstraintsApplyCommand(g *globals) *cobra.Command {
	var (
		f        = &genFlags{}
		uri      string
		database string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the constraint script to Neo4j",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			conn := cfg.Neo4j.Cypher()
			if uri != "" {
				conn.URI = uri
			}
			if database != "" {
				conn.Database = database
			}
			script, err := g.script(cmd.Context(), f)
			if err != nil {
				return err
			}
			r, err := newRunner(cmd.Context(), conn)
			if err != nil {
				return err
			}
			defer func() {
				if err := r.Close(context.WithoutCancel(cmd.Context())); err != nil {
					log.Warn("close neo4j driver", zap.Error(err))
				}
			}()
			n, err := cypher.Apply(cmd.Context(), r, script, log)
			if err != nil {
				return err
			}
			successColor.Fprintf(cmd.OutOrStdout(), "Applied %d statements\n", n)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&uri, "uri", "", "override the configured Neo4j URI")
	cmd.Flags().StringVar(&database, "database", "", "override the configured Neo4j database")
	return cmd
}
