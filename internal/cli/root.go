// Package cli implements the graphgen command line.
package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/graphgen/internal/config"
)

// Version is set at build time.
var Version = "dev"

// globals are the persistent flags shared by every command.
type globals struct {
	config   string
	logLevel string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:   "graphgen",
		Short: "Generate GraphQL schema and query resources from graph entity metadata",
		Long: color.CyanString(`graphgen - graph schema generator

graphgen reads the annotation index of a set of graph entity classes and
renders a GraphQL schema, fragments, query documents, a Cypher constraint
script and repository stubs.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.config, "config", "c", "", "configuration file (default ./"+config.FileName+")")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newGenerateCommand(g))
	cmd.AddCommand(newWatchCommand(g))
	cmd.AddCommand(newConstraintsCommand(g))
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// load reads the configuration and builds its logger.
func (g *globals) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	log, err := cfg.Log.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
