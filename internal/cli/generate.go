package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/graphgen/compiler"
	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/internal/config"
)

// genFlags override the configuration file.
type genFlags struct {
	index    []string
	out      string
	strict   bool
	features []string
}

func (f *genFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.index, "index", "i", nil, "annotation index files")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail when the model has errors")
	cmd.Flags().StringSliceVarP(&f.features, "feature", "f", nil, "enable a feature ("+featureNames()+")")
}

func (f *genFlags) apply(cfg *config.Config) []gen.Option {
	if len(f.index) > 0 {
		cfg.Index = f.index
	}
	if f.out != "" {
		cfg.Output.Dir = f.out
	}
	if f.strict {
		cfg.Strict = true
	}
	if len(f.features) > 0 {
		return []gen.Option{gen.WithFeatureNames(f.features...)}
	}
	return nil
}

func featureNames() string {
	names := make([]string, len(gen.AllFeatures))
	for i, f := range gen.AllFeatures {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

// genConfig loads the configuration with the command line overrides.
func (g *globals) genConfig(f *genFlags) (*gen.Config, error) {
	cfg, log, err := g.load()
	if err != nil {
		return nil, err
	}
	opts := f.apply(cfg)
	return cfg.GenConfig(log, opts...)
}

func newGenerateCommand(g *globals) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the schema resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.genConfig(f)
			if err != nil {
				return err
			}
			res, err := compiler.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), res)
			if cfg.Strict && len(res.Errors) > 0 {
				return fmt.Errorf("strict mode: %d model errors", len(res.Errors))
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
