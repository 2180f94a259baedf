package cli

import (
	"github.com/spf13/cobra"

	"github.com/syssam/graphgen/compiler"
)

func newWatchCommand(g *globals) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the schema resources when the index changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.genConfig(f)
			if err != nil {
				return err
			}
			infoColor.Fprintf(cmd.OutOrStdout(), "Watching %d index files\n", len(cfg.Index))
			return compiler.Watch(cmd.Context(), cfg, func(res *compiler.Result, err error) {
				if err != nil {
					failColor.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
				report(cmd.OutOrStdout(), res)
			})
		},
	}
	f.register(cmd)
	return cmd
}
