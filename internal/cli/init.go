package cli

import (
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/internal/config"
)

// askOne prompts the user.
var askOne = survey.AskOne

func newInitCommand() *cobra.Command {
	var (
		path        string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if interactive {
				if err := prompt(cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Write(path); err != nil {
				return err
			}
			successColor.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "o", config.FileName, "file to write")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "prompt for the main settings")
	return cmd
}

// prompt asks for the settings most projects change.
func prompt(cfg *config.Config) error {
	index := cfg.Index[0]
	if err := askOne(&survey.Input{Message: "Annotation index:", Default: index}, &index, survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	cfg.Index = []string{index}

	if err := askOne(&survey.Input{Message: "Resource package:", Default: cfg.Output.Package}, &cfg.Output.Package); err != nil {
		return err
	}

	options := make([]string, len(gen.AllFeatures))
	for i, f := range gen.AllFeatures {
		options[i] = f.Name
	}
	features := cfg.Features
	if err := askOne(&survey.MultiSelect{Message: "Features:", Options: options, Default: features}, &features); err != nil {
		return err
	}
	cfg.Features = features

	if !slices.Contains(features, gen.FeatureRepositories.Name) {
		return nil
	}
	lang := cfg.Repository.Language
	languages := []string{gen.LangJava, gen.LangKotlin, gen.LangGo}
	if err := askOne(&survey.Select{Message: "Repository language:", Options: languages, Default: lang}, &lang); err != nil {
		return err
	}
	cfg.Repository.Language = lang
	if lang != gen.LangGo {
		return nil
	}
	if err := askOne(&survey.Input{Message: "Repository base type (import/path.Name):"}, &cfg.Repository.BaseClass, survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	return askOne(&survey.Input{Message: "Model package import path:"}, &cfg.Repository.ModelPackage, survey.WithValidator(survey.Required))
}
