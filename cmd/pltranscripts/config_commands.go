package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/pltranscripts/internal/assets"
	"github.com/patrickprogramme/pltranscripts/internal/bootstrap"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Gestion du fichier de configuration",
	}

	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Créer un fichier de configuration d'exemple",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = ctx.configPath()
			}

			created, err := bootstrap.EnsureConfigPresent(target, assets.Embedded, assets.DefaultConfigAsset)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !created {
				fmt.Fprintf(out, "Configuration déjà présente : %s\n", target)
				return nil
			}
			fmt.Fprintf(out, "Configuration d'exemple écrite dans %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "destination du fichier (défaut : --config)")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Afficher la configuration effective",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# fichier : %s\n", cfg.Path())
			if warnings, err := cfg.ValidateYtDlpPresence(); err == nil {
				for _, w := range warnings {
					fmt.Fprintf(out, "# attention : %s\n", w)
				}
			}
			return writeYAML(out, cfg)
		},
	}
}
