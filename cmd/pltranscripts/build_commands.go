package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/pltranscripts/internal/app"
	"github.com/patrickprogramme/pltranscripts/internal/config"
	"github.com/patrickprogramme/pltranscripts/internal/markdown"
	"github.com/patrickprogramme/pltranscripts/internal/yt"
)

// renderFlags : surcharges communes de la config.
type renderFlags struct {
	output      string
	style       string
	timestamps  bool
	incremental bool
	copy        bool
}

func (f *renderFlags) register(cmd *cobra.Command, outputHelp string, withIncremental bool) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", outputHelp)
	cmd.Flags().StringVar(&f.style, "style", "", "style des lignes : paragraph ou bullet")
	cmd.Flags().BoolVar(&f.timestamps, "timestamps", true, "préfixer chaque bloc par ses timestamps")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copier le document dans le presse-papier")
	if withIncremental {
		cmd.Flags().BoolVar(&f.incremental, "incremental", true, "réutiliser les transcripts du document existant")
	}
}

// options part de la config et n'applique que les flags fournis.
func (f *renderFlags) options(cmd *cobra.Command, cfg *config.Config) (app.BuildOptions, error) {
	opts := app.DefaultBuildOptions(cfg)
	opts.Output = strings.TrimSpace(f.output)

	if cmd.Flags().Changed("style") {
		style, err := markdown.ParseStyle(f.style)
		if err != nil {
			return opts, err
		}
		opts.Style = style
	}
	if cmd.Flags().Changed("timestamps") {
		opts.IncludeTimestamps = f.timestamps
	}
	if cmd.Flags().Changed("incremental") {
		opts.Incremental = f.incremental
	}
	if cmd.Flags().Changed("copy") {
		opts.Copy = f.copy
	}
	return opts, nil
}

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "Produire le document consolidé d'une playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if !yt.IsPlaylistURL(url) {
				return fmt.Errorf("URL de playlist YouTube invalide : %s", url)
			}
			opts, err := flags.options(cmd, ctx.config)
			if err != nil {
				return err
			}

			a, cleanup, err := ctx.newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.BuildPlaylist(cmd.Context(), url, opts)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	flags.register(cmd, "fichier de sortie (défaut <output_dir>/<titre>.md)", true)
	return cmd
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Produire le document d'une vidéo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if !yt.IsYouTubeURL(url) {
				return fmt.Errorf("URL YouTube invalide : %s", url)
			}
			opts, err := flags.options(cmd, ctx.config)
			if err != nil {
				return err
			}

			a, cleanup, err := ctx.newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.BuildVideo(cmd.Context(), url, opts)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	flags.register(cmd, "dossier de sortie (défaut output_dir)", false)
	return cmd
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Rendre à nouveau un document existant (hors ligne)",
		Long: "Relit un document consolidé et le réécrit avec un autre style.\n" +
			"Sans --output, le document est affiché sur la sortie standard.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, ctx.config)
			if err != nil {
				return err
			}

			a, cleanup, err := ctx.newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.Rerender(args[0], opts)
			if err != nil {
				return err
			}
			if opts.Output == "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Document)
				return nil
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	flags.register(cmd, "fichier de sortie (défaut : sortie standard)", false)
	return cmd
}

func printResult(w io.Writer, res *app.Result) {
	fmt.Fprintf(w, "Document : %s\n", res.Path)
	fmt.Fprintf(w, "Vidéos : %d (reprises %d, cache %d, téléchargées %d, sans transcript %d)\n",
		res.Videos, res.Reused, res.Cached, res.Fetched, res.Missing)
}
