package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/pltranscripts/internal/app"
	"github.com/patrickprogramme/pltranscripts/internal/cache"
	"github.com/patrickprogramme/pltranscripts/internal/config"
	"github.com/patrickprogramme/pltranscripts/internal/fetch"
	"github.com/patrickprogramme/pltranscripts/internal/logging"
	"github.com/patrickprogramme/pltranscripts/internal/subtitles"
	"github.com/patrickprogramme/pltranscripts/internal/yt"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "pltranscripts",
		Short:         "Transcripts de playlists YouTube en markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd.ErrOrStderr())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "fichier de configuration (défaut "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "niveau de log : debug, info, warn, error")

	rootCmd.AddCommand(newPlaylistCommand(ctx))
	rootCmd.AddCommand(newVideoCommand(ctx))
	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd
}

// commandContext : état partagé par les sous-commandes (config, logger).
type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil || strings.TrimSpace(*c.configFlag) == "" {
		return config.DefaultPath
	}
	return strings.TrimSpace(*c.configFlag)
}

// ensureConfig charge et valide la config une seule fois, puis installe le logger.
func (c *commandContext) ensureConfig(logOut io.Writer) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Log.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}

		logger, err := logging.New(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Writer: logOut,
		})
		if err != nil {
			c.configErr = err
			return
		}
		slog.SetDefault(logger)

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

// newApp assemble yt-dlp, le cache et le téléchargement des sous-titres.
// cleanup libère le cache ; toujours non nil.
func (c *commandContext) newApp(ctx context.Context, needYtDlp bool) (a *app.App, cleanup func(), err error) {
	cleanup = func() {}
	cfg, logger := c.config, c.logger
	if cfg == nil {
		return nil, cleanup, fmt.Errorf("configuration non chargée")
	}

	var source app.Source
	if needYtDlp {
		warnings, err := cfg.ValidateYtDlpPresence()
		if err != nil {
			return nil, cleanup, err
		}
		for _, w := range warnings {
			logger.Warn(w)
		}

		client, version, err := yt.InitYtDlp(ctx, cfg, logger)
		if err != nil {
			return nil, cleanup, err
		}
		logger.Debug("yt-dlp prêt", "version", version)

		source = &app.YouTube{
			Client: client,
			Fetcher: &subtitles.Fetcher{
				Client:       fetch.NewClient(),
				PreferManual: cfg.PreferManualSubs,
				Languages:    cfg.Languages,
			},
			Logger: logger,
		}
	}

	var store *cache.Store
	if needYtDlp && cfg.Cache.Enabled {
		store, err = cache.Open(ctx, cfg.Cache.Path)
		if err != nil {
			// sans cache on continue, tout sera téléchargé
			logger.Warn("cache indisponible", "path", cfg.Cache.Path, "error", err)
			store = nil
		} else {
			cleanup = func() {
				if cerr := store.Close(); cerr != nil {
					logger.Warn("fermeture du cache", "error", cerr)
				}
			}
		}
	}

	a, err = app.New(cfg, logger, source, store)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return a, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
