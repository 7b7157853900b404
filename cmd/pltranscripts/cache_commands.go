package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/pltranscripts/internal/cache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Gestion du cache des transcripts",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheForgetCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Afficher l'emplacement et la taille du cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache : %s\n", store.Path())
			fmt.Fprintf(out, "Entrées : %d\n", n)
			return nil
		},
	}
}

func newCacheForgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <video-id>...",
		Short: "Retirer des vidéos du cache (elles seront retéléchargées)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				id = strings.TrimSpace(id)
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Oublié : %s\n", id)
			}
			return nil
		},
	}
}

// openCache ouvre le cache de la config, même si cache.enabled est faux.
func (c *commandContext) openCache(cmd *cobra.Command) (*cache.Store, error) {
	if c.config == nil {
		return nil, fmt.Errorf("configuration non chargée")
	}
	store, err := cache.Open(cmd.Context(), c.config.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("ouverture du cache %s : %w", c.config.Cache.Path, err)
	}
	return store, nil
}
