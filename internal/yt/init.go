package yt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickprogramme/pltranscripts/internal/config"
)

const versionTimeout = 5 * time.Second

// InitYtDlp construit le client depuis la config, vérifie le binaire et lit sa version.
// Une version illisible n'est pas fatale : le client est retourné avec l'erreur loguée.
func InitYtDlp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*YtDlp, string, error) {
	dl := NewYtDlp(cfg.YtDlp.Name, cfg.YtDlp.ResolvedPath, *NewYtDlpConfig(cfg.YtDlp.ShowWarnings), logger)
	if err := dl.CheckBinary(); err != nil {
		return nil, "", err
	}

	vctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	version, err := dl.Version(vctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		dl.logger.Warn("version de yt-dlp illisible", "path", dl.exe(), "error", err)
		return dl, "", nil
	}
	return dl, version, nil
}

// Version exécute `yt-dlp --version`.
func (y *YtDlp) Version(ctx context.Context) (string, error) {
	out, err := runBinary(ctx, y.exe(), "--version")
	if err != nil {
		return "", fmt.Errorf("yt-dlp --version : %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
