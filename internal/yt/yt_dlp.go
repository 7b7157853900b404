package yt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// NewYtDlp construit une instance. resolvedPath est le chemin résolu vers l'exe
// (ou le nom seul, cherché dans PATH). logger peut être nil.
func NewYtDlp(name string, resolvedPath string, cfg YtDlpConfig, logger *slog.Logger) *YtDlp {
	if logger == nil {
		logger = slog.Default()
	}
	return &YtDlp{
		Name:   name,
		Path:   resolvedPath,
		Config: cfg,
		logger: logger,
	}
}

func (y *YtDlp) exe() string {
	if y.Path != "" {
		return y.Path
	}
	return y.Name
}

// CheckBinary vérifie que le binaire existe : recherche dans PATH pour un nom
// nu, stat pour un chemin.
func (y *YtDlp) CheckBinary() error {
	if y == nil {
		return fmt.Errorf("yt-dlp non initialisé")
	}

	exe := y.exe()
	if !strings.ContainsAny(exe, `/\`) {
		if _, err := exec.LookPath(exe); err != nil {
			return fmt.Errorf("yt-dlp introuvable dans PATH (%s) : %w", exe, err)
		}
		return nil
	}

	info, err := os.Stat(exe)
	if err != nil {
		return fmt.Errorf("yt-dlp introuvable (%s) à l'emplacement spécifié : %w", exe, err)
	}
	if info.IsDir() {
		return fmt.Errorf("le chemin spécifié pour yt-dlp est un répertoire, pas un fichier exécutable")
	}
	return nil
}

// ExtractRaw exécute `yt-dlp -j <url>` et renvoie la sortie JSON brute.
func (y *YtDlp) ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error) {
	return y.run(ctx, "video", y.Config.BuildArgs(url))
}

// ExtractPlaylist exécute `yt-dlp --flat-playlist -J <url>`.
func (y *YtDlp) ExtractPlaylist(ctx context.Context, url string) (*ExtractedRaw, error) {
	return y.run(ctx, "playlist", y.Config.BuildPlaylistArgs(url))
}

func (y *YtDlp) run(ctx context.Context, kind string, args []string) (*ExtractedRaw, error) {
	start := time.Now()
	defer func() {
		y.logger.Debug("métadonnées extraites", "kind", kind, "elapsed", time.Since(start))
	}()

	out, err := runBinary(ctx, y.exe(), args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp (%s) : %w", kind, err)
	}

	raw, err := splitOutput(out)
	if err != nil {
		return nil, err
	}
	raw.LogWarnings(y.logger)
	return raw, nil
}

// runBinary exécute exe et retourne stdout+stderr ; en cas d'échec la sortie
// est jointe à l'erreur pour le diagnostic.
func runBinary(ctx context.Context, exe string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, exe, args...).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w, output: %s", err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// splitOutput sépare la ligne JSON des avertissements éventuels.
// La dernière ligne JSON l'emporte.
func splitOutput(out []byte) (*ExtractedRaw, error) {
	var jsonLine string
	var warnings []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			jsonLine = line
		} else {
			warnings = append(warnings, line)
		}
	}
	if jsonLine == "" {
		return nil, fmt.Errorf("aucun JSON détecté dans la sortie: %s", string(out))
	}
	return &ExtractedRaw{
		JSON:     []byte(jsonLine),
		Warnings: warnings,
	}, nil
}
