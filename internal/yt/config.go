package yt

// YtDlpConfig : flags communs à toutes les extractions (métadonnées seulement).
type YtDlpConfig struct {
	SkipDownload bool
	NoWarnings   bool
	NoProgress   bool
	NoUpdate     bool
	NoConfig     bool // ignore ~/.config/yt-dlp
}

// NewYtDlpConfig : réglages par défaut ; showWarning vient de yt_dlp.show_warnings.
func NewYtDlpConfig(showWarning bool) *YtDlpConfig {
	return &YtDlpConfig{
		SkipDownload: true,
		NoWarnings:   !showWarning,
		NoProgress:   true,
		NoUpdate:     true,
		NoConfig:     true,
	}
}

// BuildArgs construit les arguments pour extraire les métadonnées d'une vidéo.
func (c *YtDlpConfig) BuildArgs(url string) []string {
	return c.build(url, "-j")
}

// BuildPlaylistArgs construit les arguments pour lister une playlist sans
// résoudre chaque vidéo : un seul document JSON avec les entrées.
func (c *YtDlpConfig) BuildPlaylistArgs(url string) []string {
	return c.build(url, "--flat-playlist", "-J")
}

func (c *YtDlpConfig) build(url string, mode ...string) []string {
	args := make([]string, 0, 8+len(mode))
	// --no-config doit précéder les autres options
	if c.NoConfig {
		args = append(args, "--no-config")
	}
	args = append(args, mode...)
	if c.SkipDownload {
		args = append(args, "--skip-download")
	}
	if c.NoWarnings {
		args = append(args, "--no-warnings")
	}
	if c.NoProgress {
		args = append(args, "--no-progress")
	}
	if c.NoUpdate {
		args = append(args, "--no-update")
	}
	args = append(args, url)
	return args
}
