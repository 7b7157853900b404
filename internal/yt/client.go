package yt

import "context"

// Extractor : ce que l'application attend de yt-dlp. Remplacé par un faux dans les tests.
type Extractor interface {
	// ExtractRaw : métadonnées complètes d'une vidéo (yt-dlp -j)
	ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error)
	// ExtractPlaylist : liste à plat d'une playlist (yt-dlp --flat-playlist -J)
	ExtractPlaylist(ctx context.Context, url string) (*ExtractedRaw, error)
}

var _ Extractor = (*YtDlp)(nil)
