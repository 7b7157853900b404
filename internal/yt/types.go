package yt

import "log/slog"

type subtitleItem struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// ytdlpOutput représente la sortie JSON brute retournée par yt-dlp pour une vidéo.
//
// Subtitles et AutomaticCaptions sont des maps où :
//   - la clé (string) correspond au code langue de la piste (ex. "fr", "en", "fr-orig").
//   - la valeur ([]subtitleItem) liste toutes les pistes disponibles pour cette langue,
//     chaque élément contenant l'extension (Ext) et l'URL pour la télécharger.
type ytdlpOutput struct {
	Type              string                    `json:"_type"`
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Uploader          string                    `json:"uploader"`
	UploadDate        string                    `json:"upload_date"`
	Timestamp         int64                     `json:"timestamp"` // en Unix epoch
	Duration          float64                   `json:"duration"`
	Subtitles         map[string][]subtitleItem `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleItem `json:"automatic_captions"`
}

// ytdlpPlaylist : sortie de --flat-playlist -J
type ytdlpPlaylist struct {
	Type     string               `json:"_type"`
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Uploader string               `json:"uploader"`
	Entries  []ytdlpPlaylistEntry `json:"entries"`
}

type ytdlpPlaylistEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	UploadDate    string `json:"upload_date"`
	PlaylistIndex int    `json:"playlist_index"`
}

// ExtractedRaw contient le JSON raw, une liste de lignes d'avertissements
type ExtractedRaw struct {
	JSON     []byte
	Warnings []string
}

// LogWarnings journalise les avertissements de yt-dlp
func (r *ExtractedRaw) LogWarnings(logger *slog.Logger) {
	for _, w := range r.Warnings {
		logger.Warn("yt-dlp", "message", w)
	}
}

// YtDlp représente la commande yt-dlp à exécuter (nom de binaire ou chemin) + args.
type YtDlp struct {
	Name   string
	Path   string // chemin vers l'exe
	Config YtDlpConfig

	logger *slog.Logger
}
