package model

import "fmt"

// SubSource représente la provenance d'une piste de sous-titres.
// automatic = généré automatiquement par Youtube
// manual = fourni par l'auteur de la vidéo
type SubSource string

const (
	SubSourceUnknown   SubSource = "unknown"
	SubSourceAutomatic SubSource = "automatic"
	SubSourceManual    SubSource = "manual"
)

func (s SubSource) String() string {
	switch s {
	case SubSourceAutomatic:
		return "auto captions"
	case SubSourceManual:
		return "manual subtitles"
	default:
		return "unknown subtitles"
	}
}

// SubtitleTrack décrit une piste de sous-titres associée à une vidéo.
type SubtitleTrack struct {
	Lang   string    `json:"lang"`
	Format Format    `json:"format,omitempty"`
	URL    string    `json:"url,omitempty"`
	Source SubSource `json:"source,omitempty"`
}

func (s SubtitleTrack) String() string {
	return fmt.Sprintf("SubtitleTrack(lang=%s, format=%s, source=%s)", s.Lang, s.Format, s.Source)
}

// Meta regroupe les métadonnées d'une vidéo, telles que renvoyées par yt-dlp.
// UploadDate reste au format brut YYYYMMDD (vide si inconnue).
type Meta struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Uploader   string          `json:"uploader,omitempty"`
	UploadDate string          `json:"upload_date,omitempty"`
	Duration   Seconds         `json:"duration,omitempty"`
	AutoSubs   []SubtitleTrack `json:"subtitles,omitempty"`
	ManualSubs []SubtitleTrack `json:"manual_subtitles,omitempty"`
}

func (m Meta) String() string {
	return fmt.Sprintf("Meta[ID=%s, Title=%q, Uploader=%s, Date=%s, Subtitles=%d]",
		m.ID, m.Title, m.Uploader, m.UploadDate, len(m.AutoSubs)+len(m.ManualSubs))
}

// PlaylistItem est une entrée "à plat" d'une playlist (yt-dlp --flat-playlist).
type PlaylistItem struct {
	Index      int    `json:"index"` // position 1-based dans la playlist
	ID         string `json:"id"`
	Title      string `json:"title"`
	UploadDate string `json:"upload_date,omitempty"`
}

// PlaylistMeta regroupe le titre de la playlist et ses vidéos, dans l'ordre.
type PlaylistMeta struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Uploader string         `json:"uploader,omitempty"`
	Items    []PlaylistItem `json:"items"`
}
