package model

// TranscriptFragment est l'unité atomique d'un transcript : un texte et son
// timestamp de début en secondes. Les fragments d'un transcript sont triés
// par Start croissant.
type TranscriptFragment struct {
	Start float64 `json:"start" yaml:"start"`
	Text  string  `json:"text" yaml:"text"`
}

// TranscriptChunk regroupe des fragments consécutifs.
// End est le Start du dernier fragment du groupe (pas la fin de la parole).
type TranscriptChunk struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Text  string  `json:"text" yaml:"text"`

	// Ranged : la ligne relue portait deux timestamps. Début et fin peuvent
	// alors tomber dans la même seconde une fois tronqués.
	Ranged bool `json:"ranged,omitempty" yaml:"ranged,omitempty"`
}

// VideoEntry représente une vidéo de la playlist prête à être rendue.
type VideoEntry struct {
	Index      int                  `json:"index" yaml:"index"` // position 1-based, définit l'ordre
	VideoID    string               `json:"video_id,omitempty" yaml:"video_id,omitempty"`
	Title      string               `json:"title" yaml:"title"`
	UploadDate string               `json:"upload_date,omitempty" yaml:"upload_date,omitempty"` // YYYYMMDD ou vide
	Transcript []TranscriptFragment `json:"transcript,omitempty" yaml:"transcript,omitempty"`   // nil => pas de transcript

	// Chunks contient des groupes déjà constitués (relus depuis un document existant).
	// S'il est renseigné, le rendu l'utilise tel quel au lieu de re-découper Transcript.
	Chunks []TranscriptChunk `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

// HasTranscript indique si l'entrée possède un transcript exploitable.
func (e VideoEntry) HasTranscript() bool {
	return len(e.Transcript) > 0 || len(e.Chunks) > 0
}

// PlaylistDocument est le document consolidé : titre + entrées ordonnées par Index.
type PlaylistDocument struct {
	Title   string       `json:"title" yaml:"title"`
	Entries []VideoEntry `json:"entries" yaml:"entries"`
}
