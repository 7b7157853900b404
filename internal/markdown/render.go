// Package markdown produit et relit le dialecte markdown des documents de
// transcripts : document autonome par vidéo, et document consolidé de
// playlist avec une section <details> repliable par vidéo.
package markdown

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/patrickprogramme/pltranscripts/internal/transcript"
	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

// NoTranscriptMarker est la ligne écrite quand une vidéo n'a pas de transcript.
const NoTranscriptMarker = "_no transcript available_"

// séparateur entre les deux timestamps d'une ligne (tiret demi-cadratin)
const rangeSep = "–"

var ErrUnknownStyle = errors.New("style de rendu inconnu")

// Style choisit le préfixe des lignes de transcript.
type Style string

const (
	StyleParagraph Style = "paragraph"
	StyleBullet    Style = "bullet"
)

// ParseStyle convertit une chaine en Style. Vide => paragraph.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleParagraph:
		return StyleParagraph, nil
	case StyleBullet:
		return StyleBullet, nil
	default:
		return "", fmt.Errorf("%w: %q (attendu: paragraph, bullet)", ErrUnknownStyle, s)
	}
}

func (s Style) linePrefix() string {
	if s == StyleBullet {
		return "- "
	}
	return ""
}

// FormatTimestamp tronque des secondes et les formate en MM:SS.
func FormatTimestamp(seconds float64) string {
	return model.SecondsFromFloat(seconds).TimestampMMSS()
}

// Renderer met en forme des entrées en markdown. Les seuils de découpage
// sont fixés à la construction.
type Renderer struct {
	opts transcript.Options
}

// NewRenderer construit un Renderer ; retourne une erreur si les seuils sont invalides.
func NewRenderer(opts transcript.Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{opts: opts}, nil
}

// Video produit un document autonome pour une vidéo (pas de <details>).
//
//	# Titre (20230101)
//
//	[00:00]–[00:07] texte...
func (r *Renderer) Video(entry model.VideoEntry, includeTimestamps bool) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(flatten(entry.Title))
	if d := strings.TrimSpace(entry.UploadDate); d != "" {
		b.WriteString(" (")
		b.WriteString(d)
		b.WriteString(")")
	}
	b.WriteString("\n\n")
	r.writeBody(&b, r.chunksOf(entry), includeTimestamps, StyleParagraph)
	b.WriteString("\n")
	return b.String()
}

// Section produit un bloc repliable pour une vidéo, avec le titre tel quel dans <summary>.
func (r *Renderer) Section(title string, fragments []model.TranscriptFragment, includeTimestamps bool) string {
	return r.section(title, r.chunksOf(model.VideoEntry{Transcript: fragments}), includeTimestamps, StyleParagraph)
}

// Consolidated produit le document de playlist : un titre de niveau 1 puis une
// section par entrée, triées par Index. Le slice d'entrée n'est pas modifié.
func (r *Renderer) Consolidated(entries []model.VideoEntry, includeTimestamps bool, playlistTitle string, style Style) string {
	sorted := make([]model.VideoEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(flatten(playlistTitle))
	b.WriteString("\n")
	for _, e := range sorted {
		b.WriteString("\n")
		label := fmt.Sprintf("%02d - %s", e.Index, e.Title)
		b.WriteString(r.section(label, r.chunksOf(e), includeTimestamps, style))
	}
	return b.String()
}

func (r *Renderer) section(summary string, chunks []model.TranscriptChunk, includeTimestamps bool, style Style) string {
	var b strings.Builder
	b.WriteString("<details>\n<summary>")
	b.WriteString(flatten(summary))
	b.WriteString("</summary>\n\n")
	r.writeBody(&b, chunks, includeTimestamps, style)
	b.WriteString("\n\n</details>\n")
	return b.String()
}

// writeBody écrit une ligne par chunk (sans saut final), ou le marqueur d'absence.
func (r *Renderer) writeBody(b *strings.Builder, chunks []model.TranscriptChunk, includeTimestamps bool, style Style) {
	if len(chunks) == 0 {
		b.WriteString(NoTranscriptMarker)
		return
	}
	for i, c := range chunks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(chunkLine(c, includeTimestamps, style))
	}
}

// chunksOf retourne les chunks déjà présents, sinon découpe le transcript.
func (r *Renderer) chunksOf(e model.VideoEntry) []model.TranscriptChunk {
	if len(e.Chunks) > 0 {
		return e.Chunks
	}
	// les options sont validées par NewRenderer : pas d'erreur possible ici
	chunks, _ := transcript.Chunk(e.Transcript, r.opts)
	return chunks
}

// chunkLine formate une ligne : [- ][MM:SS]–[MM:SS] texte
func chunkLine(c model.TranscriptChunk, includeTimestamps bool, style Style) string {
	var b strings.Builder
	b.WriteString(style.linePrefix())
	if includeTimestamps {
		b.WriteString("[")
		b.WriteString(FormatTimestamp(c.Start))
		b.WriteString("]")
		if c.Ranged || c.End != c.Start {
			b.WriteString(rangeSep)
			b.WriteString("[")
			b.WriteString(FormatTimestamp(c.End))
			b.WriteString("]")
		}
		b.WriteString(" ")
	}
	b.WriteString(flatten(c.Text))
	return b.String()
}

// flatten remplace les sauts de ligne par des espaces : un chunk = une ligne.
func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
