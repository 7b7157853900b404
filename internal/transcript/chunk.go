// Package transcript regroupe les fragments horodatés d'un transcript en
// blocs lisibles (chunks), selon un écart de temps maximal et un budget de
// caractères.
package transcript

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

const (
	// DefaultMaxGapSeconds : écart au-delà duquel un nouveau chunk commence
	DefaultMaxGapSeconds = 20.0
	// DefaultMaxChars : taille maximale (en runes) du texte d'un chunk
	DefaultMaxChars = 400
)

var ErrInvalidOptions = errors.New("paramètres de découpage invalides")

// Options porte les seuils de découpage.
type Options struct {
	MaxGapSeconds float64 `yaml:"max_gap_seconds"`
	MaxChars      int     `yaml:"max_chars"`
}

// DefaultOptions retourne les seuils utilisés par défaut dans toute l'application.
func DefaultOptions() Options {
	return Options{
		MaxGapSeconds: DefaultMaxGapSeconds,
		MaxChars:      DefaultMaxChars,
	}
}

// Validate retourne ErrInvalidOptions si l'un des seuils n'est pas strictement positif.
func (o Options) Validate() error {
	if o.MaxGapSeconds <= 0 {
		return fmt.Errorf("%w: max_gap_seconds doit être > 0 (reçu %v)", ErrInvalidOptions, o.MaxGapSeconds)
	}
	if o.MaxChars <= 0 {
		return fmt.Errorf("%w: max_chars doit être > 0 (reçu %d)", ErrInvalidOptions, o.MaxChars)
	}
	return nil
}

// Chunk regroupe des fragments triés par Start en chunks.
//
// Un nouveau chunk est ouvert quand l'écart avec le fragment précédent dépasse
// MaxGapSeconds, ou quand l'ajout du fragment ferait dépasser MaxChars au texte
// joint par des espaces. Une seule des deux conditions suffit.
// Un transcript vide donne un résultat vide.
func Chunk(fragments []model.TranscriptFragment, opts Options) ([]model.TranscriptChunk, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, nil
	}

	var (
		chunks  []model.TranscriptChunk
		parts   []string // textes accumulés du chunk ouvert
		start   float64  // Start du premier fragment du chunk ouvert
		last    float64  // Start du dernier fragment du chunk ouvert
		joinLen int      // longueur (runes) de strings.Join(parts, " ")
	)

	open := func(f model.TranscriptFragment) {
		parts = append(parts[:0:0], f.Text)
		start = f.Start
		last = f.Start
		joinLen = utf8.RuneCountInString(f.Text)
	}
	closeChunk := func() {
		chunks = append(chunks, model.TranscriptChunk{
			Start: start,
			End:   last,
			Text:  strings.Join(parts, " "),
		})
	}

	open(fragments[0])
	for i := 1; i < len(fragments); i++ {
		f := fragments[i]
		gap := f.Start - fragments[i-1].Start
		nextLen := joinLen + 1 + utf8.RuneCountInString(f.Text)

		if gap > opts.MaxGapSeconds || nextLen > opts.MaxChars {
			closeChunk()
			open(f)
			continue
		}
		parts = append(parts, f.Text)
		last = f.Start
		joinLen = nextLen
	}
	closeChunk()

	return chunks, nil
}

// Join recolle les textes des chunks avec un espace, dans l'ordre.
func Join(chunks []model.TranscriptChunk) string {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	return strings.Join(texts, " ")
}

// JoinFragments recolle les textes des fragments avec un espace, dans l'ordre.
func JoinFragments(fragments []model.TranscriptFragment) string {
	texts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		texts = append(texts, f.Text)
	}
	return strings.Join(texts, " ")
}
