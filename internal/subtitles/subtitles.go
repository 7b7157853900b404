// Package subtitles choisit, télécharge et convertit les pistes json3 de
// YouTube en fragments de transcript horodatés.
package subtitles

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/patrickprogramme/pltranscripts/internal/fetch"
	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

// SelectTrack choisit la piste à télécharger.
//
// Les sources sont essayées dans l'ordre (manuelle puis automatique si
// preferManual, l'inverse sinon) ; dans chaque source, la première langue de
// langs qui correspond l'emporte ("en" correspond aussi à "en-US").
// Sans correspondance, la première piste (par langue) de la source préférée
// est retournée.
func SelectTrack(m *model.Meta, preferManual bool, langs []string) (model.SubtitleTrack, bool) {
	if m == nil {
		return model.SubtitleTrack{}, false
	}
	sources := [][]model.SubtitleTrack{m.ManualSubs, m.AutoSubs}
	if !preferManual {
		sources[0], sources[1] = sources[1], sources[0]
	}

	for _, tracks := range sources {
		for _, lang := range langs {
			for _, t := range tracks {
				if t.URL != "" && langMatches(t.Lang, lang) {
					return t, true
				}
			}
		}
	}

	// fallback : ordre stable indépendant de l'ordre de la map yt-dlp
	for _, tracks := range sources {
		usable := slices.DeleteFunc(slices.Clone(tracks), func(t model.SubtitleTrack) bool { return t.URL == "" })
		if len(usable) == 0 {
			continue
		}
		slices.SortFunc(usable, func(a, b model.SubtitleTrack) int { return cmp.Compare(a.Lang, b.Lang) })
		return usable[0], true
	}
	return model.SubtitleTrack{}, false
}

func langMatches(trackLang, want string) bool {
	trackLang = strings.ToLower(trackLang)
	want = strings.ToLower(want)
	return trackLang == want || strings.HasPrefix(trackLang, want+"-")
}

// tTitleOrID retourne le titre, ou sinon l'ID de la vidéo
func tTitleOrID(m *model.Meta) string {
	if m == nil {
		return ""
	}
	if s := m.Title; s != "" {
		return s
	}
	return m.ID
}

// Download télécharge la piste et retourne le SubtitleDownload avec Data rempli.
func Download(ctx context.Context, client *fetch.Client, m *model.Meta, track model.SubtitleTrack) (SubtitleDownload, error) {
	data, err := client.Bytes(ctx, track.URL)
	if err != nil {
		return SubtitleDownload{}, fmt.Errorf("download subtitle: %w", err)
	}
	return SubtitleDownload{Title: tTitleOrID(m), Track: track, Data: data}, nil
}

// ToFragments choisit la stratégie selon la source.
func ToFragments(track json3Track, src model.SubSource) []model.TranscriptFragment {
	if src == model.SubSourceManual {
		return TransformManualToFragments(track)
	}
	return TransformAutoToFragments(track)
}

// Fetcher enchaine sélection, téléchargement et conversion.
type Fetcher struct {
	Client       *fetch.Client
	PreferManual bool
	Languages    []string
}

// Fragments retourne le transcript d'une vidéo et la piste utilisée.
// ErrNoSubtitle si la vidéo n'a aucune piste json3.
func (f *Fetcher) Fragments(ctx context.Context, m *model.Meta) ([]model.TranscriptFragment, model.SubtitleTrack, error) {
	track, ok := SelectTrack(m, f.PreferManual, f.Languages)
	if !ok {
		return nil, model.SubtitleTrack{}, ErrNoSubtitle
	}
	client := f.Client
	if client == nil {
		client = fetch.NewClient()
	}
	sd, err := Download(ctx, client, m, track)
	if err != nil {
		return nil, track, err
	}
	parsed, err := sd.decode()
	if err != nil {
		return nil, track, err
	}
	return ToFragments(parsed, track.Source), track, nil
}
