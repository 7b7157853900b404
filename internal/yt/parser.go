package yt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

const origSuffix = "-orig"

// ErrNotPlaylist : l'URL donnée à ExtractPlaylist désigne une vidéo seule.
var ErrNotPlaylist = errors.New("l'URL ne désigne pas une playlist")

// ParseYTDLP transforme le JSON brut en struct Meta
func ParseYTDLP(raw []byte) (*model.Meta, error) {
	var y ytdlpOutput
	if err := json.Unmarshal(raw, &y); err != nil {
		return nil, fmt.Errorf("unmarshal ytdlp output: %w", err)
	}

	meta := &model.Meta{
		ID:         y.ID,
		Title:      y.Title,
		Uploader:   y.Uploader,
		UploadDate: normalizeUploadDate(y.UploadDate, y.Timestamp),
		Duration:   model.SecondsFromFloat(y.Duration),
	}

	// sous-titres manuels : on garde tout ce qui est au bon format
	meta.ManualSubs = selectManualSubs(y.Subtitles, model.FormatJSON3)

	// sous-titres automatiques : bon format + langue originale uniquement
	meta.AutoSubs = selectCaptionOriginal(y.AutomaticCaptions, model.FormatJSON3)

	return meta, nil
}

// ParsePlaylist transforme la sortie de --flat-playlist -J en PlaylistMeta.
// Les entrées sans playlist_index prennent leur position (1-based).
func ParsePlaylist(raw []byte) (*model.PlaylistMeta, error) {
	var p ytdlpPlaylist
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal ytdlp playlist: %w", err)
	}
	if p.Type != "" && p.Type != "playlist" {
		return nil, fmt.Errorf("%w (type %q)", ErrNotPlaylist, p.Type)
	}

	pm := &model.PlaylistMeta{
		ID:       p.ID,
		Title:    p.Title,
		Uploader: p.Uploader,
		Items:    make([]model.PlaylistItem, 0, len(p.Entries)),
	}
	for i, e := range p.Entries {
		if e.ID == "" {
			continue
		}
		idx := e.PlaylistIndex
		if idx <= 0 {
			idx = i + 1
		}
		pm.Items = append(pm.Items, model.PlaylistItem{
			Index:      idx,
			ID:         e.ID,
			Title:      strings.TrimSpace(e.Title),
			UploadDate: normalizeUploadDate(e.UploadDate, 0),
		})
	}
	return pm, nil
}

// normalizeUploadDate garde la date brute YYYYMMDD si elle est valide, sinon
// la reconstruit depuis le timestamp. Vide si rien d'exploitable.
func normalizeUploadDate(date string, ts int64) string {
	date = strings.TrimSpace(date)
	if _, err := time.Parse("20060102", date); err == nil && len(date) == 8 {
		return date
	}
	if ts != 0 {
		return time.Unix(ts, 0).UTC().Format("20060102")
	}
	return ""
}

// selectCaptionOriginal parcourt la map `auto` (automatic_captions) et renvoie
// toutes les pistes dont la clé langue se termine par "-orig" et dont le format
// correspond au paramètre `format`. La langue retournée est sans le suffixe.
func selectCaptionOriginal(auto map[string][]subtitleItem, format model.Format) []model.SubtitleTrack {
	var out []model.SubtitleTrack
	for lang, tracks := range auto {
		if !strings.HasSuffix(lang, origSuffix) {
			continue
		}
		langClean := strings.TrimSuffix(lang, origSuffix)
		for _, it := range tracks {
			if pf, err := model.ParseFormat(it.Ext); err == nil && pf == format {
				out = append(out, model.SubtitleTrack{
					Lang:   langClean,
					Format: pf,
					URL:    it.URL,
					Source: model.SubSourceAutomatic,
				})
			}
		}
	}
	return out
}

// selectManualSubs récupère tous les sous-titres manuels
func selectManualSubs(manual map[string][]subtitleItem, format model.Format) []model.SubtitleTrack {
	var out []model.SubtitleTrack
	for lang, tracks := range manual {
		// live_chat n'est pas une piste de sous-titres
		if lang == "live_chat" {
			continue
		}
		for _, it := range tracks {
			if pf, err := model.ParseFormat(it.Ext); err == nil && pf == format {
				out = append(out, model.SubtitleTrack{
					Lang:   lang,
					Format: pf,
					URL:    it.URL,
					Source: model.SubSourceManual,
				})
			}
		}
	}
	return out
}
