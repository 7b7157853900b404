package subtitles

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// json3Track : piste YouTube au format json3 (fmt=json3). Seuls les champs
// utiles au transcript sont décodés, le reste (wpWinPosId, wWinId, ...) est ignoré.
type json3Track struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs *int64     `json:"tStartMs,omitempty"`
	Segs    []json3Seg `json:"segs,omitempty"`
}

type json3Seg struct {
	Text     string `json:"utf8"`
	OffsetMs *int64 `json:"tOffsetMs,omitempty"`
}

var errEmptyTrack = errors.New("piste json3 vide")

func decodeJSON3(b []byte) (json3Track, error) {
	var track json3Track
	if len(b) == 0 {
		return track, errEmptyTrack
	}
	if err := json.Unmarshal(b, &track); err != nil {
		return track, fmt.Errorf("décodage json3 : %w", err)
	}
	return track, nil
}

// lineBreak : event qui ne porte qu'un retour à la ligne (pistes ASR).
func (e json3Event) lineBreak() bool {
	if len(e.Segs) == 0 {
		return false
	}
	for _, s := range e.Segs {
		if t := strings.TrimSpace(s.Text); t != "" && t != `\n` {
			return false
		}
	}
	return true
}

// wordTime : instant absolu d'un seg (début de l'event + offset du seg).
// ok est faux quand ni l'event ni le seg ne sont horodatés.
func (e json3Event) wordTime(seg json3Seg) (ms int64, ok bool) {
	if e.StartMs != nil {
		ms, ok = *e.StartMs, true
	}
	if seg.OffsetMs != nil {
		ms, ok = ms+*seg.OffsetMs, true
	}
	return ms, ok
}
