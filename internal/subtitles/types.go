package subtitles

import (
	"errors"
	"fmt"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

var ErrNoSubtitle = errors.New("no subtitle available for given source")

// SubtitleDownload contient la piste + contexte utile (titre) + payload.
type SubtitleDownload struct {
	Title string
	Track model.SubtitleTrack
	Data  []byte // nil tant que non téléchargé
}

// String implémente fmt.Stringer, sans l'URL complète.
func (s SubtitleDownload) String() string {
	return fmt.Sprintf("SubtitleDownload{Title:%q, Lang:%q, Format:%q, Source:%q, DataLen:%d}",
		s.Title, s.Track.Lang, string(s.Track.Format), string(s.Track.Source), len(s.Data))
}

// decode retourne la piste json3 téléchargée.
func (s *SubtitleDownload) decode() (json3Track, error) {
	if s == nil || len(s.Data) == 0 {
		return json3Track{}, fmt.Errorf("%s : %w", s.describe(), errEmptyTrack)
	}
	track, err := decodeJSON3(s.Data)
	if err != nil {
		return track, fmt.Errorf("%s : %w", s.describe(), err)
	}
	return track, nil
}

func (s *SubtitleDownload) describe() string {
	if s == nil {
		return "sous-titres"
	}
	return fmt.Sprintf("sous-titres %s (%s)", s.Track.Lang, s.Title)
}
