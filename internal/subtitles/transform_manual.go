package subtitles

import (
	"cmp"
	"slices"
	"strings"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

// eventText assemble les segs nettoyés d'un event.
func eventText(ev json3Event) string {
	parts := make([]string, 0, len(ev.Segs))
	for _, seg := range ev.Segs {
		if txt := cleanText(seg.Text); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

// TransformManualToFragments : un fragment par event de sous-titre manuel.
// Le découpage en blocs lisibles est fait ensuite par le Chunker, les events
// sont donc gardés tels quels. Un event sans tStartMs est ignoré ; le
// résultat est trié par Start.
func TransformManualToFragments(track json3Track) []model.TranscriptFragment {
	out := make([]model.TranscriptFragment, 0, len(track.Events))
	for _, ev := range track.Events {
		if ev.StartMs == nil {
			continue
		}
		text := eventText(ev)
		if text == "" {
			continue
		}
		out = append(out, model.TranscriptFragment{
			Start: msToSeconds(max(*ev.StartMs, 0)),
			Text:  text,
		})
	}
	slices.SortStableFunc(out, func(a, b model.TranscriptFragment) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
