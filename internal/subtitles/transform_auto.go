package subtitles

import (
	"strings"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

// Les sous-titres automatiques (ASR) donnent un timestamp par mot
// (tStartMs de l'event + tOffsetMs du seg). On reconstruit des phrases à partir
// des pauses et de la ponctuation, chaque phrase devient un fragment.

const (
	// seuil pour couper une phrase quand la pause entre deux mots est trop longue
	pauseThresholdMs = 2000
	// nombre maximum de mots par phrase
	maxWordsPerPhrase = 100
)

// TransformAutoToFragments transforme une piste ASR en fragments.
// Chaque seg est une unité atomique : un seg n'est jamais découpé même s'il
// contient plusieurs terminators.
func TransformAutoToFragments(track json3Track) []model.TranscriptFragment {
	var out []model.TranscriptFragment
	if len(track.Events) == 0 {
		return out
	}

	var (
		current        strings.Builder // phrase en cours
		words          int             // nombre de mots dans current
		currentStartMs int64 = -1      // timestamp du premier mot de la phrase en cours
		lastWordTs     int64 = -1      // timestamp du dernier mot vu (pour la pause)
	)

	commit := func() {
		txt := strings.TrimSpace(current.String())
		current.Reset()
		words = 0
		start := currentStartMs
		currentStartMs = -1
		if txt == "" {
			return
		}
		if start < 0 {
			start = max(lastWordTs, 0)
		}
		out = append(out, model.TranscriptFragment{Start: msToSeconds(start), Text: txt})
	}

	for _, ev := range track.Events {
		if ev.lineBreak() {
			continue
		}

		for _, seg := range ev.Segs {
			s := cleanText(seg.Text)
			if s == "" {
				continue
			}

			if ts, ok := ev.wordTime(seg); ok {
				// pause plus longue que le seuil : on coupe la phrase en cours
				if lastWordTs >= 0 && ts-lastWordTs > pauseThresholdMs && current.Len() > 0 {
					commit()
				}
				lastWordTs = ts
				if currentStartMs < 0 {
					currentStartMs = ts
				}
			}

			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(s)
			words += len(strings.Fields(s))

			if words >= maxWordsPerPhrase {
				commit()
				continue
			}

			if endsSentence(s) {
				commit()
			}
		}
	}

	commit()
	return out
}
