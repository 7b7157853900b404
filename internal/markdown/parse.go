package markdown

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

// parseState : états de la lecture ligne à ligne d'un document consolidé.
type parseState int

const (
	stateSeekingHeading parseState = iota
	stateBetweenSections
	stateInSectionBody
)

var (
	// summaryRe capture le libellé d'une ligne <summary>...</summary>
	summaryRe = regexp.MustCompile(`^<summary>(.*)</summary>$`)
	// chunkLineRe : [- ][MM:SS] ou [MM:SS]–[MM:SS], puis le texte.
	// Le tiret ASCII est toléré entre les deux timestamps.
	chunkLineRe = regexp.MustCompile(`^(?:- )?\[(\d{2,}):(\d{2})\](?:(?:–|-)\[(\d{2,}):(\d{2})\])?(?:\s+(.*))?$`)
	// indexRe : préfixe numérique du libellé (2 chiffres, plus si la playlist dépasse 99)
	indexRe = regexp.MustCompile(`^\d{2,}$`)
)

// ParseFile lit un document consolidé existant et retourne le titre de la
// playlist et les entrées dans l'ordre du fichier.
// Seules les erreurs d'I/O sont retournées ; un contenu inattendu donne un
// résultat partiel (titre vide, entrées vides).
func ParseFile(path string) (string, []model.VideoEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("ouverture du document %s : %w", path, err)
	}
	defer f.Close()

	title, entries, err := Parse(f)
	if err != nil {
		return "", nil, fmt.Errorf("lecture du document %s : %w", path, err)
	}
	return title, entries, nil
}

// Parse fait la même chose que ParseFile depuis un io.Reader.
func Parse(r io.Reader) (string, []model.VideoEntry, error) {
	lines, err := readLines(r)
	if err != nil {
		return "", nil, err
	}

	p := parser{state: stateSeekingHeading}
	for _, line := range lines {
		p.step(line)
	}
	p.closeEntry()
	return p.title, p.entries, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	// une ligne = un chunk ; prévoir large pour les transcripts longs
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

type parser struct {
	state   parseState
	title   string
	entries []model.VideoEntry
	current *model.VideoEntry
}

// step consomme une ligne selon l'état courant.
func (p *parser) step(line string) {
	trimmed := strings.TrimSpace(line)

	switch p.state {
	case stateSeekingHeading:
		if strings.HasPrefix(line, "# ") {
			p.title = strings.TrimPrefix(line, "# ")
			p.state = stateBetweenSections
			return
		}
		// un document sans titre reste exploitable
		if label, ok := summaryLabel(trimmed); ok {
			p.openEntry(label)
		}

	case stateBetweenSections:
		if label, ok := summaryLabel(trimmed); ok {
			p.openEntry(label)
		}

	case stateInSectionBody:
		if label, ok := summaryLabel(trimmed); ok {
			// </details> manquant : on ferme la section précédente
			p.closeEntry()
			p.openEntry(label)
			return
		}
		// sans timestamps, un chunk dont le texte est exactement </details>
		// ferme la section : le dialecte ne peut pas le distinguer
		if trimmed == "</details>" {
			p.closeEntry()
			return
		}
		if c, ok := parseChunkLine(trimmed); ok {
			p.current.Chunks = append(p.current.Chunks, c)
			p.current.Transcript = append(p.current.Transcript, model.TranscriptFragment{
				Start: c.Start,
				Text:  c.Text,
			})
		}
	}
}

func (p *parser) openEntry(label string) {
	index, title := parseLabel(label)
	p.current = &model.VideoEntry{Index: index, Title: title}
	p.state = stateInSectionBody
}

func (p *parser) closeEntry() {
	if p.current == nil {
		return
	}
	p.entries = append(p.entries, *p.current)
	p.current = nil
	p.state = stateBetweenSections
}

func summaryLabel(line string) (string, bool) {
	m := summaryRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseLabel découpe "07 - Titre" en (7, "Titre").
// Un libellé non conforme donne (0, libellé entier).
func parseLabel(label string) (int, string) {
	left, right, found := strings.Cut(label, " - ")
	if !found || !indexRe.MatchString(left) {
		return 0, label
	}
	n, err := strconv.Atoi(left)
	if err != nil {
		return 0, label
	}
	return n, right
}

// parseChunkLine reconnait une ligne de transcript horodatée.
func parseChunkLine(line string) (model.TranscriptChunk, bool) {
	m := chunkLineRe.FindStringSubmatch(line)
	if m == nil {
		return model.TranscriptChunk{}, false
	}
	text := strings.TrimSpace(m[5])
	if text == "" {
		return model.TranscriptChunk{}, false
	}
	start := mmssToSeconds(m[1], m[2])
	end := start
	if m[3] != "" {
		end = mmssToSeconds(m[3], m[4])
	}
	return model.TranscriptChunk{Start: start, End: end, Text: text, Ranged: m[3] != ""}, true
}

func mmssToSeconds(mm, ss string) float64 {
	// les deux groupes sont des chiffres (regex) : Atoi ne peut pas échouer
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.Atoi(ss)
	return float64(m*60 + s)
}
