package subtitles

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// cleanText aplatit un texte de sous-titre sur une ligne : les "\n" réels ou
// échappés deviennent des espaces, un seul espace entre les mots.
func cleanText(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, `\n`, " ")), " ")
}

// endsSentence indique si s se termine par . ! ou ?, en ignorant les
// guillemets et parenthèses fermants qui suivent (`"stop!"` termine une phrase).
func endsSentence(s string) bool {
	for s != "" {
		r, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
		switch {
		case r == utf8.RuneError && size <= 1, unicode.IsSpace(r), closesQuote(r):
			continue
		case r == '.' || r == '!' || r == '?':
			return true
		default:
			return false
		}
	}
	return false
}

func closesQuote(r rune) bool {
	return strings.ContainsRune(`"')]}”’»`, r)
}
