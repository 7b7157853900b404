package fsutil

import (
	"regexp"
	"strings"
	"unicode"
)

// limite de longueur du nom, en runes
const maxNameRunes = 200

// invalidFileRunes définit les caractères interdits dans les noms de fichiers
// \x00-\x1F sont les caractères de contrôle
var invalidFileRunes = regexp.MustCompile(`[<>"/\\|?*\x00-\x1F]`)

// multiSpace détecte les séquences de plusieurs espaces pour les réduire à un seul.
var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename transforme un titre de playlist ou de vidéo en nom de fichier :
// ":" devient "-", les autres caractères interdits deviennent des espaces,
// les espaces sont compactés et le nom est limité à maxNameRunes.
// Un résultat vide donne "untitled".
func SanitizeFilename(name string) string {
	if name == "" {
		return "untitled"
	}

	name = strings.ReplaceAll(name, ":", "-")
	clean := invalidFileRunes.ReplaceAllString(name, " ")
	clean = multiSpace.ReplaceAllString(strings.TrimSpace(clean), " ")

	// Windows refuse les points terminaux
	clean = strings.TrimRight(clean, ". ")

	if clean == "" {
		return "untitled"
	}

	// couper en runes pour ne jamais produire d'UTF-8 invalide
	if rs := []rune(clean); len(rs) > maxNameRunes {
		clean = strings.TrimSpace(string(rs[:maxNameRunes]))
	}

	return CapitalizeFirst(clean)
}

// CapitalizeFirst met en majuscule le premier caractère (rune) de s.
// Ne touche pas au reste de la chaîne. Vide -> retourne "".
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
