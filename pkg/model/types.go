package model

import (
	"fmt"
	"strings"
)

// Seconds représente une position dans la vidéo, en secondes entières.
type Seconds int64

// SecondsFromFloat tronque une valeur flottante (secondes) en Seconds.
// Les valeurs négatives sont ramenées à 0.
func SecondsFromFloat(f float64) Seconds {
	if f <= 0 {
		return 0
	}
	return Seconds(int64(f))
}

// TimestampMMSS formate Seconds en "MM:SS" (2 chiffres minimum par composant, pas d'heures).
// Exemple : 7 -> "00:07", 65 -> "01:05", 6000 -> "100:00".
func (s Seconds) TimestampMMSS() string {
	total := max(int64(s), 0)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Format : extension d'une piste de sous-titres proposée par yt-dlp.
// Seul json3 porte un horodatage par mot et est exploité.
type Format string

const (
	FormatJSON3 Format = "json3"
	FormatSRV3  Format = "srv3"
	FormatVTT   Format = "vtt"
	FormatTTML  Format = "ttml"
)

// ParseFormat convertit une extension yt-dlp en Format, erreur si elle est inconnue.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON3, FormatSRV3, FormatVTT, FormatTTML:
		return f, nil
	default:
		return "", fmt.Errorf("format de sous-titres inconnu : %q", s)
	}
}
