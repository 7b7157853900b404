package yt

import (
	"net/url"
	"regexp"
)

var ytRegex = regexp.MustCompile(`(?i)^https?://(www\.|m\.|music\.)?(youtube\.com/(watch\?|playlist\?|shorts/)|youtu\.be/)`)

func IsYouTubeURL(s string) bool {
	return ytRegex.MatchString(s)
}

// IsPlaylistURL indique si l'URL porte un paramètre list=.
func IsPlaylistURL(s string) bool {
	if !IsYouTubeURL(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Query().Get("list") != ""
}

// VideoURL construit l'URL de lecture d'une vidéo à partir de son id.
func VideoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}
