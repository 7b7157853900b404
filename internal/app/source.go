package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickprogramme/pltranscripts/internal/subtitles"
	"github.com/patrickprogramme/pltranscripts/internal/yt"
	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

const defaultExtractTimeout = 2 * time.Minute

// Source fournit les métadonnées et transcripts. Implémentée par YouTube,
// remplacée par un faux dans les tests.
type Source interface {
	Playlist(ctx context.Context, url string) (*model.PlaylistMeta, error)
	Video(ctx context.Context, url string) (*model.Meta, error)
	// Transcript retourne aussi la piste retenue, et subtitles.ErrNoSubtitle
	// quand la vidéo n'a pas de piste.
	Transcript(ctx context.Context, meta *model.Meta) ([]model.TranscriptFragment, model.SubtitleTrack, error)
}

// YouTube : Source adossée à yt-dlp et aux pistes json3.
type YouTube struct {
	Client  yt.Extractor
	Fetcher *subtitles.Fetcher
	Timeout time.Duration // par appel yt-dlp ; 0 => defaultExtractTimeout
	Logger  *slog.Logger
}

func (y *YouTube) timeout() time.Duration {
	if y.Timeout > 0 {
		return y.Timeout
	}
	return defaultExtractTimeout
}

func (y *YouTube) Playlist(ctx context.Context, url string) (*model.PlaylistMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout())
	defer cancel()

	raw, err := y.Client.ExtractPlaylist(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("extract playlist: %w", err)
	}
	pl, err := yt.ParsePlaylist(raw.JSON)
	if err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}
	return pl, nil
}

func (y *YouTube) Video(ctx context.Context, url string) (*model.Meta, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout())
	defer cancel()

	raw, err := y.Client.ExtractRaw(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("extract raw: %w", err)
	}
	meta, err := yt.ParseYTDLP(raw.JSON)
	if err != nil {
		return nil, fmt.Errorf("parse ytdlp: %w", err)
	}
	return meta, nil
}

func (y *YouTube) Transcript(ctx context.Context, meta *model.Meta) ([]model.TranscriptFragment, model.SubtitleTrack, error) {
	frags, track, err := y.Fetcher.Fragments(ctx, meta)
	if err != nil {
		return nil, track, err
	}
	if y.Logger != nil {
		y.Logger.Debug("transcript téléchargé", "video", meta.ID, "lang", track.Lang,
			"source", string(track.Source), "fragments", len(frags))
	}
	return frags, track, nil
}
