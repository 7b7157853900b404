// Package app orchestre les commandes : extraction de la playlist, récupération
// des transcripts (cache, yt-dlp, sous-titres), rendu et écriture des documents.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/patrickprogramme/pltranscripts/internal/cache"
	"github.com/patrickprogramme/pltranscripts/internal/clipboard"
	"github.com/patrickprogramme/pltranscripts/internal/config"
	"github.com/patrickprogramme/pltranscripts/internal/fsutil"
	"github.com/patrickprogramme/pltranscripts/internal/markdown"
	"github.com/patrickprogramme/pltranscripts/internal/subtitles"
	"github.com/patrickprogramme/pltranscripts/internal/yt"
	"github.com/patrickprogramme/pltranscripts/pkg/model"
	"golang.org/x/sync/errgroup"
)

const filePerm = 0o644

// BuildOptions : réglages d'une exécution, initialisés depuis la config puis
// surchargés par les flags.
type BuildOptions struct {
	Output            string // fichier (playlist, render) ou dossier (video) ; vide => output_dir
	Style             markdown.Style
	IncludeTimestamps bool
	Incremental       bool
	Copy              bool
}

// DefaultBuildOptions reprend les valeurs de la config.
func DefaultBuildOptions(cfg *config.Config) BuildOptions {
	return BuildOptions{
		Style:             cfg.RenderStyle(),
		IncludeTimestamps: cfg.IncludeTimestamps,
		Incremental:       cfg.Incremental,
		Copy:              cfg.CopyToClipboard,
	}
}

// Result résume une exécution.
type Result struct {
	Path     string
	Document string
	Videos   int
	Reused   int // transcripts repris du document existant
	Cached   int // transcripts lus dans le cache
	Fetched  int // transcripts téléchargés
	Missing  int // vidéos sans transcript
}

// App orchestre les dépendances (source, cache, renderer, presse-papier).
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	source   Source
	cache    *cache.Store // nil => pas de cache
	renderer *markdown.Renderer
	copy     func(string) error
}

// New construit l'application. store peut être nil.
func New(cfg *config.Config, logger *slog.Logger, source Source, store *cache.Store) (*App, error) {
	renderer, err := markdown.NewRenderer(cfg.ChunkOptions())
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		source:   source,
		cache:    store,
		renderer: renderer,
		copy:     clipboard.WriteAll,
	}, nil
}

// BuildPlaylist produit (ou met à jour) le document consolidé d'une playlist.
func (a *App) BuildPlaylist(ctx context.Context, url string, opts BuildOptions) (*Result, error) {
	pl, err := a.source.Playlist(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("playlist %s : %w", url, err)
	}
	title := pl.Title
	if strings.TrimSpace(title) == "" {
		title = pl.ID
	}
	a.logger.Info("playlist", "title", title, "videos", len(pl.Items))

	path := opts.Output
	if path == "" {
		path = filepath.Join(a.cfg.OutputDir, fsutil.SanitizeFilename(title)+".md")
	}

	res := &Result{Path: path, Videos: len(pl.Items)}

	var previous []model.VideoEntry
	if opts.Incremental {
		previous, err = a.loadPrevious(path)
		if err != nil {
			return nil, err
		}
	}
	reuse := newReuseIndex(previous)

	entries := make([]model.VideoEntry, len(pl.Items))
	var todo []int
	for i, it := range pl.Items {
		if strings.TrimSpace(it.Title) == "" {
			it.Title = it.ID
		}
		entries[i] = model.VideoEntry{
			Index:      it.Index,
			VideoID:    it.ID,
			Title:      it.Title,
			UploadDate: it.UploadDate,
		}
		if old, ok := reuse.lookup(it.Index, it.Title); ok {
			entries[i].Transcript = old.Transcript
			entries[i].Chunks = old.Chunks
			res.Reused++
			continue
		}
		todo = append(todo, i)
	}

	outcomes := make([]outcome, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for _, i := range todo {
		g.Go(func() error {
			frags, from, err := a.transcriptFor(gctx, entries[i].VideoID, nil)
			if err != nil {
				// une vidéo en échec n'arrête pas les autres
				if gctx.Err() != nil {
					return gctx.Err()
				}
				a.logger.Warn("transcript indisponible", "index", entries[i].Index, "video", entries[i].VideoID, "error", err)
				outcomes[i] = outcomeMissing
				return nil
			}
			entries[i].Transcript = frags
			outcomes[i] = from
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("récupération des transcripts : %w", err)
	}
	res.count(outcomes, todo)

	res.Document = a.renderer.Consolidated(entries, opts.IncludeTimestamps, title, opts.Style)
	if err := fsutil.WriteFileAtomic(path, []byte(res.Document), filePerm); err != nil {
		return nil, fmt.Errorf("écriture du document %s : %w", path, err)
	}
	a.logger.Info("document écrit", "path", path, "reused", res.Reused, "cached", res.Cached,
		"fetched", res.Fetched, "missing", res.Missing)

	a.maybeCopy(opts, res.Document)
	return res, nil
}

// BuildVideo produit le document autonome d'une vidéo.
func (a *App) BuildVideo(ctx context.Context, url string, opts BuildOptions) (*Result, error) {
	meta, err := a.source.Video(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("vidéo %s : %w", url, err)
	}

	res := &Result{Videos: 1}
	frags, from, err := a.transcriptFor(ctx, meta.ID, meta)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("transcript indisponible", "video", meta.ID, "error", err)
		from = outcomeMissing
	}
	res.count([]outcome{from}, []int{0})

	entry := model.VideoEntry{
		VideoID:    meta.ID,
		Title:      meta.Title,
		UploadDate: meta.UploadDate,
		Transcript: frags,
	}
	res.Document = a.renderer.Video(entry, opts.IncludeTimestamps)

	outDir := opts.Output
	if outDir == "" {
		outDir = a.cfg.OutputDir
	}
	suffix := meta.UploadDate
	if suffix == "" {
		suffix = meta.ID
	}
	baseName := fsutil.SanitizeFilename(strings.TrimSpace(meta.Title + " " + suffix))
	res.Path, err = fsutil.SaveMarkdownAtomic(outDir, baseName, []byte(res.Document), true)
	if err != nil {
		return nil, fmt.Errorf("cannot save file to disk: %w", err)
	}
	a.logger.Info("document écrit", "path", res.Path)

	a.maybeCopy(opts, res.Document)
	return res, nil
}

// Rerender relit un document consolidé et le rend à nouveau avec un autre
// style, sans réseau. opts.Output vide => le document n'est pas écrit.
// Un document rendu sans timestamps ne peut pas être relu (aucune ligne datée).
func (a *App) Rerender(path string, opts BuildOptions) (*Result, error) {
	title, entries, err := markdown.ParseFile(path)
	if err != nil {
		return nil, err
	}
	res := &Result{Path: opts.Output, Videos: len(entries), Reused: len(entries)}
	for _, e := range entries {
		if !e.HasTranscript() {
			res.Missing++
			res.Reused--
		}
	}
	// les chunks relus sont rendus tels quels : seuls le style et les timestamps changent
	res.Document = a.renderer.Consolidated(entries, opts.IncludeTimestamps, title, opts.Style)

	if opts.Output != "" {
		if err := fsutil.WriteFileAtomic(opts.Output, []byte(res.Document), filePerm); err != nil {
			return nil, fmt.Errorf("écriture du document %s : %w", opts.Output, err)
		}
	}
	a.maybeCopy(opts, res.Document)
	return res, nil
}

// Inspect relit un document consolidé.
func Inspect(path string) (*model.PlaylistDocument, error) {
	title, entries, err := markdown.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &model.PlaylistDocument{Title: title, Entries: entries}, nil
}

func (a *App) loadPrevious(path string) ([]model.VideoEntry, error) {
	exists, err := fsutil.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !exists {
		return nil, nil
	}
	_, entries, err := markdown.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du document existant : %w", err)
	}
	a.logger.Debug("document existant relu", "path", path, "entries", len(entries))
	return entries, nil
}

func (a *App) maybeCopy(opts BuildOptions, doc string) {
	if !opts.Copy {
		return
	}
	if err := a.copy(doc); err != nil {
		a.logger.Warn("copie dans le presse-papier impossible", "error", err)
		return
	}
	a.logger.Info("document copié dans le presse-papier")
}

// outcome : provenance du transcript d'une vidéo
type outcome int

const (
	outcomeNone outcome = iota
	outcomeCached
	outcomeFetched
	outcomeMissing
)

func (r *Result) count(outcomes []outcome, idx []int) {
	for _, i := range idx {
		switch outcomes[i] {
		case outcomeCached:
			r.Cached++
		case outcomeFetched:
			r.Fetched++
		case outcomeMissing:
			r.Missing++
		}
	}
}

// transcriptFor retourne le transcript d'une vidéo : cache d'abord, puis
// yt-dlp + sous-titres. meta peut être nil (récupérée au besoin).
// Une vidéo sans sous-titres donne (nil, outcomeMissing, nil) et est mémorisée.
func (a *App) transcriptFor(ctx context.Context, videoID string, meta *model.Meta) ([]model.TranscriptFragment, outcome, error) {
	if a.cache != nil && videoID != "" {
		e, err := a.cache.Get(ctx, videoID)
		switch {
		case err == nil && e.NoTranscript:
			return nil, outcomeMissing, nil
		case err == nil:
			return e.Fragments, outcomeCached, nil
		case !errors.Is(err, cache.ErrNotFound):
			a.logger.Warn("lecture du cache impossible", "video", videoID, "error", err)
		}
	}

	if meta == nil {
		m, err := a.source.Video(ctx, yt.VideoURL(videoID))
		if err != nil {
			return nil, outcomeMissing, err
		}
		meta = m
	}

	frags, track, err := a.source.Transcript(ctx, meta)
	if errors.Is(err, subtitles.ErrNoSubtitle) {
		a.remember(ctx, cache.Entry{VideoID: meta.ID, NoTranscript: true})
		return nil, outcomeMissing, nil
	}
	if err != nil {
		return nil, outcomeMissing, err
	}
	if len(frags) == 0 {
		a.remember(ctx, cache.Entry{VideoID: meta.ID, Lang: track.Lang, Source: track.Source, NoTranscript: true})
		return nil, outcomeMissing, nil
	}
	a.remember(ctx, cache.Entry{
		VideoID:   meta.ID,
		Lang:      track.Lang,
		Source:    track.Source,
		Fragments: frags,
	})
	return frags, outcomeFetched, nil
}

func (a *App) remember(ctx context.Context, e cache.Entry) {
	if a.cache == nil || e.VideoID == "" {
		return
	}
	if err := a.cache.Put(ctx, e); err != nil {
		a.logger.Warn("écriture du cache impossible", "video", e.VideoID, "error", err)
	}
}

// reuseIndex retrouve une entrée d'un document existant, d'abord par
// (index, titre), puis par titre seul s'il est unique (vidéo déplacée).
type reuseIndex struct {
	exact   map[string]model.VideoEntry
	byTitle map[string]model.VideoEntry
}

func newReuseIndex(entries []model.VideoEntry) reuseIndex {
	ri := reuseIndex{
		exact:   make(map[string]model.VideoEntry, len(entries)),
		byTitle: make(map[string]model.VideoEntry, len(entries)),
	}
	dup := make(map[string]bool)
	for _, e := range entries {
		if !e.HasTranscript() {
			continue
		}
		ri.exact[reuseKey(e.Index, e.Title)] = e
		if _, seen := ri.byTitle[e.Title]; seen {
			dup[e.Title] = true
		}
		ri.byTitle[e.Title] = e
	}
	for t := range dup {
		delete(ri.byTitle, t)
	}
	return ri
}

func (ri reuseIndex) lookup(index int, title string) (model.VideoEntry, bool) {
	if e, ok := ri.exact[reuseKey(index, title)]; ok {
		return e, true
	}
	e, ok := ri.byTitle[title]
	return e, ok
}

func reuseKey(index int, title string) string {
	return fmt.Sprintf("%d\x00%s", index, title)
}
