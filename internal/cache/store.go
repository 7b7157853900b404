// Package cache conserve les transcripts déjà téléchargés dans une base SQLite
// locale, indexée par id de vidéo. Une vidéo sans sous-titres est aussi
// mémorisée pour ne pas interroger YouTube à chaque exécution.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

var ErrNotFound = errors.New("transcript absent du cache")

// Entry : transcript mis en cache pour une vidéo.
type Entry struct {
	VideoID      string
	Lang         string
	Source       model.SubSource
	Fragments    []model.TranscriptFragment
	NoTranscript bool // la vidéo n'a pas de sous-titres exploitables
	FetchedAt    time.Time
}

// Store : accès à la base SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open ouvre (ou crée) la base à path et applique les migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// les écritures concurrentes des workers passent par une seule connexion
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path retourne le fichier de la base.
func (s *Store) Path() string { return s.path }

// Close ferme la connexion.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get retourne l'entrée de videoID, ou ErrNotFound.
func (s *Store) Get(ctx context.Context, videoID string) (*Entry, error) {
	var (
		e         Entry
		source    string
		fragsJSON string
		noTr      int
		fetchedAt string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT video_id, lang, source, fragments_json, no_transcript, fetched_at
		   FROM transcripts WHERE video_id = ?`, videoID)
	if err := row.Scan(&e.VideoID, &e.Lang, &source, &fragsJSON, &noTr, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, videoID)
		}
		return nil, fmt.Errorf("select transcript %s: %w", videoID, err)
	}
	if err := json.Unmarshal([]byte(fragsJSON), &e.Fragments); err != nil {
		return nil, fmt.Errorf("decode fragments %s: %w", videoID, err)
	}
	e.Source = model.SubSource(source)
	e.NoTranscript = noTr != 0
	if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
		e.FetchedAt = t
	}
	return &e, nil
}

// Put insère ou remplace l'entrée. FetchedAt vide => maintenant.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.VideoID == "" {
		return errors.New("cache: video id vide")
	}
	frags := e.Fragments
	if frags == nil {
		frags = []model.TranscriptFragment{}
	}
	data, err := json.Marshal(frags)
	if err != nil {
		return fmt.Errorf("encode fragments %s: %w", e.VideoID, err)
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now()
	}
	noTr := 0
	if e.NoTranscript {
		noTr = 1
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transcripts (video_id, lang, source, fragments_json, no_transcript, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
		     lang = excluded.lang,
		     source = excluded.source,
		     fragments_json = excluded.fragments_json,
		     no_transcript = excluded.no_transcript,
		     fetched_at = excluded.fetched_at`,
		e.VideoID, e.Lang, string(e.Source), string(data), noTr,
		e.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert transcript %s: %w", e.VideoID, err)
	}
	return nil
}

// Delete supprime l'entrée de videoID (sans erreur si absente).
func (s *Store) Delete(ctx context.Context, videoID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE video_id = ?", videoID); err != nil {
		return fmt.Errorf("delete transcript %s: %w", videoID, err)
	}
	return nil
}

// Count retourne le nombre d'entrées.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM transcripts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count transcripts: %w", err)
	}
	return n, nil
}
