// Package fsutil regroupe les écritures atomiques et le nettoyage des noms de fichiers.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Exists indique si path existe. Une erreur autre que "absent" est retournée telle quelle.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic écrit data dans destPath de manière atomique : écriture dans
// un fichier temporaire du même répertoire puis os.Rename(tmp -> dest).
// Crée les répertoires parents si nécessaire.
//
// Un document consolidé relu en mode incrémental n'est donc jamais vu à moitié écrit.
func WriteFileAtomic(destPath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// après un rename réussi, Remove échoue sans effet
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	// Sync best-effort : certains systèmes de fichiers ne le supportent pas
	_ = tmp.Sync()

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		return fmt.Errorf("rename tmp -> dest: %w", err)
	}
	return nil
}

// SaveMarkdownAtomic écrit content dans outDir sous baseName+".md".
//   - overwrite=false : si le fichier existe, on ajoute un suffixe _1, _2, ...
//   - overwrite=true  : on écrase directement.
//
// Retourne le chemin final du fichier.
func SaveMarkdownAtomic(outDir, baseName string, content []byte, overwrite bool) (string, error) {
	if baseName == "" {
		return "", fmt.Errorf("baseName empty")
	}

	final := filepath.Join(outDir, baseName+".md")
	if !overwrite {
		var err error
		if final, err = freeName(outDir, baseName); err != nil {
			return "", err
		}
	}

	if err := WriteFileAtomic(final, content, 0o644); err != nil {
		return "", err
	}
	return final, nil
}

// freeName cherche le premier nom baseName[_N].md non utilisé dans outDir.
func freeName(outDir, baseName string) (string, error) {
	candidate := filepath.Join(outDir, baseName+".md")
	const maxAttempts = 1000
	for i := 1; i <= maxAttempts+1; i++ {
		exists, err := Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(outDir, fmt.Sprintf("%s_%d.md", baseName, i))
	}
	// fallback timestamp
	return filepath.Join(outDir, fmt.Sprintf("%s_%d.md", baseName, time.Now().Unix())), nil
}
