package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/patrickprogramme/pltranscripts/internal/fsutil"
	"github.com/patrickprogramme/pltranscripts/internal/transcript"
)

// migrations[v] fait passer une config de la version v à v+1 ; nil => rien à changer.
var migrations = [CurrentConfigVersion]func(*Config){
	// 0 -> 1 : fichier sans config_version
	nil,
	// 1 -> 2 : apparition du bloc chunking ; des seuils nuls reprennent les défauts
	func(c *Config) {
		def := transcript.DefaultOptions()
		if c.Chunking.MaxGapSeconds <= 0 {
			c.Chunking.MaxGapSeconds = def.MaxGapSeconds
		}
		if c.Chunking.MaxChars <= 0 {
			c.Chunking.MaxChars = def.MaxChars
		}
	},
}

// upgradeConfig sauvegarde le fichier, applique les migrations depuis
// fromVersion puis réécrit le fichier à la version courante.
// En cas d'échec d'écriture, le contenu d'origine est restauré.
func upgradeConfig(cfg *Config, fromVersion int) error {
	if cfg.configFilePath == "" {
		return fmt.Errorf("chemin du fichier de configuration inconnu : impossible de faire une sauvegarde")
	}
	if fromVersion < 0 || fromVersion > CurrentConfigVersion {
		return fmt.Errorf("version de configuration inconnue : %d", fromVersion)
	}

	original, backupPath, err := backupConfig(cfg.configFilePath)
	if err != nil {
		return fmt.Errorf("sauvegarde avant migration : %w", err)
	}

	for v := fromVersion; v < CurrentConfigVersion; v++ {
		if step := migrations[v]; step != nil {
			step(cfg)
		}
	}
	cfg.normalizeConfig()
	cfg.ConfigVersion = CurrentConfigVersion

	if err := cfg.Save(cfg.configFilePath); err != nil {
		_ = fsutil.WriteFileAtomic(cfg.configFilePath, original, 0o644)
		return err
	}

	slog.Info("configuration mise à jour",
		"from", fromVersion, "to", CurrentConfigVersion, "backup", backupPath)
	return nil
}

// backupConfig copie le fichier à côté de lui (<path>.bak.<horodatage>) et
// retourne son contenu d'origine.
func backupConfig(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("lecture de %s : %w", path, err)
	}
	backup := path + ".bak." + time.Now().Format("20060102T150405")
	if err := fsutil.WriteFileAtomic(backup, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("écriture de la sauvegarde %s : %w", backup, err)
	}
	return data, backup, nil
}
