package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/patrickprogramme/pltranscripts/internal/fsutil"
	"github.com/patrickprogramme/pltranscripts/internal/markdown"
	"github.com/patrickprogramme/pltranscripts/internal/transcript"
	"gopkg.in/yaml.v3"
)

const CurrentConfigVersion = 2

// DefaultPath : fichier lu quand --config n'est pas fourni
const DefaultPath = "pltranscripts.yaml"

var ErrInvalidConfig = errors.New("configuration invalide")

// struct pour les paramètres de configuration
type Config struct {
	// Chemins
	OutputDir string `yaml:"output_dir"`

	// Rendu
	IncludeTimestamps bool               `yaml:"include_timestamps"`
	Style             string             `yaml:"style"`
	Chunking          transcript.Options `yaml:"chunking"`

	// Mise à jour incrémentale du document consolidé
	Incremental bool `yaml:"incremental"`

	// Sous-titres
	PreferManualSubs bool     `yaml:"prefer_manual_subs"`
	Languages        []string `yaml:"languages"`

	// nombre de vidéos traitées en parallèle
	Concurrency int `yaml:"concurrency"`

	Cache struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"cache"`

	CopyToClipboard bool `yaml:"copy_to_clipboard"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// yt-dlp
	YtDlp struct {
		Name         string `yaml:"name"`
		Path         string `yaml:"path"`
		ShowWarnings bool   `yaml:"show_warnings"`

		// ResolvedPath contient le chemin effectif vers l'exécutable
		ResolvedPath string `yaml:"-"`
	} `yaml:"yt_dlp"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Configuration par défaut (les champs absents du YAML gardent ces valeurs)
func defaultConfig() *Config {
	c := &Config{}

	c.OutputDir = "."

	c.IncludeTimestamps = true
	c.Style = string(markdown.StyleParagraph)
	c.Chunking = transcript.DefaultOptions()

	c.Incremental = true

	c.PreferManualSubs = true
	c.Languages = []string{"en"}

	c.Concurrency = 4

	c.Cache.Enabled = true
	c.Cache.Path = "pltranscripts.db"

	c.CopyToClipboard = false

	c.Log.Level = "info"
	c.Log.Format = "auto"

	c.YtDlp.Name = "yt-dlp"
	c.YtDlp.Path = ""
	c.YtDlp.ShowWarnings = false

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne la configuration par défaut normalisée, sans fichier associé.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config. Un fichier absent n'est pas une erreur : on retourne les
// valeurs par défaut (`config init` crée le fichier).
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := defaultConfig()
	cfg.configFilePath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.normalizeConfig()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// un fichier sans config_version date d'avant le versionnage
	cfg.ConfigVersion = 0

	// On déserialise dans cfg initialisé : les champs absents conservent les valeurs par défaut.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}

	cfg.normalizeConfig()

	// gestion de version : si le fichier est plus ancien -> orchestrer la mise à jour
	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := upgradeConfig(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
		cfg.normalizeConfig()
	}

	return cfg, nil
}

// Path retourne le fichier d'où la config a été lue (ou aurait dû l'être).
func (c *Config) Path() string { return c.configFilePath }

// Save écrit la config en YAML, atomiquement.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("échec d'encodage YAML de la configuration : %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("échec d'écriture du fichier de configuration %s : %w", path, err)
	}
	return nil
}

// ChunkOptions retourne les seuils de découpage à passer au Renderer.
func (c *Config) ChunkOptions() transcript.Options {
	return c.Chunking
}

// RenderStyle retourne le style configuré ; Validate garantit qu'il est connu.
func (c *Config) RenderStyle() markdown.Style {
	s, err := markdown.ParseStyle(c.Style)
	if err != nil {
		return markdown.StyleParagraph
	}
	return s
}

func (c *Config) normalizeConfig() {
	// Nettoyage des chemins
	c.OutputDir = filepath.Clean(strings.TrimSpace(c.OutputDir))
	if p := strings.TrimSpace(c.Cache.Path); p != "" {
		c.Cache.Path = filepath.Clean(p)
	} else {
		c.Cache.Path = "pltranscripts.db"
	}

	c.Style = strings.TrimSpace(strings.ToLower(c.Style))
	if c.Style == "" {
		c.Style = string(markdown.StyleParagraph)
	}

	// langues : minuscules, sans doublons ni vides
	seen := make(map[string]bool, len(c.Languages))
	langs := c.Languages[:0]
	for _, l := range c.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		langs = append(langs, l)
	}
	c.Languages = langs

	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}

	// centraliser la résolution/normalisation de yt-dlp
	c.ResolveYtDlpPath()
}

// ResolveYtDlpPath normalise le nom et résout le chemin complet vers l'exécutable.
// Appeler après avoir modifié cfg.YtDlp.Name ou cfg.YtDlp.Path.
// Sans chemin configuré, le nom seul est gardé : exec le cherche dans PATH.
func (c *Config) ResolveYtDlpPath() {
	if c == nil {
		return
	}

	c.YtDlp.Name = strings.TrimSpace(c.YtDlp.Name)
	if c.YtDlp.Name == "" {
		c.YtDlp.Name = "yt-dlp"
	}

	// ajoute .exe si nécessaire
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(c.YtDlp.Name), ".exe") {
		c.YtDlp.Name = c.YtDlp.Name + ".exe"
	}

	exeName := c.YtDlp.Name
	cfgPath := strings.TrimSpace(c.YtDlp.Path)
	if cfgPath == "" {
		c.YtDlp.ResolvedPath = exeName
		return
	}
	cleanPath := filepath.Clean(cfgPath)

	// si le chemin fourni finit déjà par l'exécutable -> on l'utilise
	if filepath.Base(cleanPath) == exeName {
		c.YtDlp.ResolvedPath = cleanPath
	} else {
		// sinon on considère cfgPath comme un répertoire et on y joint l'exe
		c.YtDlp.ResolvedPath = filepath.Join(cleanPath, exeName)
	}
}
