package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/patrickprogramme/pltranscripts/internal/assets"
	"github.com/patrickprogramme/pltranscripts/internal/config"
)

func TestEnsureConfigPresentIsIdempotent(t *testing.T) {
	fsys := fstest.MapFS{"example.yaml": {Data: []byte("style: bullet\n")}}
	dst := filepath.Join(t.TempDir(), "sub", "pltranscripts.yaml")

	created, err := EnsureConfigPresent(dst, fsys, "example.yaml")
	if err != nil || !created {
		t.Fatalf("first call = %v, %v; want created", created, err)
	}

	if err := os.WriteFile(dst, []byte("style: paragraph\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	created, err = EnsureConfigPresent(dst, fsys, "example.yaml")
	if err != nil || created {
		t.Fatalf("second call = %v, %v; want untouched", created, err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "style: paragraph\n" {
		t.Fatalf("existing file was overwritten: %q", b)
	}
}

func TestEnsureConfigPresentMissingAsset(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "cfg.yaml")
	if _, err := EnsureConfigPresent(dst, fstest.MapFS{}, "nope.yaml"); err == nil {
		t.Fatal("expected an error for a missing asset")
	}
}

// l'exemple embarqué doit rester chargeable et valide
func TestEmbeddedExampleLoads(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "pltranscripts.yaml")
	if _, err := EnsureConfigPresent(dst, assets.Embedded, assets.DefaultConfigAsset); err != nil {
		t.Fatalf("EnsureConfigPresent: %v", err)
	}
	cfg, err := config.Load(dst)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded example does not validate: %v", err)
	}
	if cfg.ConfigVersion != config.CurrentConfigVersion {
		t.Fatalf("embedded example has version %d; want %d", cfg.ConfigVersion, config.CurrentConfigVersion)
	}
	backups, _ := filepath.Glob(dst + ".bak.*")
	if len(backups) != 0 {
		t.Fatalf("embedded example should not need a migration, got backups %v", backups)
	}
}
