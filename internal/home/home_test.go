package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		d, err := New("/tmp/dissect-test")
		if err != nil {
			t.Fatal(err)
		}
		if d.Path() != "/tmp/dissect-test" {
			t.Errorf("unexpected path %s", d.Path())
		}
	})

	t.Run("default path under user home", func(t *testing.T) {
		d, err := New("")
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(d.Path()) != DefaultDirName {
			t.Errorf("expected %s, got %s", DefaultDirName, d.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	d, err := New("/data/dissect")
	if err != nil {
		t.Fatal(err)
	}

	if got := d.ConfigPath(); got != filepath.Join("/data/dissect", ConfigFileName) {
		t.Errorf("unexpected config path %s", got)
	}
	if got := d.OutputDir(); got != filepath.Join("/data/dissect", OutputDirName) {
		t.Errorf("unexpected output dir %s", got)
	}
	if got := d.EnrichmentDir(); got != filepath.Join("/data/dissect", EnrichmentDirName) {
		t.Errorf("unexpected enrichment dir %s", got)
	}
}

func TestDir_EnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "home")
	d, err := New(root)
	if err != nil {
		t.Fatal(err)
	}

	if d.Exists() {
		t.Error("directory should not exist yet")
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if !d.Exists() {
		t.Error("directory should exist")
	}
	if _, err := os.Stat(d.OutputDir()); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
	if d.ConfigExists() {
		t.Error("config file should not exist")
	}
}
