package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"minstral.dev/basicc/internal/config"
)

func TestLoadFrom(t *testing.T) {
	t.Run("Valid data", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "minstralc.toml")
		body := "output = \"prog.out\"\nunoptimized = true\nstdlib_path = \"/opt/minstral/basic.mb\"\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := config.LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Output != "prog.out" {
			t.Errorf("Output = %q, want prog.out", cfg.Output)
		}
		if !cfg.Unoptimized {
			t.Error("expected Unoptimized to be true")
		}
		if cfg.StdlibPath != "/opt/minstral/basic.mb" {
			t.Errorf("StdlibPath = %q, want /opt/minstral/basic.mb", cfg.StdlibPath)
		}
		// Fields absent from the file keep Default()'s zero values.
		if cfg.Uppercase {
			t.Error("expected Uppercase to default to false")
		}
	})

	t.Run("Valid data, missing file falls back to Default", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "does-not-exist.toml")

		cfg, err := config.LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := config.Default()
		if cfg != want {
			t.Errorf("LoadFrom(missing) = %+v, want Default() %+v", cfg, want)
		}
	})

	t.Run("Invalid data", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "minstralc.toml")
		if err := os.WriteFile(path, []byte("output = not valid toml :::"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := config.LoadFrom(path); err == nil {
			t.Fatal("expected a decode error for malformed TOML")
		}
	})
}

func TestPath(t *testing.T) {
	t.Run("Valid data", func(t *testing.T) {
		p := config.Path()
		if filepath.Base(p) != "minstralc.toml" {
			t.Errorf("Path() = %q, want a path ending in minstralc.toml", p)
		}
	})
}
