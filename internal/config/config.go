// Package config loads optional default CLI flags from a TOML file, so
// repeat invocations of minstralc don't need to repeat every flag. Command
// line flags always take precedence over values loaded here.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Output       string `toml:"output"`
	Unoptimized  bool   `toml:"unoptimized"`
	Uppercase    bool   `toml:"uppercase"`
	Freestanding bool   `toml:"freestanding"`
	StdlibPath   string `toml:"stdlib_path"`
}

func Default() Config {
	return Config{
		Output:     "a.out",
		StdlibPath: "/usr/local/share/minstral-basic/basic.mb",
	}
}

// Path resolves the platform-specific location of minstralc.toml: under
// %APPDATA% on windows, and under $HOME/.config on every other platform
// (XDG_CONFIG_HOME is not consulted).
func Path() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "minstralc", "minstralc.toml")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "minstralc", "minstralc.toml")
	}
}

// Load reads Path() if it exists, returning Default() unmodified if it
// doesn't.
func Load() (Config, error) {
	return LoadFrom(Path())
}

func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
