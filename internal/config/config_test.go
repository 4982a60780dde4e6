package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/relforgehq/relforge/internal/registry"
)

// Writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relforge.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Binary != "gnd" {
		t.Fatalf("Binary = %q, want gnd", cfg.Binary)
	}
	if cfg.Release.TagPattern != `^v[0-9]` {
		t.Fatalf("TagPattern = %q", cfg.Release.TagPattern)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("default registry invalid: %v", err)
	}
	if reg.Len() != 5 {
		t.Fatalf("default registry has %d targets, want 5", reg.Len())
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
binary = "gnd"

[toolchain]
command = "cargo build --locked --release --bin gnd --target {triple}"

[release]
repo = "graphprotocol/graph-node"

[provision]
linux = ["apt-get install -y libpq-dev"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Toolchain.Command != "cargo build --locked --release --bin gnd --target {triple}" {
		t.Fatalf("Command = %q", cfg.Toolchain.Command)
	}
	if cfg.Release.Repo != "graphprotocol/graph-node" {
		t.Fatalf("Repo = %q", cfg.Release.Repo)
	}

	// Unmentioned sections keep their defaults.
	if cfg.Release.APIURL != "https://api.github.com" {
		t.Fatalf("APIURL lost its default: %q", cfg.Release.APIURL)
	}
	if cfg.Toolchain.Output != "target/{triple}/release" {
		t.Fatalf("Output lost its default: %q", cfg.Toolchain.Output)
	}

	if got := cfg.Recipe(registry.ClassLinux); len(got) != 1 || got[0] != "apt-get install -y libpq-dev" {
		t.Fatalf("Recipe(linux) = %v", got)
	}
	if got := cfg.Recipe(registry.ClassMacOS); got != nil {
		t.Fatalf("Recipe(macos) = %v, want nil", got)
	}
}

func TestLoadTargetTable(t *testing.T) {
	path := writeConfig(t, `
[[target]]
name = "linux-x86_64"
class = "linux"
triple = "x86_64-unknown-linux-gnu"
asset_name = "gnd-linux-x86_64"

[[target]]
name = "windows-x86_64"
class = "windows"
triple = "x86_64-pc-windows-msvc"
asset_name = "gnd-windows-x86_64.exe"
cross_compile = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (explicit table replaces defaults)", reg.Len())
	}

	targets := reg.Targets()
	if targets[1].Class != registry.ClassWindows || !targets[1].CrossCompile {
		t.Fatalf("windows target decoded wrong: %+v", targets[1])
	}
}

func TestLoadDuplicateAssetName(t *testing.T) {
	path := writeConfig(t, `
[[target]]
name = "a"
class = "linux"
triple = "x86_64-unknown-linux-gnu"
asset_name = "same"

[[target]]
name = "b"
class = "linux"
triple = "aarch64-unknown-linux-gnu"
asset_name = "same"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := cfg.Registry(); !errors.Is(err, registry.ErrDuplicateAsset) {
		t.Fatalf("err = %v, want ErrDuplicateAsset", err)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, `
binery = "gnd"
`)
	if _, err := Load(path); !errors.Is(err, ErrConfigFile) {
		t.Fatalf("err = %v, want ErrConfigFile for unknown key", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, ErrConfigFile) {
		t.Fatalf("err = %v, want ErrConfigFile", err)
	}
}

func TestLoadBadClass(t *testing.T) {
	path := writeConfig(t, `
[[target]]
name = "a"
class = "beos"
triple = "x86_64-unknown-linux-gnu"
asset_name = "a"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("unknown platform class decoded without error")
	}
}

func TestImageFallback(t *testing.T) {
	cfg := Default()
	if cfg.Image(registry.ClassLinux) == "" {
		t.Fatal("no fallback image")
	}

	cfg.Runtime.Images["macos"] = "registry.example.com/cross-darwin:latest"
	if got := cfg.Image(registry.ClassMacOS); got != "registry.example.com/cross-darwin:latest" {
		t.Fatalf("Image(macos) = %q", got)
	}
}
