package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/relforgehq/relforge/internal/registry"
)

// Top-level pipeline configuration.
//
// Every field has a working default; a config file only overrides the
// parts it mentions. Decoding happens on top of [Default], so absent
// sections keep their defaults.
type Config struct {
	Binary    string              `toml:"binary"`    // Name of the compiled binary and base of all asset names.
	Source    string              `toml:"source"`    // Source tree the toolchain builds from.
	Dist      string              `toml:"dist"`      // Directory packaged archives are written to. Empty uses the XDG default.
	Toolchain Toolchain           `toml:"toolchain"` // Compiler invocation settings.
	Release   Release             `toml:"release"`   // Release API boundary settings.
	Runtime   Runtime             `toml:"runtime"`   // Container isolation backend settings.
	Provision map[string][]string `toml:"provision"` // Per-class provisioning recipe overrides, keyed by platform class.
	Targets   []Target            `toml:"target"`    // Target table override. Empty uses the built-in table.
}

// Compiler toolchain settings.
//
// Command and Output are templates; "{triple}" is replaced with the
// target's triple before execution.
type Toolchain struct {
	Command string  `toml:"command"` // Build command template.
	Output  string  `toml:"output"`  // Directory template the toolchain writes the binary to.
	Windows Windows `toml:"windows"` // Overrides injected for Windows-class targets only.
}

// Build environment overrides for Windows-class targets.
type Windows struct {
	LibraryPath string `toml:"library_path"` // Additional linker search directory.
	DynamicLink bool   `toml:"dynamic_link"` // Whether to force dynamic linking of native libraries.
}

// Release API boundary settings.
//
// The token is read from the environment variable named by TokenEnv, never
// from the config file itself.
type Release struct {
	APIURL     string `toml:"api_url"`     // Base URL of the release API.
	Repo       string `toml:"repo"`        // Repository the release is created in ("owner/name").
	TokenEnv   string `toml:"token_env"`   // Environment variable holding the API token.
	TagPattern string `toml:"tag_pattern"` // Regular expression deciding whether a ref is a release tag.
}

// Container isolation backend settings.
type Runtime struct {
	Address   string            `toml:"address"`   // Containerd socket address.
	Namespace string            `toml:"namespace"` // Containerd namespace for build containers.
	Images    map[string]string `toml:"images"`    // Build image reference per platform class.
}

// A single target table entry as it appears in the config file.
type Target struct {
	Name         string         `toml:"name"`
	Class        registry.Class `toml:"class"`
	Triple       string         `toml:"triple"`
	AssetName    string         `toml:"asset_name"`
	CrossCompile bool           `toml:"cross_compile"`
}

// Returns the configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Binary: "gnd",
		Source: ".",
		Toolchain: Toolchain{
			Command: "cargo build --release --bin gnd --target {triple}",
			Output:  "target/{triple}/release",
			Windows: Windows{DynamicLink: true},
		},
		Release: Release{
			APIURL:     "https://api.github.com",
			TokenEnv:   "RELFORGE_TOKEN",
			TagPattern: `^v[0-9]`,
		},
		Runtime: Runtime{
			Address:   "/run/containerd/containerd.sock",
			Namespace: "relforge",
			Images:    map[string]string{},
		},
		Provision: map[string][]string{},
	}
}

// Loads configuration from a TOML file on top of the defaults.
//
// Unknown keys are rejected so typos fail loudly instead of silently
// keeping a default.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	meta, err := toml.Decode(string(raw), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown key %q", ErrConfigFile, path, undecoded[0].String())
	}

	return cfg, nil
}

// Builds the target registry from the configuration.
//
// An explicit [[target]] table replaces the built-in defaults entirely.
// Registry validation applies either way.
func (c *Config) Registry() (*registry.Registry, error) {
	if len(c.Targets) == 0 {
		return registry.New(registry.DefaultTargets(c.Binary))
	}

	specs := make([]registry.TargetSpec, 0, len(c.Targets))
	for _, target := range c.Targets {
		specs = append(specs, registry.TargetSpec{
			Name:         target.Name,
			Class:        target.Class,
			Triple:       target.Triple,
			AssetName:    target.AssetName,
			CrossCompile: target.CrossCompile,
		})
	}
	return registry.New(specs)
}

// Returns the configured provisioning recipe override for a class.
//
// A nil result means no override; callers fall back to the platform
// default recipe.
func (c *Config) Recipe(class registry.Class) []string {
	return c.Provision[string(class)]
}

// Returns the build image reference for a class under container isolation.
func (c *Config) Image(class registry.Class) string {
	if ref, ok := c.Runtime.Images[string(class)]; ok {
		return ref
	}
	return defaultImage
}

// Fallback build image when the config names none for a class.
//
// Cross-target builds all run on a Linux builder image; the class only
// selects which cross-toolchain the provisioner installs into it.
const defaultImage = "docker.io/library/rust:1-bookworm"
