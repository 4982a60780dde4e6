package cli

import (
	"testing"

	"github.com/relforgehq/relforge/internal/config"
	"github.com/relforgehq/relforge/internal/registry"
)

func TestRecipesOnlyConfiguredClasses(t *testing.T) {
	cfg := config.Default()
	cfg.Provision["linux"] = []string{"apt-get install -y libpq-dev"}

	got := recipes(cfg)

	if len(got) != 1 {
		t.Fatalf("recipes = %v, want only the configured class", got)
	}
	recipe, ok := got[registry.ClassLinux]
	if !ok || len(recipe) != 1 || recipe[0] != "apt-get install -y libpq-dev" {
		t.Fatalf("linux recipe = %v", recipe)
	}

	// Unconfigured classes stay absent so the platform defaults apply.
	if _, ok := got[registry.ClassWindows]; ok {
		t.Fatal("windows got a recipe override without configuration")
	}
}

func TestRecipesEmptyOverrideDisablesProvisioning(t *testing.T) {
	cfg := config.Default()
	cfg.Provision["macos"] = []string{}

	got := recipes(cfg)
	recipe, ok := got[registry.ClassMacOS]
	if !ok || len(recipe) != 0 {
		t.Fatalf("macos recipe = %v (present=%v), want an explicit empty override", recipe, ok)
	}
}

func TestImagesCoverEveryClass(t *testing.T) {
	cfg := config.Default()
	cfg.Runtime.Images["windows"] = "registry.example.com/msvc-cross:latest"

	got := images(cfg)

	for _, class := range []registry.Class{registry.ClassLinux, registry.ClassMacOS, registry.ClassWindows} {
		if got[class] == "" {
			t.Errorf("class %s has no build image", class)
		}
	}
	if got[registry.ClassWindows] != "registry.example.com/msvc-cross:latest" {
		t.Fatalf("windows image = %q", got[registry.ClassWindows])
	}
}
