package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/relforgehq/relforge/internal/config"
	"github.com/relforgehq/relforge/internal/paths"
	"github.com/relforgehq/relforge/internal/pipeline"
	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/release"
	"github.com/relforgehq/relforge/internal/runtime"
	"github.com/relforgehq/relforge/internal/store"
)

// Represents the 'relforge run' command.
type RunCmd struct {
	Ref       string `help:"Git ref the run was triggered for." default:"refs/heads/main" placeholder:"REF"`
	Dist      string `help:"Directory packaged archives are written to." placeholder:"DIR"`
	Isolation string `help:"Job isolation backend." enum:"container,local" default:"container"`
	DryRun    bool   `help:"Run all build jobs but never publish."`
}

// Executes the run command.
//
// Builds every configured target concurrently, packages the results, and
// publishes a release when the ref matches the release tag pattern. The
// exit code distinguishes configuration errors, job failures, and release
// failures; see [ExitCode].
func (c *RunCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	trigger, err := pipeline.Detect(c.Ref, cfg.Release.TagPattern)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfigFile, err)
	}
	if trigger.IsTag && !c.DryRun && cfg.Release.Repo == "" {
		return fmt.Errorf("%w: release.repo must be set to publish tag %s", config.ErrConfigFile, trigger.Tag)
	}

	dist := cfg.Dist
	if c.Dist != "" {
		dist = c.Dist
	}
	if dist == "" {
		dist = paths.Dist()
	}

	provider, err := c.provider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	st := store.New()
	client := release.NewHTTPClient(cfg.Release.APIURL, cfg.Release.Repo, os.Getenv(cfg.Release.TokenEnv))

	pipe := pipeline.New(provider, reg, st, release.NewPublisher(client, reg, st), pipeline.Options{
		Binary:      cfg.Binary,
		Command:     cfg.Toolchain.Command,
		Output:      cfg.Toolchain.Output,
		Dist:        dist,
		Work:        paths.Work(),
		LibraryPath: cfg.Toolchain.Windows.LibraryPath,
		DynamicLink: cfg.Toolchain.Windows.DynamicLink,
		Recipes:     recipes(cfg),
		Images:      images(cfg),
	})

	report := pipe.Run(ctx, trigger, c.DryRun)

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%w: %s", pipeline.ErrJobs, strings.Join(failed, ", "))
	}
	if report.ReleaseErr != nil {
		return report.ReleaseErr
	}
	return nil
}

// Creates the isolation backend selected by the --isolation flag.
func (c *RunCmd) provider(cfg *config.Config) (runtime.Provider, error) {
	if c.Isolation == "local" {
		return runtime.NewLocal(cfg.Source), nil
	}
	return runtime.NewContainerd(cfg.Runtime.Address, cfg.Runtime.Namespace, cfg.Source)
}

// Loads the configuration named by --config, or the defaults.
func loadConfig() (*config.Config, error) {
	if RootCmd.Config == "" {
		return config.Default(), nil
	}
	return config.Load(RootCmd.Config)
}

// Collects the config's provisioning recipe overrides per class.
//
// Classes with no override stay absent so the pipeline falls back to the
// platform default recipe.
func recipes(cfg *config.Config) map[registry.Class][]string {
	out := make(map[registry.Class][]string, len(cfg.Provision))
	for _, class := range []registry.Class{registry.ClassLinux, registry.ClassMacOS, registry.ClassWindows} {
		if recipe := cfg.Recipe(class); recipe != nil {
			out[class] = recipe
		}
	}
	return out
}

// Resolves the build image for every platform class.
func images(cfg *config.Config) map[registry.Class]string {
	out := make(map[registry.Class]string, 3)
	for _, class := range []registry.Class{registry.ClassLinux, registry.ClassMacOS, registry.ClassWindows} {
		out[class] = cfg.Image(class)
	}
	return out
}
