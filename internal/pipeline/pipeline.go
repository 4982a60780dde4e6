package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/relforgehq/relforge/internal/build"
	"github.com/relforgehq/relforge/internal/pack"
	"github.com/relforgehq/relforge/internal/platform"
	"github.com/relforgehq/relforge/internal/provision"
	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/release"
	"github.com/relforgehq/relforge/internal/runtime"
	"github.com/relforgehq/relforge/internal/store"
)

// Lifecycle status of a build job.
type Status string

const (
	StatusPending      Status = "pending"
	StatusProvisioning Status = "provisioning"
	StatusBuilding     Status = "building"
	StatusPackaging    Status = "packaging"
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
)

// One per-target unit of work and its outcome.
//
// A job is mutated only by its own goroutine until the fan-in point; after
// [Pipeline.Run] returns it is read-only.
type Job struct {
	Spec     registry.TargetSpec // Target this job builds.
	Status   Status              // Terminal status after the run.
	Err      error               // Failure cause when Status is failed.
	Artifact *store.Artifact     // Packaged artifact when Status is succeeded.
}

// Run-wide settings shared by all jobs.
type Options struct {
	Binary      string                      // Base name of the compiled binary.
	Command     string                      // Build command template; "{triple}" is substituted per target.
	Output      string                      // Toolchain output directory template.
	Dist        string                      // Directory packaged archives are written to.
	Work        string                      // Host directory raw binaries are staged under, one subdirectory per target.
	LibraryPath string                      // Linker search directory injected for Windows-class targets.
	DynamicLink bool                        // Dynamic-linking override for Windows-class targets.
	Recipes     map[registry.Class][]string // Provisioning recipe overrides; absent classes use the platform default.
	Images      map[registry.Class]string   // Build image per platform class.
}

// Orchestrates one pipeline run: fan-out of per-target build jobs,
// fan-in, and tag-gated release publishing.
type Pipeline struct {
	provider  runtime.Provider
	reg       *registry.Registry
	st        *store.Store
	publisher *release.Publisher // Nil disables publishing entirely.
	opts      Options
}

// Creates a pipeline over the given environment provider, target
// registry, artifact store, and publisher.
func New(provider runtime.Provider, reg *registry.Registry, st *store.Store, publisher *release.Publisher, opts Options) *Pipeline {
	return &Pipeline{provider: provider, reg: reg, st: st, publisher: publisher, opts: opts}
}

// Outcome of a pipeline run.
type Report struct {
	Jobs       []*Job          // One entry per registry target, in registry order.
	Release    *release.Result // Publish outcome; nil when publishing did not run.
	ReleaseErr error           // Publish failure cause; nil when publishing did not run or succeeded.
}

// Returns the names of failed targets in registry order.
func (r *Report) Failed() []string {
	var failed []string
	for _, job := range r.Jobs {
		if job.Status == StatusFailed {
			failed = append(failed, job.Spec.Name)
		}
	}
	return failed
}

// Runs every registry target as a concurrent job, waits for all of them,
// and publishes a release when the trigger is a release tag.
//
// Fan-in always completes: a failing job never cancels or degrades its
// siblings, so one broken target still yields every other platform's
// artifact. Publishing runs even when jobs failed; the publisher's own
// preflight then refuses the incomplete release and reports what is
// missing. Dry runs skip publishing only.
func (p *Pipeline) Run(ctx context.Context, trigger Trigger, dryRun bool) *Report {
	report := &Report{}

	slog.Info("starting pipeline run",
		"targets", p.reg.Len(),
		"ref", trigger.Ref,
		"release", trigger.IsTag,
	)

	var wg sync.WaitGroup
	for _, spec := range p.reg.Targets() {
		job := &Job{Spec: spec, Status: StatusPending}
		report.Jobs = append(report.Jobs, job)

		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runJob(ctx, job)
		}()
	}
	wg.Wait()

	for _, job := range report.Jobs {
		if job.Status == StatusFailed {
			slog.Error("job failed", "target", job.Spec.Name, "error", job.Err)
		}
	}

	switch {
	case !trigger.IsTag:
		slog.Info("ref is not a release tag, skipping publish", "ref", trigger.Ref)
	case dryRun:
		slog.Info("dry run, skipping publish", "tag", trigger.Tag)
	case p.publisher == nil:
		slog.Info("no publisher configured, skipping publish", "tag", trigger.Tag)
	default:
		result, err := p.publisher.Publish(ctx, trigger.Tag)
		if err != nil {
			slog.Error("publish failed", "tag", trigger.Tag, "error", err)
		}
		report.Release = result
		report.ReleaseErr = err
	}

	return report
}

// Runs one job through its full lifecycle inside a fresh environment.
//
// Any stage failure marks the job failed and returns; there is no retry
// at any stage. The environment is always released, even on failure.
func (p *Pipeline) runJob(ctx context.Context, job *Job) {
	spec := job.Spec

	policy, err := platform.For(spec.Class)
	if err != nil {
		p.fail(job, err)
		return
	}

	env, err := p.provider.Environment(ctx, envID(spec), runtime.EnvironmentOptions{
		Image: p.opts.Images[spec.Class],
	})
	if err != nil {
		p.fail(job, fmt.Errorf("creating environment: %w", err))
		return
	}
	defer func() {
		if err := env.Close(ctx); err != nil {
			slog.Warn("environment cleanup failed", "target", spec.Name, "error", err)
		}
	}()

	job.Status = StatusProvisioning
	recipe, ok := p.opts.Recipes[spec.Class]
	if !ok {
		recipe = policy.DefaultRecipe()
	}
	if err := provision.Run(ctx, env, spec.Class, recipe); err != nil {
		p.fail(job, err)
		return
	}

	job.Status = StatusBuilding
	binPath, err := build.Run(ctx, env, spec, build.Options{
		Command:   p.opts.Command,
		Output:    p.opts.Output,
		Binary:    p.opts.Binary,
		Overrides: policy.BuildOverrides(p.opts.LibraryPath, p.opts.DynamicLink),
		Stage:     filepath.Join(p.opts.Work, spec.Name),
	})
	if err != nil {
		p.fail(job, err)
		return
	}

	job.Status = StatusPackaging
	artifact, err := pack.Package(ctx, binPath, spec, p.opts.Dist)
	if err != nil {
		p.fail(job, err)
		return
	}
	if err := p.st.Put(artifact); err != nil {
		p.fail(job, err)
		return
	}

	job.Status = StatusSucceeded
	job.Artifact = &artifact
	slog.Info("job succeeded", "target", spec.Name, "asset", artifact.AssetName)
}

// Marks a job failed with its cause.
func (p *Pipeline) fail(job *Job, err error) {
	job.Status = StatusFailed
	job.Err = err
}

// Returns the environment identifier for a target's job.
func envID(spec registry.TargetSpec) string {
	return "relforge-" + spec.Name
}
