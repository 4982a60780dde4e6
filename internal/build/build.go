package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/relforgehq/relforge/internal/paths"
	"github.com/relforgehq/relforge/internal/platform"
	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/runtime"
)

// Maximum bytes of toolchain stderr carried in a build error.
const stderrTailSize = 4096

// Controls a single toolchain invocation.
type Options struct {
	Command   string             // Build command template; "{triple}" is replaced with the target triple.
	Output    string             // Directory template the toolchain writes the binary to, relative to the source tree.
	Binary    string             // Base name of the produced binary.
	Overrides platform.Overrides // Environment overrides for the target's platform class.
	Stage     string             // Host directory the raw binary is pulled into.
}

// Invokes the compiler toolchain for one target triple.
//
// The command runs inside the job's environment with the platform
// overrides rendered as environment entries. On success the produced
// binary is pulled to the host staging directory and its path returned.
// A non-zero toolchain exit, or a zero exit that produced no binary at
// the expected location, is a build failure; it is reported and never
// retried, since a flaky compiler result must not produce a
// silently-stale binary. Cross-compilation targets rely on the
// provisioner having installed the target's runtime libraries; this step
// does not provision.
func Run(ctx context.Context, env runtime.Environment, spec registry.TargetSpec, opts Options) (string, error) {
	policy, err := platform.For(spec.Class)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuild, err)
	}

	command := renderTriple(opts.Command, spec.Triple)

	slog.Info("building target",
		"target", spec.Name,
		"triple", spec.Triple,
		"cross", spec.CrossCompile,
	)
	slog.Debug("toolchain invocation", "command", command, "overrides", opts.Overrides.Environ())

	result, err := env.Exec(ctx, command, opts.Overrides.Environ(), "")
	if err != nil {
		return "", fmt.Errorf("%w: triple %s: %w", ErrBuild, spec.Triple, err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%w: triple %s: toolchain exited %d: %s",
			ErrBuild, spec.Triple, result.ExitCode, stderrTail(result.Stderr))
	}

	produced := path.Join(
		env.Workdir(),
		renderTriple(opts.Output, spec.Triple),
		opts.Binary+policy.ExecutableSuffix(),
	)

	if err := os.MkdirAll(opts.Stage, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: triple %s: %w", ErrBuild, spec.Triple, err)
	}

	staged := filepath.Join(opts.Stage, opts.Binary+policy.ExecutableSuffix())
	if err := env.Pull(ctx, produced, staged); err != nil {
		return "", fmt.Errorf("%w: triple %s: toolchain exited 0 but produced no binary at %s: %w",
			ErrBuild, spec.Triple, produced, err)
	}

	slog.Debug("binary staged", "target", spec.Name, "path", staged)

	return staged, nil
}

// Substitutes the target triple into a template.
func renderTriple(template, triple string) string {
	return strings.ReplaceAll(template, "{triple}", triple)
}

// Returns the last [stderrTailSize] bytes of toolchain stderr.
func stderrTail(s string) string {
	if len(s) > stderrTailSize {
		return "..." + s[len(s)-stderrTailSize:]
	}
	return s
}
