package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Process-backed environment provider.
//
// Jobs run as host subprocesses in the source directory. Isolation is
// process-level only: provisioning installs mutate the host toolchain, so
// this backend suits development machines and single-class runs, while CI
// deployments use the container backend. Per-target toolchain outputs stay
// disjoint because the output directory embeds the triple.
type Local struct {
	source string // Source tree builds run in.
}

// Creates a local provider rooted at the given source directory.
func NewLocal(source string) *Local {
	return &Local{source: source}
}

// Creates a process environment for one job.
func (l *Local) Environment(ctx context.Context, id string, opts EnvironmentOptions) (Environment, error) {
	if _, err := os.Stat(l.source); err != nil {
		return nil, fmt.Errorf("%w: source directory: %w", ErrRuntime, err)
	}

	slog.Debug("local environment ready", "id", id, "source", l.source)

	return &localEnvironment{source: l.source}, nil
}

// Releases provider-level resources. The local provider holds none.
func (l *Local) Close() error {
	return nil
}

// A build environment backed by host subprocesses.
type localEnvironment struct {
	source string
}

// Runs a command through the shell as a host subprocess.
//
// Env entries are overlaid on the host environment for this execution
// only. A non-zero exit code is not an error; the caller decides.
func (e *localEnvironment) Exec(ctx context.Context, command string, env []string, workdir string) (*ExecResult, error) {
	if workdir == "" {
		workdir = e.source
	}

	cmd := exec.CommandContext(ctx, defaultShell, "-c", command)
	cmd.Dir = workdir
	cmd.Env = mergeEnv(os.Environ(), env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &ExecResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// Copies a file to a host path. Fails when the source does not exist.
func (e *localEnvironment) Pull(ctx context.Context, src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return out.Close()
}

// Returns the source directory commands run in by default.
func (e *localEnvironment) Workdir() string {
	return e.source
}

// Releases the environment. Process environments hold no resources.
func (e *localEnvironment) Close(ctx context.Context) error {
	return nil
}
