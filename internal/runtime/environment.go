package runtime

import "context"

// Default shell commands are executed through.
const defaultShell = "/bin/sh"

// Output of a command execution inside an environment.
type ExecResult struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// An isolated execution environment owned by a single build job.
//
// Provisioning mutates the environment (installed packages, search paths);
// because every job holds its own environment, that mutation never leaks
// across concurrent jobs. Environments are not safe for use by more than
// one job.
type Environment interface {

	// Runs a command through the shell. Env entries override the
	// environment's base variables for this execution only. An empty
	// workdir uses [Environment.Workdir]. A non-zero exit code is not an
	// error; the caller decides.
	Exec(ctx context.Context, command string, env []string, workdir string) (*ExecResult, error)

	// Copies a single file out of the environment to a host path. Fails
	// when the source does not exist.
	Pull(ctx context.Context, src, dest string) error

	// Directory commands run in by default. For container environments
	// this is the staged source tree; for local environments it is the
	// source directory itself.
	Workdir() string

	// Releases the environment and its resources.
	Close(ctx context.Context) error
}

// Creates isolated environments, one per build job.
type Provider interface {

	// Creates a fresh environment for the job with the given identifier.
	Environment(ctx context.Context, id string, opts EnvironmentOptions) (Environment, error)

	// Releases provider-level resources.
	Close() error
}

// Per-job environment settings.
type EnvironmentOptions struct {
	Image string // Build image reference; used by the container backend only.
}
