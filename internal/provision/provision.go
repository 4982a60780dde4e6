package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/runtime"
)

// Installs the native prerequisites of one platform class into a job's
// environment.
//
// The recipe's commands run in order; installers are expected to be
// idempotent, so provisioning an environment that already has its
// dependencies is safe. The first non-zero exit fails the job. There is
// no automatic retry: a flaky installer result must surface, and retrying
// is the caller's decision by re-running the pipeline.
func Run(ctx context.Context, env runtime.Environment, class registry.Class, recipe []string) error {
	if len(recipe) == 0 {
		slog.Debug("provisioning skipped, empty recipe", "class", class)
		return nil
	}

	slog.Info("provisioning dependencies", "class", class, "commands", len(recipe))

	for i, command := range recipe {
		slog.Debug("provision command", "class", class, "command", command)

		result, err := env.Exec(ctx, command, nil, "")
		if err != nil {
			return fmt.Errorf("%w: class %s: %w", ErrProvision, class, err)
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("%w: class %s: command %d of %d exited %d: %s",
				ErrProvision, class, i+1, len(recipe), result.ExitCode, tail(result.Stderr))
		}
	}

	return nil
}

// Bounds installer stderr for error reports.
func tail(s string) string {
	const max = 1024
	if len(s) > max {
		return "..." + s[len(s)-max:]
	}
	return s
}
