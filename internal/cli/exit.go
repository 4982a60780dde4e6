package cli

import (
	"errors"

	"github.com/relforgehq/relforge/internal/config"
	"github.com/relforgehq/relforge/internal/pipeline"
	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/release"
)

// Process exit codes.
//
// CI systems branch on these: a configuration error means the run never
// started, a job failure means some targets built, and the release codes
// distinguish a missing release from an incomplete one.
const (
	ExitOK            = 0
	ExitError         = 1
	ExitConfig        = 2
	ExitJobs          = 3
	ExitReleaseCreate = 4
	ExitReleaseAssets = 5
)

// Maps an error from a subcommand to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, config.ErrConfigFile),
		errors.Is(err, registry.ErrConfig),
		errors.Is(err, registry.ErrDuplicateAsset),
		errors.Is(err, registry.ErrInvalidTriple):
		return ExitConfig
	case errors.Is(err, pipeline.ErrJobs):
		return ExitJobs
	case errors.Is(err, release.ErrReleaseCreate):
		return ExitReleaseCreate
	case errors.Is(err, release.ErrMissingAssets),
		errors.Is(err, release.ErrUpload):
		return ExitReleaseAssets
	default:
		return ExitError
	}
}
