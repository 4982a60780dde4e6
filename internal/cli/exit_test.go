package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/relforgehq/relforge/internal/config"
	"github.com/relforgehq/relforge/internal/pipeline"
	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/release"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"config file", fmt.Errorf("%w: no such file", config.ErrConfigFile), ExitConfig},
		{"registry", fmt.Errorf("%w: no targets defined", registry.ErrConfig), ExitConfig},
		{"duplicate asset", fmt.Errorf("%w: gnd-linux-x86_64", registry.ErrDuplicateAsset), ExitConfig},
		{"bad triple", fmt.Errorf("%w: x86_64", registry.ErrInvalidTriple), ExitConfig},
		{"jobs failed", fmt.Errorf("%w: linux-aarch64", pipeline.ErrJobs), ExitJobs},
		{"release create", fmt.Errorf("%w: tag v1.0.0", release.ErrReleaseCreate), ExitReleaseCreate},
		{"missing assets", fmt.Errorf("%w: gnd-macos-x86_64", release.ErrMissingAssets), ExitReleaseAssets},
		{"upload failed", fmt.Errorf("%w: gnd-linux-x86_64.gz", release.ErrUpload), ExitReleaseAssets},
		{"unknown", errors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
