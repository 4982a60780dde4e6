package pack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/relforgehq/relforge/internal/paths"
	"github.com/relforgehq/relforge/internal/platform"
	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/store"
)

// Normalizes a raw binary into a packaged release artifact.
//
// The binary is renamed to the registry's asset name (with the platform
// executable suffix applied automatically on Windows-class targets), the
// executable bit is set where the platform semantics require it (POSIX
// classes only), and the result is compressed into the platform's
// conventional archive: single-file gzip for POSIX classes, a zip archive
// for Windows. The asymmetry is deliberate; consuming tooling on each
// platform expects its native convention. The finished archive lands in
// distDir and its content digest is recorded on the artifact.
func Package(ctx context.Context, binPath string, spec registry.TargetSpec, distDir string) (store.Artifact, error) {
	policy, err := platform.For(spec.Class)
	if err != nil {
		return store.Artifact{}, fmt.Errorf("%w: %s: %w", ErrPackage, spec.AssetName, err)
	}

	if err := ctx.Err(); err != nil {
		return store.Artifact{}, fmt.Errorf("%w: %s: %w", ErrPackage, spec.AssetName, err)
	}

	inner := spec.AssetName
	if suffix := policy.ExecutableSuffix(); suffix != "" && !strings.HasSuffix(inner, suffix) {
		inner += suffix
	}

	staged, cleanup, err := stage(binPath, inner, policy.ExecutableBit())
	if err != nil {
		return store.Artifact{}, fmt.Errorf("%w: %s: %w", ErrPackage, spec.AssetName, err)
	}
	defer cleanup()

	if err := os.MkdirAll(distDir, paths.DefaultDirMode); err != nil {
		return store.Artifact{}, fmt.Errorf("%w: %s: %w", ErrPackage, spec.AssetName, err)
	}

	format := policy.Archive()
	archivePath := filepath.Join(distDir, inner+format.Extension())

	switch format {
	case platform.FormatZip:
		err = writeZip(archivePath, staged, inner)
	default:
		err = writeGzip(archivePath, staged, inner)
	}
	if err != nil {
		return store.Artifact{}, fmt.Errorf("%w: %s: %w", ErrPackage, spec.AssetName, err)
	}

	dgst, err := digestFile(archivePath)
	if err != nil {
		return store.Artifact{}, fmt.Errorf("%w: %s: %w", ErrPackage, spec.AssetName, err)
	}

	slog.Info("packaged artifact",
		"asset", spec.AssetName,
		"archive", archivePath,
		"format", string(format),
		"digest", dgst,
	)

	return store.Artifact{
		AssetName:   spec.AssetName,
		Path:        archivePath,
		ContentType: format.ContentType(),
		Digest:      dgst,
	}, nil
}

// Copies the binary under its asset name into a scratch directory and
// applies the executable-bit policy.
//
// The returned cleanup removes the scratch directory.
func stage(binPath, name string, executable bool) (string, func(), error) {
	dir, err := os.MkdirTemp("", "relforge-pack-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	staged := filepath.Join(dir, name)
	if err := copyFile(binPath, staged); err != nil {
		cleanup()
		return "", nil, err
	}

	// Windows-class binaries get no executable-bit operation at all.
	if executable {
		if err := os.Chmod(staged, paths.ExecutableMode); err != nil {
			cleanup()
			return "", nil, err
		}
	}

	return staged, cleanup, nil
}

// Copies a file with default file permissions.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Computes the canonical content digest of a file.
func digestFile(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return digest.FromReader(f)
}
