package platform

import (
	"fmt"

	"github.com/relforgehq/relforge/internal/registry"
)

// Archive convention of a platform class.
type Format string

const (
	FormatGzip Format = "gzip"
	FormatZip  Format = "zip"
)

// Returns the MIME content type artifacts of this format are uploaded with.
func (f Format) ContentType() string {
	switch f {
	case FormatZip:
		return "application/zip"
	default:
		return "application/gzip"
	}
}

// Returns the file extension of the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatZip:
		return ".zip"
	default:
		return ".gz"
	}
}

// Build environment overrides injected by the Build Executor.
//
// Only Windows-class targets carry non-zero overrides; other classes pass
// the zero value through untouched.
type Overrides struct {
	LibraryPath string // Additional linker search directory.
	DynamicLink bool   // Whether to force dynamic linking of native libraries.
}

// Renders the overrides as environment entries for the toolchain.
func (o Overrides) Environ() []string {
	var env []string
	if o.LibraryPath != "" {
		env = append(env, "LIBRARY_PATH="+o.LibraryPath)
	}
	if o.DynamicLink {
		env = append(env, "DYNAMIC_LINK=1")
	}
	return env
}

// Per-class behavior of the pipeline.
//
// Every platform class implements the same capability set: a default
// provisioning recipe, build environment overrides, and packaging policy.
// Dispatch happens once via [For]; the rest of the pipeline is free of
// per-class branching.
type Policy interface {

	// The class this policy implements.
	Class() registry.Class

	// Default provisioning recipe: ordered installer commands expected to
	// be idempotent. A config override replaces the whole recipe.
	DefaultRecipe() []string

	// Build environment overrides for this class. The library path comes
	// from configuration; classes that need no overrides ignore it.
	BuildOverrides(libraryPath string, dynamicLink bool) Overrides

	// Archive convention for packaged binaries.
	Archive() Format

	// Executable file suffix, including the dot, or empty.
	ExecutableSuffix() string

	// Whether packaging sets the executable bit on the binary.
	ExecutableBit() bool
}

// Returns the policy for a platform class.
func For(class registry.Class) (Policy, error) {
	switch class {
	case registry.ClassLinux:
		return linuxPolicy{}, nil
	case registry.ClassMacOS:
		return macosPolicy{}, nil
	case registry.ClassWindows:
		return windowsPolicy{}, nil
	default:
		return nil, fmt.Errorf("no policy for platform class %q", class)
	}
}
