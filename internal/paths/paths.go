package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "relforge"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Permission mode for packaged POSIX executables.
	ExecutableMode os.FileMode = 0755
)

// Path to the directory packaged archives are written to.
//
//	Linux:   ~/.local/share/relforge/dist
//	macOS:   ~/Library/Application Support/relforge/dist
func Dist() string {
	return filepath.Join(xdg.DataHome, toolName, "dist")
}

// Path to the directory for per-run scratch files (staged binaries,
// pulled build outputs).
//
//	Linux:   ~/.cache/relforge/work
//	macOS:   ~/Library/Caches/relforge/work
func Work() string {
	return filepath.Join(xdg.CacheHome, toolName, "work")
}
