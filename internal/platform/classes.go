package platform

import "github.com/relforgehq/relforge/internal/registry"

// Linux-class policy: native and cross GNU targets, gzip archives.
type linuxPolicy struct{}

func (linuxPolicy) Class() registry.Class { return registry.ClassLinux }

// Installs the protocol-buffer compiler, the database client library, and
// the cross-toolchain components aarch64 builds link against.
func (linuxPolicy) DefaultRecipe() []string {
	return []string{
		"apt-get update",
		"apt-get install -y protobuf-compiler libpq-dev",
		"apt-get install -y gcc-aarch64-linux-gnu libc6-dev-arm64-cross",
	}
}

func (linuxPolicy) BuildOverrides(string, bool) Overrides { return Overrides{} }

func (linuxPolicy) Archive() Format { return FormatGzip }

func (linuxPolicy) ExecutableSuffix() string { return "" }

func (linuxPolicy) ExecutableBit() bool { return true }

// macOS-class policy: darwin targets, gzip archives.
type macosPolicy struct{}

func (macosPolicy) Class() registry.Class { return registry.ClassMacOS }

func (macosPolicy) DefaultRecipe() []string {
	return []string{
		"brew install protobuf postgresql@14",
	}
}

func (macosPolicy) BuildOverrides(string, bool) Overrides { return Overrides{} }

func (macosPolicy) Archive() Format { return FormatGzip }

func (macosPolicy) ExecutableSuffix() string { return "" }

func (macosPolicy) ExecutableBit() bool { return true }

// Windows-class policy: MSVC targets, zip archives, no executable bit.
//
// Windows is the only class that injects build overrides: the linker needs
// an explicit search path for the database client library and the build
// must link it dynamically.
type windowsPolicy struct{}

func (windowsPolicy) Class() registry.Class { return registry.ClassWindows }

func (windowsPolicy) DefaultRecipe() []string {
	return []string{
		"choco install -y protoc",
		"vcpkg install libpq:x64-windows",
	}
}

func (windowsPolicy) BuildOverrides(libraryPath string, dynamicLink bool) Overrides {
	return Overrides{LibraryPath: libraryPath, DynamicLink: dynamicLink}
}

func (windowsPolicy) Archive() Format { return FormatZip }

func (windowsPolicy) ExecutableSuffix() string { return ".exe" }

func (windowsPolicy) ExecutableBit() bool { return false }
