package registry

import "fmt"

// Platform class of a build target.
//
// The class selects the provisioning recipe, build environment overrides,
// and archive convention. It is independent of the CPU architecture: both
// linux targets share ClassLinux.
type Class string

const (
	ClassLinux   Class = "linux"
	ClassMacOS   Class = "macos"
	ClassWindows Class = "windows"
)

// Reports whether the class is one of the known values.
func (c Class) Valid() bool {
	switch c {
	case ClassLinux, ClassMacOS, ClassWindows:
		return true
	}
	return false
}

// Reports whether the class follows POSIX executable semantics.
//
// POSIX classes set the executable bit during packaging and compress with
// gzip; the Windows class does neither.
func (c Class) POSIX() bool {
	return c == ClassLinux || c == ClassMacOS
}

// Implements encoding.TextUnmarshaler so classes decode from TOML.
func (c *Class) UnmarshalText(text []byte) error {
	parsed := Class(text)
	if !parsed.Valid() {
		return fmt.Errorf("unknown platform class %q", string(text))
	}
	*c = parsed
	return nil
}

// Implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c), nil
}
