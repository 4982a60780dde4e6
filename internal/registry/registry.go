package registry

import (
	"fmt"
	"strings"
)

// A single logical build target.
//
// Specs are immutable once the registry is constructed. AssetName is the
// file name the packaged binary is published under and must be unique
// across the registry.
type TargetSpec struct {
	Name         string // Logical target identifier (e.g., "linux-x86_64").
	Class        Class  // Platform class selecting provisioning and packaging policy.
	Triple       string // Compiler target triple (e.g., "x86_64-unknown-linux-gnu").
	AssetName    string // Published asset name, unique across the registry.
	CrossCompile bool   // Whether the target differs from the build host architecture.
}

// An ordered, validated set of build targets.
type Registry struct {
	specs []TargetSpec
}

// Creates a registry from the given specs.
//
// Validation is eager: duplicate asset names, unknown platform classes,
// and malformed triples are configuration errors reported before any job
// starts.
func New(specs []TargetSpec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no targets defined", ErrConfig)
	}

	seen := make(map[string]string, len(specs))
	for _, spec := range specs {
		if err := validate(spec); err != nil {
			return nil, err
		}
		if prev, ok := seen[spec.AssetName]; ok {
			return nil, fmt.Errorf("%w: asset name %q used by both %q and %q",
				ErrDuplicateAsset, spec.AssetName, prev, spec.Name)
		}
		seen[spec.AssetName] = spec.Name
	}

	return &Registry{specs: append([]TargetSpec(nil), specs...)}, nil
}

// Returns the registry with the built-in default target table.
//
// The table mirrors the five targets of the reference deployment. The
// binary name is the base for every asset; Windows asset names carry the
// executable suffix so the published archive is named after the file it
// contains.
func Default(binary string) *Registry {
	reg, err := New(DefaultTargets(binary))
	if err != nil {
		// The built-in table is statically valid; reaching this is a bug.
		panic(err)
	}
	return reg
}

// Returns the built-in default target table for the given binary name.
func DefaultTargets(binary string) []TargetSpec {
	return []TargetSpec{
		{
			Name:      "linux-x86_64",
			Class:     ClassLinux,
			Triple:    "x86_64-unknown-linux-gnu",
			AssetName: binary + "-linux-x86_64",
		},
		{
			Name:         "linux-aarch64",
			Class:        ClassLinux,
			Triple:       "aarch64-unknown-linux-gnu",
			AssetName:    binary + "-linux-aarch64",
			CrossCompile: true,
		},
		{
			Name:      "macos-x86_64",
			Class:     ClassMacOS,
			Triple:    "x86_64-apple-darwin",
			AssetName: binary + "-macos-x86_64",
		},
		{
			Name:         "macos-aarch64",
			Class:        ClassMacOS,
			Triple:       "aarch64-apple-darwin",
			AssetName:    binary + "-macos-aarch64",
			CrossCompile: true,
		},
		{
			Name:      "windows-x86_64",
			Class:     ClassWindows,
			Triple:    "x86_64-pc-windows-msvc",
			AssetName: binary + "-windows-x86_64.exe",
		},
	}
}

// Returns the target specs in declaration order.
//
// The returned slice is a copy; callers cannot mutate the registry.
func (r *Registry) Targets() []TargetSpec {
	return append([]TargetSpec(nil), r.specs...)
}

// Returns the number of targets.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Returns the asset names of all targets in declaration order.
func (r *Registry) AssetNames() []string {
	names := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		names = append(names, spec.AssetName)
	}
	return names
}

// Checks a single spec for structural problems.
func validate(spec TargetSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("%w: target with empty name", ErrConfig)
	}
	if spec.AssetName == "" {
		return fmt.Errorf("%w: target %q has no asset name", ErrConfig, spec.Name)
	}
	if !spec.Class.Valid() {
		return fmt.Errorf("%w: target %q has unknown platform class %q", ErrConfig, spec.Name, spec.Class)
	}
	if err := validateTriple(spec.Triple); err != nil {
		return fmt.Errorf("%w: target %q: %v", ErrInvalidTriple, spec.Name, err)
	}
	return nil
}

// Checks that a triple is syntactically plausible.
//
// A triple has at least three dash-separated components (architecture,
// vendor, OS/ABI), none of them empty.
func validateTriple(triple string) error {
	if triple == "" {
		return fmt.Errorf("empty triple")
	}
	parts := strings.Split(triple, "-")
	if len(parts) < 3 {
		return fmt.Errorf("triple %q has %d components, want at least 3", triple, len(parts))
	}
	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("triple %q has an empty component", triple)
		}
	}
	return nil
}
