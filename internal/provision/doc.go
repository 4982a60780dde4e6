// Package provision installs native build prerequisites into job
// environments.
//
// A recipe is an ordered list of installer commands selected by platform
// class, not by target triple: both linux targets share one recipe, which
// also installs the cross-toolchain components the aarch64 build needs.
// Failures are terminal for the owning job only.
package provision
