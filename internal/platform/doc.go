// Package platform dispatches per-class pipeline behavior.
//
// Each platform class (linux, macos, windows) implements the same
// capability set: a default provisioning recipe, build environment
// overrides, and packaging policy (archive format, executable suffix,
// executable bit). Callers resolve a [Policy] once with [For] and never
// branch on the class again.
package platform
