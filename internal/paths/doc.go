// Package paths resolves the tool's well-known directories via the XDG
// base directory specification.
package paths
