// Package release publishes packaged artifacts as assets of one release.
//
// The publisher runs only for tag refs and only after the fan-in point
// has observed every job's terminal status. Its one correctness duty is
// refusing partial releases: if any registry asset is missing it stops
// before creating anything, and if any upload fails the run ends
// PartiallyFailed with every failure reported, never Completed.
//
// The [Client] interface is the boundary to the release service; the
// [HTTPClient] speaks a GitHub-style REST shape but nothing above the
// boundary depends on that.
package release
