// Package pack turns raw binaries into release artifacts.
//
// Packaging is the last per-job step: rename to the asset name, apply the
// executable-bit and suffix policy of the target's platform class, and
// compress into the platform-conventional archive (gzip for POSIX
// classes, zip for Windows). Each artifact records the archive's content
// digest so consumers can verify downloads.
package pack
