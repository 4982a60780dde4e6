// Package registry defines the static table of build targets.
//
// A [TargetSpec] names a logical target, its platform class, the compiler
// triple, and the asset name the packaged binary is published under. The
// table is fixed before the pipeline starts: [New] validates it eagerly
// and rejects duplicate asset names and malformed triples so that no job
// is ever dispatched against a broken configuration.
//
// [Default] returns the built-in five-target table of the reference
// deployment; the config package can replace it with a table decoded from
// the pipeline's TOML file.
package registry
