// Package config loads the pipeline's TOML configuration.
//
// The file is optional: [Default] alone describes a working pipeline for
// the reference deployment, and [Load] decodes a file on top of it so a
// config only states what it changes. Unknown keys are rejected.
//
// Example file:
//
//	binary = "gnd"
//	source = "."
//
//	[toolchain]
//	command = "cargo build --release --bin gnd --target {triple}"
//
//	[release]
//	repo = "graphprotocol/graph-node"
//
//	[provision]
//	linux = ["apt-get install -y protobuf-compiler libpq-dev"]
//
//	[[target]]
//	name = "linux-x86_64"
//	class = "linux"
//	triple = "x86_64-unknown-linux-gnu"
//	asset_name = "gnd-linux-x86_64"
package config
