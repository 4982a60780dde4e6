// Package build invokes the compiler toolchain for a single target.
//
// The toolchain command is a template from configuration; this package
// substitutes the triple, injects the platform class's environment
// overrides, runs the command inside the job's environment, and pulls the
// produced binary to the host for packaging. Everything about the
// compiler itself (flags, output layout) is external configuration; the
// contract here is one triple in, one raw binary out, with a typed error
// carrying exit code and a bounded stderr tail on failure.
package build
