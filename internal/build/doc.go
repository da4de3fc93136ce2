// Package build runs one compilation of a device document.
//
// Compile creates a fresh codegen.Session, runs the feature generators
// against it and streams the root template through the resolver. The result
// holds the generated files in memory; writing them is up to the caller.
package build
