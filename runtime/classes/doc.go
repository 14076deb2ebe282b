// Package classes models loaded types and resolves their members.
//
// A Universe owns the bootstrap Loader, the primitive types and the
// well-known base types. Every other Type is defined into a Loader and is
// unique per (loader, name). Raw member facts come from a VM; the package
// only merges them across the type graph and caches the results per
// redefinition generation.
package classes
