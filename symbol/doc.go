// Package symbol is a read-only model of the declarations a generator reasons about.
//
// It mirrors what a host compiler exposes to a build-time processor:
//
//   - declarations (classes, interfaces, objects, ...) with their constructors,
//     functions, supertypes and annotations
//   - type references, which may or may not resolve in the current round
//   - a Source that answers resolution and inherited-member queries
//
// Resolution is an explicit tagged state (Resolved, Placeholder, Error) rather
// than a failure: a reference that does not resolve yet is a normal outcome while
// the host is still converging, and callers branch on it.
//
// Table is an in-memory Source. It is what the afgen CLI builds from a manifest,
// and what tests use to describe small symbol graphs.
package symbol
