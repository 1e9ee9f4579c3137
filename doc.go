// Package assistfactory generates assisted-injection factories at build time.
//
// A class opts in with @ContributesAssistedFactory(boundType, scope). Its single
// primary constructor must be @AssistedInject, and the bound type must be an
// abstract class or interface with exactly one abstract method. The generator
// then writes:
//
//   - a factory type extending the bound type whose method parameters are
//     matched to the constructor's @Assisted parameters by (type, key)
//   - a module installed in the scope that binds the factory to the bound type
//
// Packages:
//
//   - symbol: declarations, type references and the Source a host exposes
//   - manifest: YAML manifests loaded into a symbol.Table
//   - processor: validation, parameter matching, synthesis and rounds
//   - artifact: structural description of a generated type
//   - emit: Kotlin rendering, file output and round feedback
//   - diag, metrics, config: diagnostics, counters and afgen.yaml
//   - cmd/afgen: the command-line driver
package assistfactory
