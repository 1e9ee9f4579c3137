// Command afgen generates assisted-injection factories and their binding
// modules from a symbol manifest.
//
// For every class annotated with @ContributesAssistedFactory(boundType, scope)
// whose single primary constructor is @AssistedInject, afgen writes:
//
//   - <Class>_AssistedFactory: an interface (or abstract class, when the bound
//     type is an abstract class) extending the bound type, annotated
//     @AssistedFactory, with one abstract factory method whose parameters are
//     matched to the constructor's @Assisted parameters by type and key
//   - <Class>_AssistedFactory_Module: an @Module interface installed in the
//     scope, with one @Binds function from the factory to the bound type
//
// Usage
//
//	afgen generate --manifest symbols.yaml --out build/generated/afgen
//	afgen check    --manifest symbols.yaml
//	afgen watch    --manifest symbols.yaml --out build/generated/afgen
//
// Flags shared by every command:
//
//	-c, --config           afgen.yaml (default ./afgen.yaml when present)
//	-m, --manifest         symbol manifest
//	-o, --out              output directory
//	    --max-rounds       stop after N rounds (default 10)
//	    --failure-policy   abort-round (default) or isolate
//	    --metrics-file     Prometheus textfile written after generate
//	    --log-format       json (default) or console
//	-v, --verbose          debug logging
//
// Rounds
//
// A session runs in rounds. Before the first round, the names of every factory
// and module the session will produce are reserved, so a class whose
// constructor injects another class's generated factory is deferred rather than
// rejected. Generated types become resolvable in the next round. The session
// stops when nothing is deferred, when a round changes nothing, or after
// --max-rounds; anything still deferred is listed as unresolved.
//
// Exit status
//
// generate and check exit non-zero when any declaration fails validation. The
// diagnostics are printed to stderr as "error: <file>:<line>: <node>: <message>".
// Under abort-round the first failure stops the round; under isolate every
// failing declaration is reported and the others are still generated.
//
// Output
//
// generate writes <out>/<package path>/<Name>.kt. Files whose content did not
// change are left alone. <out>/.afgen-deps.yaml maps every output to the
// source files it was derived from.
package main
