// Package processor decides whether an annotated declaration may get a generated
// assisted factory, and what that factory and its binding module look like.
//
// A declaration marked with the contributes marker names a bound type: an
// abstract type with a single abstract factory method. If the declaration's only
// constructor is assisted-injectable and its assisted parameters correspond one to
// one with the factory method's parameters (by type and optional key), two
// artifacts are synthesized:
//
//   - <Name>_AssistedFactory: implements/extends the bound type, overrides the
//     factory method, returns the annotated type
//   - <Name>_AssistedFactory_Module: a DI module installed in the scope that
//     binds the generated factory as the bound type
//
// The pieces, leaves first:
//
//   - MatchParameters: the keyed bijection between the two parameter lists
//   - Validator: the ordered structural checks; yields a Plan or a *ValidationError
//   - Synthesize: Plan -> (factory, module) artifacts, no validation, no side effects
//   - Processor.ProcessRound: one round of deferral triage, dedup, validation,
//     synthesis and emission
//   - Processor.Run: the round loop for a whole session
//
// Deduplication state lives in a ProcessedSet that the caller owns and passes in,
// one per build session.
package processor
