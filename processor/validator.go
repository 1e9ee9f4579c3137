package processor

import (
	"github.com/sghaida/assistfactory/symbol"
)

// Plan is the validated input to synthesis. Treat it as immutable.
type Plan struct {
	Declaration   *symbol.Declaration
	BoundType     *symbol.Declaration
	Scope         *symbol.Declaration
	FactoryMethod symbol.Function
	// Parameters follow the factory method's order.
	Parameters []MatchedParameter
}

// Validator runs the structural checks for one annotated declaration.
type Validator struct {
	source  symbol.Source
	markers Markers
}

// NewValidator returns a validator reading symbols from source.
func NewValidator(source symbol.Source, markers Markers) *Validator {
	return &Validator{source: source, markers: markers.withDefaults()}
}

// Validate checks decl, annotated with ann, and returns a Plan or a
// *ValidationError. Checks run in a fixed order and stop at the first failure:
//
//  1. bound type present and a class or interface
//  2. scope present (or defaulted) and a class or interface
//  3. exactly one constructor, and it is primary
//  4. that constructor is assisted-injectable
//  5. bound type is abstract
//  6. bound type has exactly one abstract function, inherited ones included
//  7. no factory parameter uses the host assisted marker without the library key
//  8. parameter cardinality and keyed matching
func (v *Validator) Validate(ann symbol.Annotation, decl *symbol.Declaration) (*Plan, error) {
	class := decl.Name()
	annNode := decl.AnnotationNode(ann)

	// 1
	boundRef, ok := ann.TypeArg(ArgBoundType)
	if !ok {
		return nil, fail(MissingBoundType, annNode, msgMissingBoundType(class))
	}
	boundRes := v.source.Resolve(boundRef)
	if !boundRes.Resolvable() {
		return nil, fail(MissingBoundType, annNode, msgMissingBoundType(class))
	}
	bound := boundRes.Decl
	if !bound.Kind.IsClassLike() {
		return nil, fail(BoundTypeNotClassOrInterface, annNode, msgBoundTypeNotClassOrInterface(bound.Name()))
	}

	// 2
	scopeRef, ok := ann.TypeArg(ArgScope)
	if !ok {
		scopeRef = symbol.Ref(v.markers.DefaultScope)
	}
	scopeRes := v.source.Resolve(scopeRef)
	if !scopeRes.Resolvable() {
		return nil, fail(MissingScope, annNode, msgMissingScope(class))
	}
	scope := scopeRes.Decl
	if !scope.Kind.IsClassLike() {
		return nil, fail(ScopeNotClassOrInterface, annNode, msgScopeNotClassOrInterface(scope.Name()))
	}

	// 3
	if len(decl.Constructors) != 1 || !decl.Constructors[0].Primary {
		return nil, fail(MissingOrMultiplePrimaryConstructor, decl.Node(), msgSinglePrimaryConstructor(class))
	}
	ctor := &decl.Constructors[0]

	// 4
	if !ctor.Annotations.Has(v.markers.AssistedInject) {
		return nil, fail(ConstructorNotAssistedInjectable, decl.ConstructorNode(ctor), msgConstructorNotAssistedInjectable(class))
	}

	// 5
	if !bound.IsAbstract() {
		return nil, fail(BoundTypeNotAbstract, annNode, msgBoundTypeNotAbstract(bound.Name(), class))
	}

	// 6
	var abstract []symbol.Function
	for _, f := range v.source.AllFunctions(bound) {
		if f.Abstract {
			abstract = append(abstract, f)
		}
	}
	if len(abstract) != 1 {
		return nil, fail(BoundTypeAbstractMethodCountInvalid, bound.Node(), msgAbstractMethodCount(bound.Name(), len(abstract)))
	}
	method := abstract[0]

	// 7
	factoryParams := describeParameters(bound, method.Name, method.Parameters, v.markers)
	for _, p := range factoryParams {
		if p.NativeAssisted && !p.HasLibraryKey {
			return nil, fail(ParameterMustUseLibraryKeyAnnotation, p.Node, msgMustUseLibraryKey(p.Name, bound.Name(), method.Name))
		}
	}

	// 8
	var assisted []ParameterDescriptor
	for _, p := range describeParameters(decl, "", ctor.Parameters, v.markers) {
		if p.NativeAssisted {
			assisted = append(assisted, p)
		}
	}
	matched, merr := MatchParameters(assisted, factoryParams)
	if merr != nil {
		return nil, v.matchFailure(merr, decl, bound, method)
	}

	return &Plan{
		Declaration:   decl,
		BoundType:     bound,
		Scope:         scope,
		FactoryMethod: method,
		Parameters:    matched,
	}, nil
}

func (v *Validator) matchFailure(e *MatchError, decl, bound *symbol.Declaration, method symbol.Function) *ValidationError {
	class := decl.Name()
	switch e.Kind {
	case ParameterCountMismatch:
		return fail(ParameterCountMismatch, bound.FunctionNode(method),
			msgParameterCount(bound.Name(), method.Name, class, e.Want, e.Got))
	case DuplicateParameterKey:
		if e.OnConstructor {
			return fail(DuplicateParameterKey, e.Param.Node, msgDuplicateConstructorKey(e.Param.Name, e.Other.Name, class, e.Key))
		}
		return fail(DuplicateParameterKey, e.Param.Node, msgDuplicateFactoryKey(e.Param.Name, e.Other.Name, bound.Name(), method.Name, e.Key))
	default:
		return fail(ParameterKeyMismatch, e.Param.Node, msgParameterKey(e.Param.Name, class, e.Key))
	}
}
