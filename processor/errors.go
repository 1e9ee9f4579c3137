package processor

import (
	"errors"
	"strconv"

	"github.com/sghaida/assistfactory/symbol"
)

// ErrRoundAborted is returned by Run when a round stopped on a validation failure.
var ErrRoundAborted = errors.New("processor: round aborted by validation failure")

// Kind tags a structural validation failure.
type Kind int

const (
	MissingBoundType Kind = iota + 1
	BoundTypeNotClassOrInterface
	MissingScope
	ScopeNotClassOrInterface
	MissingOrMultiplePrimaryConstructor
	ConstructorNotAssistedInjectable
	BoundTypeNotAbstract
	BoundTypeAbstractMethodCountInvalid
	ParameterMustUseLibraryKeyAnnotation
	ParameterCountMismatch
	ParameterKeyMismatch
	DuplicateParameterKey
)

var kindNames = [...]string{
	MissingBoundType:                     "MissingBoundType",
	BoundTypeNotClassOrInterface:         "BoundTypeNotClassOrInterface",
	MissingScope:                         "MissingScope",
	ScopeNotClassOrInterface:             "ScopeNotClassOrInterface",
	MissingOrMultiplePrimaryConstructor:  "MissingOrMultiplePrimaryConstructor",
	ConstructorNotAssistedInjectable:     "ConstructorNotAssistedInjectable",
	BoundTypeNotAbstract:                 "BoundTypeNotAbstract",
	BoundTypeAbstractMethodCountInvalid:  "BoundTypeAbstractMethodCountInvalid",
	ParameterMustUseLibraryKeyAnnotation: "ParameterMustUseLibraryKeyAnnotation",
	ParameterCountMismatch:               "ParameterCountMismatch",
	ParameterKeyMismatch:                 "ParameterKeyMismatch",
	DuplicateParameterKey:                "DuplicateParameterKey",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ValidationError is a structural failure anchored at the offending node.
type ValidationError struct {
	Kind    Kind
	Node    symbol.Node
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Is matches another *ValidationError of the same Kind, so a bare
// &ValidationError{Kind: k} works as a target for errors.Is.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// AsValidationError unwraps err to a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func fail(kind Kind, node symbol.Node, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Node: node, Message: msg}
}

// -------------------------
// messages
// -------------------------

const markerName = "@ContributesAssistedFactory"

func msgMissingBoundType(class string) string {
	return "The " + markerName + " annotation on class '" + class + "' must have a 'boundType' argument"
}

func msgBoundTypeNotClassOrInterface(bound string) string {
	return "Bound type '" + bound + "' must be a class or interface"
}

func msgMissingScope(class string) string {
	return "The " + markerName + " annotation on class '" + class + "' must have a 'scope' argument"
}

func msgScopeNotClassOrInterface(scope string) string {
	return "Scope '" + scope + "' must be a class or interface"
}

func msgSinglePrimaryConstructor(class string) string {
	return "Class '" + class + "' annotated with " + markerName + " must have a single primary constructor"
}

func msgConstructorNotAssistedInjectable(class string) string {
	return "Class '" + class + "' annotated with " + markerName + " must have its primary constructor annotated with @AssistedInject"
}

func msgBoundTypeNotAbstract(bound, class string) string {
	return "The bound type '" + bound + "' for " + markerName + " on class '" + class + "' must be an abstract class or interface"
}

func msgAbstractMethodCount(bound string, n int) string {
	return "The bound type '" + bound + "' for " + markerName + " must have a single abstract method, found " + strconv.Itoa(n)
}

func msgMustUseLibraryKey(param, bound, method string) string {
	return "The parameter '" + param + "' in the factory method '" + bound + "." + method +
		"' must be annotated with @AssistedKey instead of @Assisted to avoid conflicts with the framework's own @AssistedFactory processing"
}

func msgParameterCount(bound, method, class string, want, got int) string {
	return "The factory method parameters in '" + bound + "." + method + "' must match the @Assisted parameters in the primary constructor of '" +
		class + "' (constructor has " + strconv.Itoa(want) + ", factory method has " + strconv.Itoa(got) + ")"
}

func msgParameterKey(param, class string, key ParameterKey) string {
	return "The factory method parameter '" + param + "' (" + key.String() + ") does not match any @Assisted parameter in the primary constructor of '" + class + "'"
}

func msgDuplicateConstructorKey(param, other, class string, key ParameterKey) string {
	return "The @Assisted parameters '" + other + "' and '" + param + "' in the primary constructor of '" + class +
		"' share the key " + key.String() + "; give them distinct keys"
}

func msgDuplicateFactoryKey(param, other, bound, method string, key ParameterKey) string {
	return "The factory method parameters '" + other + "' and '" + param + "' in '" + bound + "." + method +
		"' share the key " + key.String() + "; give them distinct keys"
}
