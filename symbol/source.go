package symbol

// State tags the outcome of resolving a TypeRef in the current round.
type State int

const (
	// Error: nothing is known about the name (an error type).
	Error State = iota
	// Placeholder: the name is reserved for a type that has not been produced yet.
	Placeholder
	// Resolved: the name refers to a known declaration.
	Resolved
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Placeholder:
		return "placeholder"
	default:
		return "error"
	}
}

// Resolution is the result of Source.Resolve.
// Decl is set only when State is Resolved.
type Resolution struct {
	Ref   TypeRef
	State State
	Decl  *Declaration
}

// Resolvable reports whether the reference and all of its type arguments resolved.
func (r Resolution) Resolvable() bool { return r.State == Resolved && r.Decl != nil }

// Source is the read-only view a processor has over the host's symbols.
type Source interface {
	// Annotated returns every declaration carrying an annotation of the given
	// qualified type, ordered by qualified name.
	Annotated(marker string) []*Declaration

	// Resolve looks up a type reference. Type arguments must resolve too.
	Resolve(ref TypeRef) Resolution

	// AllFunctions returns the functions declared on d and inherited from its
	// supertypes. An override hides the inherited member with the same signature.
	AllFunctions(d *Declaration) []Function
}
