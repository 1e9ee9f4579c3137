package symbol

import (
	"strconv"
	"strings"
)

// Kind is the declaration kind of a type.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindObject
	KindEnumClass
	KindAnnotationClass
	KindTypeAlias
	KindTypeParameter
)

var kindNames = map[Kind]string{
	KindClass:           "class",
	KindInterface:       "interface",
	KindObject:          "object",
	KindEnumClass:       "enum",
	KindAnnotationClass: "annotation",
	KindTypeAlias:       "typealias",
	KindTypeParameter:   "typeparameter",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// IsClassLike reports whether the kind is a class or interface declaration
// (objects, enums and annotation classes included; aliases and type parameters not).
func (k Kind) IsClassLike() bool {
	return k >= KindClass && k <= KindAnnotationClass
}

// Visibility of a declaration. The zero value means no modifier was given.
type Visibility int

const (
	VisibilityUnspecified Visibility = iota
	VisibilityPublic
	VisibilityInternal
	VisibilityProtected
	VisibilityPrivate
)

var visibilityNames = map[Visibility]string{
	VisibilityUnspecified: "",
	VisibilityPublic:      "public",
	VisibilityInternal:    "internal",
	VisibilityProtected:   "protected",
	VisibilityPrivate:     "private",
}

func (v Visibility) String() string { return visibilityNames[v] }

// ParseVisibility is the inverse of Visibility.String.
func ParseVisibility(s string) (Visibility, bool) {
	for v, name := range visibilityNames {
		if name == s {
			return v, true
		}
	}
	return 0, false
}

// OrPublic maps an unspecified visibility to public.
func (v Visibility) OrPublic() Visibility {
	if v == VisibilityUnspecified {
		return VisibilityPublic
	}
	return v
}

// Pos is where a symbol was described.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	if p.File == "" {
		return ""
	}
	if p.Line <= 0 {
		return p.File
	}
	return p.File + ":" + strconv.Itoa(p.Line)
}

// Node anchors a diagnostic: a position plus a readable path to the symbol,
// e.g. "com.example.Impl.<init>(name)".
type Node struct {
	Pos  Pos
	Path string
}

func (n Node) String() string {
	if p := n.Pos.String(); p != "" {
		return p + ": " + n.Path
	}
	return n.Path
}

// Annotation is an annotation use site. String arguments and class-literal
// arguments are kept apart; an absent key means the argument was not written.
type Annotation struct {
	Type    string
	Strings map[string]string
	Types   map[string]TypeRef
	Pos     Pos
}

// StringArg returns a non-blank string argument.
func (a Annotation) StringArg(name string) (string, bool) {
	v, ok := a.Strings[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// TypeArg returns a class-literal argument.
func (a Annotation) TypeArg(name string) (TypeRef, bool) {
	v, ok := a.Types[name]
	if !ok || v.IsZero() {
		return TypeRef{}, false
	}
	return v, true
}

// Annotations is a list of annotation use sites.
type Annotations []Annotation

// Find returns the first annotation of the given qualified type.
func (as Annotations) Find(typ string) (Annotation, bool) {
	for _, a := range as {
		if a.Type == typ {
			return a, true
		}
	}
	return Annotation{}, false
}

// Has reports whether an annotation of the given type is present.
func (as Annotations) Has(typ string) bool {
	_, ok := as.Find(typ)
	return ok
}

// Parameter of a constructor or function.
type Parameter struct {
	Name        string
	Type        TypeRef
	Annotations Annotations
	Pos         Pos
}

// Constructor of a class.
type Constructor struct {
	Primary     bool
	Annotations Annotations
	Parameters  []Parameter
	Pos         Pos
}

// Function is a member function.
type Function struct {
	Name        string
	Abstract    bool
	Parameters  []Parameter
	Returns     TypeRef
	Annotations Annotations
	Pos         Pos
}

// Signature identifies a function for override purposes: name and parameter types.
func (f Function) Signature() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, p := range f.Parameters {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Declaration is a type declaration.
type Declaration struct {
	// QualifiedName is the unique identity, e.g. "com.example.Component.Factory".
	QualifiedName string
	Package       string
	// File is the source file that declares the type. Generated outputs depend on it.
	File string

	Kind       Kind
	Visibility Visibility
	// Abstract is the explicit modifier; interfaces are abstract regardless.
	Abstract bool

	Annotations  Annotations
	Supertypes   []TypeRef
	Constructors []Constructor
	Functions    []Function

	Pos Pos
}

// Name returns the simple name (last segment of the qualified name).
func (d *Declaration) Name() string { return d.Ref().SimpleName() }

// Ref returns a reference to the declared type.
func (d *Declaration) Ref() TypeRef { return TypeRef{Name: d.QualifiedName} }

// IsAbstract reports whether instances cannot be created directly.
func (d *Declaration) IsAbstract() bool {
	return d.Kind == KindInterface || d.Abstract
}

// PrimaryConstructor returns the constructor flagged primary, if any.
func (d *Declaration) PrimaryConstructor() (*Constructor, bool) {
	for i := range d.Constructors {
		if d.Constructors[i].Primary {
			return &d.Constructors[i], true
		}
	}
	return nil, false
}

// Node anchors diagnostics at the declaration.
func (d *Declaration) Node() Node {
	return Node{Pos: d.Pos, Path: d.QualifiedName}
}

// ConstructorNode anchors diagnostics at a constructor of d.
func (d *Declaration) ConstructorNode(c *Constructor) Node {
	return Node{Pos: c.Pos, Path: d.QualifiedName + ".<init>"}
}

// FunctionNode anchors diagnostics at a function of d.
func (d *Declaration) FunctionNode(f Function) Node {
	return Node{Pos: f.Pos, Path: d.QualifiedName + "." + f.Name}
}

// ParameterNode anchors diagnostics at a parameter of a member of d.
// member is a function name, or empty for the constructor.
func (d *Declaration) ParameterNode(member string, p Parameter) Node {
	if member == "" {
		member = "<init>"
	}
	return Node{Pos: p.Pos, Path: d.QualifiedName + "." + member + "(" + p.Name + ")"}
}

// AnnotationNode anchors diagnostics at an annotation on d.
func (d *Declaration) AnnotationNode(a Annotation) Node {
	return Node{Pos: a.Pos, Path: "@" + a.Type + " on " + d.QualifiedName}
}
