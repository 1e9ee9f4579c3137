// Package artifact describes generated source units structurally.
//
// An Artifact is what the processor hands to an emitter: package, name, kind,
// supertypes, annotations, visibility and member functions with typed
// parameters. It carries the source files it was derived from so an emitter can
// track incremental-build dependencies. Rendering to text is the emitter's job.
package artifact

import (
	"strings"

	"github.com/sghaida/assistfactory/symbol"
)

// Kind of the generated type.
type Kind int

const (
	KindInterface Kind = iota
	KindAbstractClass
)

func (k Kind) String() string {
	if k == KindAbstractClass {
		return "abstract class"
	}
	return "interface"
}

// Modifier on a generated function.
type Modifier string

const (
	ModifierOverride Modifier = "override"
	ModifierAbstract Modifier = "abstract"
)

// Annotation on a generated element. Args are rendered literally.
type Annotation struct {
	Type string
	Args []string
}

// Parameter of a generated function.
type Parameter struct {
	Name        string
	Type        symbol.TypeRef
	Annotations []Annotation
}

// Function is a generated member function. Generated functions are bodiless.
type Function struct {
	Name        string
	Modifiers   []Modifier
	Annotations []Annotation
	Parameters  []Parameter
	Returns     symbol.TypeRef
}

// Has reports whether the function carries the modifier.
func (f Function) Has(m Modifier) bool {
	for _, x := range f.Modifiers {
		if x == m {
			return true
		}
	}
	return false
}

// Artifact is one generated type.
type Artifact struct {
	Package    string
	Name       string
	Kind       Kind
	Visibility symbol.Visibility

	// Supertypes lists the extended class or implemented interfaces.
	// SuperclassCall is set when the first supertype is a class whose
	// constructor must be invoked.
	Supertypes     []symbol.TypeRef
	SuperclassCall bool

	Annotations []Annotation
	Functions   []Function

	// Sources are the files the artifact was derived from. Aggregating
	// artifacts must be regenerated when any input changes.
	Sources     []string
	Aggregating bool
}

// QualifiedName returns package + "." + name.
func (a Artifact) QualifiedName() string {
	if a.Package == "" {
		return a.Name
	}
	return a.Package + "." + a.Name
}

// Ref returns a reference to the generated type.
func (a Artifact) Ref() symbol.TypeRef { return symbol.Ref(a.QualifiedName()) }

// Path returns the slash-separated relative path of the unit, with ext appended.
func (a Artifact) Path(ext string) string {
	dir := strings.ReplaceAll(a.Package, ".", "/")
	if dir == "" {
		return a.Name + ext
	}
	return dir + "/" + a.Name + ext
}

// Declaration converts the artifact into a symbol declaration, so generated
// types become resolvable in later rounds.
func (a Artifact) Declaration() *symbol.Declaration {
	d := &symbol.Declaration{
		QualifiedName: a.QualifiedName(),
		Package:       a.Package,
		Visibility:    a.Visibility,
		Supertypes:    append([]symbol.TypeRef(nil), a.Supertypes...),
	}
	if a.Kind == KindInterface {
		d.Kind = symbol.KindInterface
	} else {
		d.Kind = symbol.KindClass
		d.Abstract = true
	}
	if len(a.Sources) > 0 {
		d.File = a.Sources[0]
	}
	for _, an := range a.Annotations {
		d.Annotations = append(d.Annotations, symbol.Annotation{Type: an.Type})
	}
	for _, f := range a.Functions {
		fn := symbol.Function{
			Name:     f.Name,
			Abstract: f.Has(ModifierAbstract) || a.Kind == KindInterface,
			Returns:  f.Returns,
		}
		for _, p := range f.Parameters {
			sp := symbol.Parameter{Name: p.Name, Type: p.Type}
			for _, an := range p.Annotations {
				sp.Annotations = append(sp.Annotations, symbol.Annotation{Type: an.Type})
			}
			fn.Parameters = append(fn.Parameters, sp)
		}
		d.Functions = append(d.Functions, fn)
	}
	return d
}
