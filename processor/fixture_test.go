package processor

import (
	"errors"

	"github.com/sghaida/assistfactory/artifact"
	"github.com/sghaida/assistfactory/symbol"
)

const (
	pkg       = "com.example"
	boundName = "com.example.Component.Factory"
	implName  = "com.example.Impl"
	scopeName = "com.example.Global"
	textType  = "kotlin.String"
)

var testMarkers = DefaultMarkers()

// -------------------------
// symbol builders
// -------------------------

func ann(typ string, strs map[string]string, types map[string]string) symbol.Annotation {
	a := symbol.Annotation{Type: typ, Strings: strs}
	if len(types) > 0 {
		a.Types = map[string]symbol.TypeRef{}
		for k, v := range types {
			a.Types[k] = symbol.MustParseTypeRef(v)
		}
	}
	return a
}

func keyed(marker, key string) symbol.Annotation {
	if key == "" {
		return ann(marker, nil, nil)
	}
	return ann(marker, map[string]string{ArgValue: key}, nil)
}

// ctorParam is a constructor parameter marked with the host assisted marker.
func ctorParam(name, typ, key string) symbol.Parameter {
	return symbol.Parameter{
		Name:        name,
		Type:        symbol.MustParseTypeRef(typ),
		Annotations: symbol.Annotations{keyed(testMarkers.Assisted, key)},
	}
}

// injectedParam is a constructor parameter supplied by the container.
func injectedParam(name, typ string) symbol.Parameter {
	return symbol.Parameter{Name: name, Type: symbol.MustParseTypeRef(typ)}
}

// factoryParam is a factory-method parameter, with the library key marker when key != "".
func factoryParam(name, typ, key string) symbol.Parameter {
	p := symbol.Parameter{Name: name, Type: symbol.MustParseTypeRef(typ)}
	if key != "" {
		p.Annotations = symbol.Annotations{keyed(testMarkers.Key, key)}
	}
	return p
}

func contributes(bound, scope string) symbol.Annotation {
	types := map[string]string{}
	if bound != "" {
		types[ArgBoundType] = bound
	}
	if scope != "" {
		types[ArgScope] = scope
	}
	return ann(testMarkers.Contributes, nil, types)
}

type fixture struct {
	table *symbol.Table
	bound *symbol.Declaration
	impl  *symbol.Declaration
}

// newFixture builds the canonical valid setup: an interface bound type with
// create(text: String), an implementation whose single primary constructor is
// assisted-injectable with one assisted String, installed in Global.
func newFixture() *fixture {
	f := &fixture{table: symbol.NewTable()}

	f.table.Define(&symbol.Declaration{QualifiedName: scopeName, Kind: symbol.KindInterface})
	f.table.Define(&symbol.Declaration{QualifiedName: "com.example.Component", Kind: symbol.KindInterface})
	f.table.Define(&symbol.Declaration{QualifiedName: "com.example.Repo", Kind: symbol.KindInterface})

	f.bound = &symbol.Declaration{
		QualifiedName: boundName,
		Kind:          symbol.KindInterface,
		Functions: []symbol.Function{{
			Name:       "create",
			Abstract:   true,
			Parameters: []symbol.Parameter{factoryParam("text", textType, "")},
			Returns:    symbol.Ref("com.example.Component"),
		}},
	}
	f.table.Define(f.bound)

	f.impl = &symbol.Declaration{
		QualifiedName: implName,
		File:          "src/Impl.kt",
		Kind:          symbol.KindClass,
		Visibility:    symbol.VisibilityInternal,
		Supertypes:    []symbol.TypeRef{symbol.Ref("com.example.Component")},
		Annotations:   symbol.Annotations{contributes(boundName, scopeName)},
		Constructors: []symbol.Constructor{{
			Primary:     true,
			Annotations: symbol.Annotations{ann(testMarkers.AssistedInject, nil, nil)},
			Parameters: []symbol.Parameter{
				injectedParam("repo", "com.example.Repo"),
				ctorParam("text", textType, ""),
			},
		}},
	}
	f.table.Define(f.impl)
	return f
}

func (f *fixture) validate() (*Plan, error) {
	a, _ := f.impl.Annotations.Find(testMarkers.Contributes)
	return NewValidator(f.table, testMarkers).Validate(a, f.impl)
}

// another defines a second valid annotated class with the same bound type.
func (f *fixture) another(name string) *symbol.Declaration {
	d := &symbol.Declaration{
		QualifiedName: name,
		Kind:          symbol.KindClass,
		Annotations:   symbol.Annotations{contributes(boundName, "")},
		Constructors: []symbol.Constructor{{
			Primary:     true,
			Annotations: symbol.Annotations{ann(testMarkers.AssistedInject, nil, nil)},
			Parameters:  []symbol.Parameter{ctorParam("text", textType, "")},
		}},
	}
	f.table.Define(d)
	return d
}

// -------------------------
// emitter fakes
// -------------------------

type recordingEmitter struct {
	emitted []artifact.Artifact
	// feed, when set, receives every emitted artifact on Flush so later
	// rounds resolve it.
	feed    *symbol.Table
	pending []artifact.Artifact
	// failOn makes Emit fail for the named artifact.
	failOn string
}

var errEmit = errors.New("disk full")

func (e *recordingEmitter) Emit(a artifact.Artifact) error {
	if a.Name == e.failOn {
		return errEmit
	}
	e.emitted = append(e.emitted, a)
	if e.feed != nil {
		e.pending = append(e.pending, a)
	}
	return nil
}

func (e *recordingEmitter) Flush() error {
	for _, a := range e.pending {
		e.feed.Define(a.Declaration())
	}
	e.pending = nil
	return nil
}

func (e *recordingEmitter) names() []string {
	out := make([]string, 0, len(e.emitted))
	for _, a := range e.emitted {
		out = append(out, a.QualifiedName())
	}
	return out
}
