package manifest

import (
	"fmt"

	"github.com/sghaida/assistfactory/symbol"
)

// Table builds a symbol table from the manifest: externals first, then every
// declaration. Type strings are parsed here, so malformed types surface as
// ErrInvalidManifest with their line.
func (m *Manifest) Table() (*symbol.Table, error) {
	t := symbol.NewTable(m.Externals...)
	for i := range m.Declarations {
		d, err := m.declaration(&m.Declarations[i])
		if err != nil {
			return nil, err
		}
		t.Define(d)
	}
	return t, nil
}

// LoadTable reads a manifest file and builds its table.
func LoadTable(path string) (*symbol.Table, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return m.Table()
}

func (m *Manifest) pos(line int) symbol.Pos { return symbol.Pos{File: m.Path, Line: line} }

func (m *Manifest) typeRef(line int, s string) (symbol.TypeRef, error) {
	t, err := symbol.ParseTypeRef(s)
	if err != nil {
		return symbol.TypeRef{}, fmt.Errorf("%w: %s:%d: %v", ErrInvalidManifest, m.Path, line, err)
	}
	return t, nil
}

func (m *Manifest) declaration(src *Declaration) (*symbol.Declaration, error) {
	kind, _ := symbol.ParseKind(src.Kind)
	vis, _ := symbol.ParseVisibility(src.Visibility)

	d := &symbol.Declaration{
		QualifiedName: src.Name,
		Package:       src.Package,
		File:          src.File,
		Kind:          kind,
		Visibility:    vis,
		Abstract:      src.Abstract,
		Pos:           m.pos(src.Line),
	}

	for _, s := range src.Supertypes {
		ref, err := m.typeRef(src.Line, s)
		if err != nil {
			return nil, err
		}
		d.Supertypes = append(d.Supertypes, ref)
	}

	var err error
	if d.Annotations, err = m.annotations(src.Annotations); err != nil {
		return nil, err
	}

	for _, c := range src.Constructors {
		ctor := symbol.Constructor{Primary: c.Primary, Pos: m.pos(c.Line)}
		if ctor.Annotations, err = m.annotations(c.Annotations); err != nil {
			return nil, err
		}
		if ctor.Parameters, err = m.parameters(c.Params); err != nil {
			return nil, err
		}
		d.Constructors = append(d.Constructors, ctor)
	}

	for _, f := range src.Functions {
		fn := symbol.Function{Name: f.Name, Abstract: f.Abstract, Pos: m.pos(f.Line)}
		if f.Returns != "" {
			if fn.Returns, err = m.typeRef(f.Line, f.Returns); err != nil {
				return nil, err
			}
		}
		if fn.Annotations, err = m.annotations(f.Annotations); err != nil {
			return nil, err
		}
		if fn.Parameters, err = m.parameters(f.Params); err != nil {
			return nil, err
		}
		d.Functions = append(d.Functions, fn)
	}
	return d, nil
}

func (m *Manifest) annotations(src []Annotation) (symbol.Annotations, error) {
	if len(src) == 0 {
		return nil, nil
	}
	out := make(symbol.Annotations, 0, len(src))
	for _, a := range src {
		ann := symbol.Annotation{Type: a.Type, Pos: m.pos(a.Line)}
		if len(a.Args) > 0 {
			ann.Strings = make(map[string]string, len(a.Args))
			for k, v := range a.Args {
				ann.Strings[k] = v
			}
		}
		if len(a.Types) > 0 {
			ann.Types = make(map[string]symbol.TypeRef, len(a.Types))
			for k, v := range a.Types {
				ref, err := m.typeRef(a.Line, v)
				if err != nil {
					return nil, err
				}
				ann.Types[k] = ref
			}
		}
		out = append(out, ann)
	}
	return out, nil
}

func (m *Manifest) parameters(src []Parameter) ([]symbol.Parameter, error) {
	out := make([]symbol.Parameter, 0, len(src))
	for _, p := range src {
		ref, err := m.typeRef(p.Line, p.Type)
		if err != nil {
			return nil, err
		}
		anns, err := m.annotations(p.Annotations)
		if err != nil {
			return nil, err
		}
		out = append(out, symbol.Parameter{Name: p.Name, Type: ref, Annotations: anns, Pos: m.pos(p.Line)})
	}
	return out, nil
}
