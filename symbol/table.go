package symbol

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultScope is the Hilt singleton component, the install scope used when an
// annotation names none.
const DefaultScope = "dagger.hilt.components.SingletonComponent"

// Builtins are resolvable without being described.
var Builtins = []string{
	"kotlin.Any",
	"kotlin.Unit",
	"kotlin.String",
	"kotlin.CharSequence",
	"kotlin.Char",
	"kotlin.Boolean",
	"kotlin.Byte",
	"kotlin.Short",
	"kotlin.Int",
	"kotlin.Long",
	"kotlin.Float",
	"kotlin.Double",
	"kotlin.Array",
	"kotlin.collections.List",
	"kotlin.collections.MutableList",
	"kotlin.collections.Set",
	"kotlin.collections.Map",
	"kotlin.collections.Collection",
	"kotlin.collections.Iterable",
}

// Table is an in-memory Source.
//
// Names are either described (a full Declaration), external (resolvable but
// opaque, modelled as a class with no members), or reserved (a Placeholder for a
// type that will be defined later, typically by generation). Anything else
// resolves to Error.
//
// Table is not safe for concurrent use; processing is single-threaded.
type Table struct {
	decls    map[string]*Declaration
	reserved map[string]bool
}

// NewTable returns a table pre-populated with Builtins, DefaultScope and the
// given externals.
func NewTable(externals ...string) *Table {
	t := &Table{
		decls:    map[string]*Declaration{},
		reserved: map[string]bool{},
	}
	for _, name := range Builtins {
		t.External(name)
	}
	t.External(DefaultScope)
	for _, name := range externals {
		t.External(name)
	}
	return t
}

// Define adds or replaces a declaration and clears any reservation on its name.
func (t *Table) Define(d *Declaration) *Table {
	if d.Package == "" {
		d.Package = packageOf(d.QualifiedName)
	}
	t.decls[d.QualifiedName] = d
	delete(t.reserved, d.QualifiedName)
	return t
}

// External makes a name resolvable without describing it.
func (t *Table) External(name string) *Table {
	if _, ok := t.decls[name]; ok {
		return t
	}
	return t.Define(&Declaration{QualifiedName: name, Kind: KindClass})
}

// Reserve marks a name as a Placeholder until it is defined.
func (t *Table) Reserve(name string) *Table {
	if _, ok := t.decls[name]; !ok {
		t.reserved[name] = true
	}
	return t
}

// Lookup returns a declaration by qualified name.
func (t *Table) Lookup(name string) (*Declaration, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// Len returns the number of known declarations, builtins included.
func (t *Table) Len() int { return len(t.decls) }

// Annotated implements Source.
func (t *Table) Annotated(marker string) []*Declaration {
	var out []*Declaration
	for _, d := range t.decls {
		if d.Annotations.Has(marker) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedName < out[j].QualifiedName })
	return out
}

// Resolve implements Source.
func (t *Table) Resolve(ref TypeRef) Resolution {
	res := Resolution{Ref: ref, State: t.state(ref.Name)}
	if res.State != Resolved {
		return res
	}
	for _, a := range ref.Args {
		if ar := t.Resolve(a); ar.State != Resolved {
			res.State = ar.State
			return res
		}
	}
	res.Decl = t.decls[ref.Name]
	return res
}

func (t *Table) state(name string) State {
	switch {
	case t.decls[name] != nil:
		return Resolved
	case t.reserved[name]:
		return Placeholder
	default:
		return Error
	}
}

// AllFunctions implements Source. Supertypes are walked depth-first in
// declaration order; unresolvable supertypes contribute nothing.
func (t *Table) AllFunctions(d *Declaration) []Function {
	var out []Function
	seenSig := map[string]bool{}
	seenDecl := map[string]bool{}

	var walk func(d *Declaration)
	walk = func(d *Declaration) {
		if seenDecl[d.QualifiedName] {
			return
		}
		seenDecl[d.QualifiedName] = true

		for _, f := range d.Functions {
			sig := f.Signature()
			if seenSig[sig] {
				continue
			}
			seenSig[sig] = true
			out = append(out, f)
		}
		for _, st := range d.Supertypes {
			if r := t.Resolve(st); r.Resolvable() {
				walk(r.Decl)
			}
		}
	}
	walk(d)
	return out
}

func packageOf(qualified string) string {
	// Package segments are lowercase by convention; the first capitalised
	// segment starts the (possibly nested) type name.
	parts := strings.Split(qualified, ".")
	for i, p := range parts {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			return strings.Join(parts[:i], ".")
		}
	}
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}
	return ""
}

var _ Source = (*Table)(nil)
