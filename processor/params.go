package processor

import (
	"strconv"

	"github.com/sghaida/assistfactory/symbol"
)

// ParameterKey joins constructor parameters to factory-method parameters:
// the canonical semantic type plus an optional disambiguating key.
// An empty Key means no key.
type ParameterKey struct {
	Type string
	Key  string
}

func (k ParameterKey) String() string {
	if k.Key == "" {
		return k.Type
	}
	return k.Type + " keyed " + strconv.Quote(k.Key)
}

// ParameterDescriptor is a parameter with its marker queries answered once.
type ParameterDescriptor struct {
	Name string
	Type symbol.TypeRef

	// NativeAssisted is set when the host framework's assisted marker is present;
	// NativeKey is that marker's value (blank counts as absent).
	NativeAssisted bool
	NativeKey      string

	// HasLibraryKey is set when this library's key marker is present;
	// LibraryKey is its value (blank counts as absent).
	HasLibraryKey bool
	LibraryKey    string

	Node symbol.Node
}

// ConstructorKey is the join key on the constructor side: type plus the host
// assisted marker's value.
func (p ParameterDescriptor) ConstructorKey() ParameterKey {
	return ParameterKey{Type: p.Type.String(), Key: p.NativeKey}
}

// FactoryKey is the join key on the factory-method side: type plus the library
// key marker's value.
func (p ParameterDescriptor) FactoryKey() ParameterKey {
	return ParameterKey{Type: p.Type.String(), Key: p.LibraryKey}
}

func describeParameter(owner *symbol.Declaration, member string, p symbol.Parameter, m Markers) ParameterDescriptor {
	d := ParameterDescriptor{
		Name: p.Name,
		Type: p.Type,
		Node: owner.ParameterNode(member, p),
	}
	if a, ok := p.Annotations.Find(m.Assisted); ok {
		d.NativeAssisted = true
		d.NativeKey, _ = a.StringArg(ArgValue)
	}
	if a, ok := p.Annotations.Find(m.Key); ok {
		d.HasLibraryKey = true
		d.LibraryKey, _ = a.StringArg(ArgValue)
	}
	return d
}

func describeParameters(owner *symbol.Declaration, member string, ps []symbol.Parameter, m Markers) []ParameterDescriptor {
	out := make([]ParameterDescriptor, 0, len(ps))
	for _, p := range ps {
		out = append(out, describeParameter(owner, member, p, m))
	}
	return out
}
