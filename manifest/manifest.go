// Package manifest loads a YAML description of declarations into a symbol.Table.
//
// A manifest stands in for the host compiler when afgen runs on its own: it lists
// the project's declarations (the annotated classes, their bound types, scopes,
// and any supertypes) plus external names that should resolve without being
// described.
//
//	externals:
//	  - dagger.hilt.android.components.ActivityComponent
//	declarations:
//	  - name: com.example.Component.Factory
//	    file: src/main/kotlin/com/example/Component.kt
//	    kind: interface
//	    functions:
//	      - name: create
//	        abstract: true
//	        returns: com.example.Component
//	        params:
//	          - { name: id, type: kotlin.String }
//
// Annotations are either a bare qualified name or a mapping with string
// arguments (args) and class-literal arguments (types).
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest wraps every decoding and validation failure.
var ErrInvalidManifest = errors.New("manifest: invalid")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Manifest is the decoded document.
type Manifest struct {
	Externals    []string      `yaml:"externals" validate:"dive,required"`
	Declarations []Declaration `yaml:"declarations" validate:"dive"`

	// Path is the file the manifest was read from; it anchors diagnostics.
	Path string `yaml:"-"`
}

// Declaration describes one type.
type Declaration struct {
	Name         string        `yaml:"name" validate:"required"`
	Package      string        `yaml:"package"`
	File         string        `yaml:"file"`
	Kind         string        `yaml:"kind" validate:"required,oneof=class interface object enum annotation typealias typeparameter"`
	Visibility   string        `yaml:"visibility" validate:"omitempty,oneof=public internal protected private"`
	Abstract     bool          `yaml:"abstract"`
	Supertypes   []string      `yaml:"supertypes" validate:"dive,required"`
	Annotations  []Annotation  `yaml:"annotations" validate:"dive"`
	Constructors []Constructor `yaml:"constructors" validate:"dive"`
	Functions    []Function    `yaml:"functions" validate:"dive"`

	Line int `yaml:"-"`
}

// Annotation is an annotation use site.
type Annotation struct {
	Type  string            `yaml:"type" validate:"required"`
	Args  map[string]string `yaml:"args"`
	Types map[string]string `yaml:"types"`

	Line int `yaml:"-"`
}

// Constructor describes a constructor.
type Constructor struct {
	Primary     bool         `yaml:"primary"`
	Annotations []Annotation `yaml:"annotations" validate:"dive"`
	Params      []Parameter  `yaml:"params" validate:"dive"`

	Line int `yaml:"-"`
}

// Function describes a member function.
type Function struct {
	Name        string       `yaml:"name" validate:"required"`
	Abstract    bool         `yaml:"abstract"`
	Returns     string       `yaml:"returns"`
	Annotations []Annotation `yaml:"annotations" validate:"dive"`
	Params      []Parameter  `yaml:"params" validate:"dive"`

	Line int `yaml:"-"`
}

// Parameter describes a constructor or function parameter.
type Parameter struct {
	Name        string       `yaml:"name" validate:"required"`
	Type        string       `yaml:"type" validate:"required"`
	Annotations []Annotation `yaml:"annotations" validate:"dive"`

	Line int `yaml:"-"`
}

// -------------------------
// line-tracking decoders
// -------------------------

// Node.Decode does not inherit the decoder's KnownFields setting, so every
// custom decoder checks its mapping keys itself.

// decodeStrict rejects mapping keys that have no yaml field in out's type, then
// decodes n into out.
func decodeStrict(n *yaml.Node, out any, typeName string) error {
	if n.Kind == yaml.MappingNode {
		known := yamlFields(reflect.TypeOf(out).Elem())
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if _, ok := known[k.Value]; !ok {
				return fmt.Errorf("line %d: field %s not found in %s", k.Line, k.Value, typeName)
			}
		}
	}
	return n.Decode(out)
}

func yamlFields(t reflect.Type) map[string]struct{} {
	out := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		out[name] = struct{}{}
	}
	return out
}

func (d *Declaration) UnmarshalYAML(n *yaml.Node) error {
	type raw Declaration
	if err := decodeStrict(n, (*raw)(d), "declaration"); err != nil {
		return err
	}
	d.Line = n.Line
	return nil
}

// UnmarshalYAML accepts either a bare type name or a mapping.
func (a *Annotation) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*a = Annotation{Type: n.Value, Line: n.Line}
		return nil
	}
	type raw Annotation
	if err := decodeStrict(n, (*raw)(a), "annotation"); err != nil {
		return err
	}
	a.Line = n.Line
	return nil
}

func (c *Constructor) UnmarshalYAML(n *yaml.Node) error {
	type raw Constructor
	if err := decodeStrict(n, (*raw)(c), "constructor"); err != nil {
		return err
	}
	c.Line = n.Line
	return nil
}

func (f *Function) UnmarshalYAML(n *yaml.Node) error {
	type raw Function
	if err := decodeStrict(n, (*raw)(f), "function"); err != nil {
		return err
	}
	f.Line = n.Line
	return nil
}

func (p *Parameter) UnmarshalYAML(n *yaml.Node) error {
	type raw Parameter
	if err := decodeStrict(n, (*raw)(p), "parameter"); err != nil {
		return err
	}
	p.Line = n.Line
	return nil
}

// -------------------------
// Load / Parse
// -------------------------

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(path, raw)
}

// Parse decodes and validates a manifest. path is only used for positions.
// Unknown keys are errors at every level.
func Parse(path string, raw []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, path, err)
	}
	m.Path = path

	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidManifest, path, formatValidationError(err))
	}

	seen := map[string]int{}
	for _, d := range m.Declarations {
		if prev, ok := seen[d.Name]; ok {
			return nil, fmt.Errorf("%w: %s:%d: declaration %q already declared at line %d", ErrInvalidManifest, path, d.Line, d.Name, prev)
		}
		seen[d.Name] = d.Line
	}
	return &m, nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Manifest.declarations[0].kind"; drop the root type name.
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
