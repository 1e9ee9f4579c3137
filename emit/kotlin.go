// Package emit turns artifacts into files and feeds them back into the symbol
// table.
//
// Emitters:
//
//   - File writes Kotlin sources under an output directory and keeps a
//     dependency index for incremental builds
//   - Memory keeps artifacts in memory (dry runs, tests)
//   - Feedback defines emitted artifacts in a symbol.Table so later rounds
//     resolve generated types
//   - Multi fans out to several emitters
package emit

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/sghaida/assistfactory/artifact"
	"github.com/sghaida/assistfactory/symbol"
)

// ErrEmit wraps every failure to render or persist an artifact.
var ErrEmit = errors.New("emit")

// Emitter persists one artifact. processor.Emitter has the same shape.
type Emitter interface {
	Emit(a artifact.Artifact) error
}

const headerLine = "// Code generated by afgen; DO NOT EDIT."

// Kotlin renders a as a Kotlin source file. Every type is written fully
// qualified, so the unit needs no imports.
//
// The header records the source files and a SHA-256 of the body, so a
// reviewer can tell stale output from hand edits.
func Kotlin(a artifact.Artifact) ([]byte, error) {
	var body bytes.Buffer
	if err := kotlinTpl.Execute(&body, a); err != nil {
		return nil, fmt.Errorf("%w: render %s: %w", ErrEmit, a.QualifiedName(), err)
	}

	var out bytes.Buffer
	out.WriteString(headerLine + "\n")
	if len(a.Sources) > 0 {
		out.WriteString("// Sources: " + strings.Join(a.Sources, ", ") + "\n")
	}
	out.WriteString("// Content-SHA256: " + sha256Hex(body.Bytes()) + "\n\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// -------------------------
// template helpers
// -------------------------

// kotlinKeywords are Kotlin's hard keywords. They cannot be used as
// identifiers unless quoted in backticks.
var kotlinKeywords = map[string]struct{}{
	"as": {}, "break": {}, "class": {}, "continue": {}, "do": {}, "else": {},
	"false": {}, "for": {}, "fun": {}, "if": {}, "in": {}, "interface": {},
	"is": {}, "null": {}, "object": {}, "package": {}, "return": {}, "super": {},
	"this": {}, "throw": {}, "true": {}, "try": {}, "typealias": {}, "typeof": {},
	"val": {}, "var": {}, "when": {}, "while": {},
}

// identifier quotes name when it is a hard keyword.
func identifier(name string) string {
	if _, ok := kotlinKeywords[name]; ok {
		return "`" + name + "`"
	}
	return name
}

// qualified quotes every keyword segment of a dotted name.
func qualified(name string) string {
	segs := strings.Split(name, ".")
	for i, s := range segs {
		segs[i] = identifier(s)
	}
	return strings.Join(segs, ".")
}

func renderType(t symbol.TypeRef) string {
	var sb strings.Builder
	sb.WriteString(qualified(t.Name))
	if len(t.Args) > 0 {
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = renderType(a)
		}
		sb.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

func renderAnnotation(an artifact.Annotation) string {
	if len(an.Args) == 0 {
		return "@" + qualified(an.Type)
	}
	return "@" + qualified(an.Type) + "(" + strings.Join(an.Args, ", ") + ")"
}

func renderVisibility(v symbol.Visibility) string {
	if v == symbol.VisibilityUnspecified || v == symbol.VisibilityPublic {
		return ""
	}
	return v.String() + " "
}

func renderSupertypes(a artifact.Artifact) string {
	if len(a.Supertypes) == 0 {
		return ""
	}
	parts := make([]string, len(a.Supertypes))
	for i, st := range a.Supertypes {
		parts[i] = renderType(st)
	}
	if a.SuperclassCall {
		parts[0] += "()"
	}
	return " : " + strings.Join(parts, ", ")
}

// renderModifiers writes modifiers in Kotlin's conventional order. Interface
// members are implicitly abstract, so the keyword is dropped there.
func renderModifiers(a artifact.Artifact, f artifact.Function) string {
	var sb strings.Builder
	if f.Has(artifact.ModifierAbstract) && a.Kind != artifact.KindInterface {
		sb.WriteString("abstract ")
	}
	if f.Has(artifact.ModifierOverride) {
		sb.WriteString("override ")
	}
	return sb.String()
}

func renderParameters(ps []artifact.Parameter) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		var sb strings.Builder
		for _, an := range p.Annotations {
			sb.WriteString(renderAnnotation(an) + " ")
		}
		sb.WriteString(identifier(p.Name) + ": " + renderType(p.Type))
		parts[i] = sb.String()
	}
	return strings.Join(parts, ", ")
}

var kotlinTpl = template.Must(
	template.New("kotlin").
		Funcs(template.FuncMap{
			"annotation": renderAnnotation,
			"visibility": renderVisibility,
			"supertypes": renderSupertypes,
			"modifiers":  renderModifiers,
			"params":     renderParameters,
			"ident":      identifier,
			"qualified":  qualified,
			"kotlinType": renderType,
		}).
		Parse(`{{- if .Package }}package {{ qualified .Package }}

{{ end -}}
{{- range .Annotations }}{{ annotation . }}
{{ end -}}
{{ visibility .Visibility }}{{ .Kind }} {{ .Name }}{{ supertypes . }} {
{{- range .Functions }}
{{- range .Annotations }}
    {{ annotation . }}
{{- end }}
    {{ modifiers $ . }}fun {{ ident .Name }}({{ params .Parameters }}): {{ kotlinType .Returns }}
{{- end }}
}
`))
