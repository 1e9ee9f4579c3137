package processor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/sghaida/assistfactory/artifact"
	"github.com/sghaida/assistfactory/symbol"
)

const (
	factorySuffix = "_AssistedFactory"
	moduleSuffix  = "_Module"

	bindFunction  = "factory"
	bindParameter = "implementation"
)

// FactoryName returns the generated factory's simple name for a declaration.
func FactoryName(decl *symbol.Declaration) string { return decl.Name() + factorySuffix }

// ModuleName returns the generated module's simple name for a declaration.
func ModuleName(decl *symbol.Declaration) string { return FactoryName(decl) + moduleSuffix }

// Synthesize turns a plan into the factory and module artifacts.
// It does no validation: the plan must come from Validator.Validate.
func Synthesize(plan *Plan, markers Markers) (factory, module artifact.Artifact) {
	markers = markers.withDefaults()
	factory = synthesizeFactory(plan, markers)
	module = synthesizeModule(plan, factory, markers)
	return factory, module
}

func synthesizeFactory(plan *Plan, m Markers) artifact.Artifact {
	decl := plan.Declaration

	a := artifact.Artifact{
		Package:     decl.Package,
		Name:        FactoryName(decl),
		Kind:        artifact.KindInterface,
		Visibility:  decl.Visibility.OrPublic(),
		Supertypes:  []symbol.TypeRef{plan.BoundType.Ref()},
		Annotations: []artifact.Annotation{{Type: m.AssistedFactory}},
		Sources:     sources(decl),
		Aggregating: true,
	}
	if plan.BoundType.Kind != symbol.KindInterface {
		a.Kind = artifact.KindAbstractClass
		a.SuperclassCall = true
	}

	fn := artifact.Function{
		Name:      plan.FactoryMethod.Name,
		Modifiers: []artifact.Modifier{artifact.ModifierOverride, artifact.ModifierAbstract},
		Returns:   decl.Ref(),
	}
	for _, mp := range plan.Parameters {
		p := artifact.Parameter{Name: mp.Factory.Name, Type: mp.Factory.Type}
		if key := mp.Factory.LibraryKey; key != "" {
			lit := kotlinString(key)
			p.Annotations = []artifact.Annotation{
				{Type: m.Key, Args: []string{lit}},
				{Type: m.Assisted, Args: []string{lit}},
			}
		}
		fn.Parameters = append(fn.Parameters, p)
	}
	a.Functions = []artifact.Function{fn}
	return a
}

func synthesizeModule(plan *Plan, factory artifact.Artifact, m Markers) artifact.Artifact {
	return artifact.Artifact{
		Package:    factory.Package,
		Name:       factory.Name + moduleSuffix,
		Kind:       artifact.KindInterface,
		Visibility: factory.Visibility,
		Annotations: []artifact.Annotation{
			{Type: m.Module},
			{Type: m.InstallIn, Args: []string{plan.Scope.QualifiedName + "::class"}},
		},
		Functions: []artifact.Function{{
			Name:        bindFunction,
			Modifiers:   []artifact.Modifier{artifact.ModifierAbstract},
			Annotations: []artifact.Annotation{{Type: m.Binds}},
			Parameters:  []artifact.Parameter{{Name: bindParameter, Type: factory.Ref()}},
			Returns:     plan.BoundType.Ref(),
		}},
		Sources:     factory.Sources,
		Aggregating: true,
	}
}

func sources(decl *symbol.Declaration) []string {
	if decl.File == "" {
		return nil
	}
	return []string{decl.File}
}

// kotlinString quotes s as a Kotlin string literal. Kotlin only knows the
// escapes below plus \uXXXX, so everything else unprintable is written as
// UTF-16 code units.
func kotlinString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '$':
			sb.WriteString(`\$`)
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
				continue
			}
			if r1, r2 := utf16.EncodeRune(r); r1 != unicode.ReplacementChar {
				fmt.Fprintf(&sb, `\u%04x\u%04x`, r1, r2)
			} else {
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
