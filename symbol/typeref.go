package symbol

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidTypeRef is returned by ParseTypeRef for malformed input.
var ErrInvalidTypeRef = errors.New("symbol: invalid type reference")

// TypeRef is a reference to a type by qualified name, with optional type arguments.
//
// Its canonical String form is the semantic type used to match parameters:
//
//	kotlin.collections.List<kotlin.String>?
type TypeRef struct {
	Name     string
	Args     []TypeRef
	Nullable bool
}

// Ref is shorthand for a non-nullable TypeRef without arguments.
func Ref(name string) TypeRef { return TypeRef{Name: name} }

// IsZero reports whether the reference names nothing.
func (t TypeRef) IsZero() bool { return t.Name == "" }

// String returns the canonical form.
func (t TypeRef) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder) {
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(sb)
		}
		sb.WriteByte('>')
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
}

// SimpleName returns the last dotted segment of the name.
func (t TypeRef) SimpleName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Equal compares canonical forms.
func (t TypeRef) Equal(o TypeRef) bool { return t.String() == o.String() }

// ParseTypeRef parses the canonical form produced by TypeRef.String.
// Whitespace around names and separators is ignored.
func ParseTypeRef(s string) (TypeRef, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return TypeRef{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeRef{}, p.fail("unexpected trailing input")
	}
	return t, nil
}

// MustParseTypeRef is ParseTypeRef that panics on error.
// Intended for tests and static tables.
func MustParseTypeRef(s string) TypeRef {
	t, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parse() (TypeRef, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '.' || r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			p.pos++
			continue
		}
		break
	}
	name := p.src[start:p.pos]
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return TypeRef{}, p.fail("expected qualified name")
	}
	t := TypeRef{Name: name}

	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
	args:
		for {
			arg, err := p.parse()
			if err != nil {
				return TypeRef{}, err
			}
			t.Args = append(t.Args, arg)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
			case '>':
				p.pos++
				break args
			default:
				return TypeRef{}, p.fail("expected ',' or '>'")
			}
		}
		p.skipSpace()
	}
	if p.peek() == '?' {
		p.pos++
		t.Nullable = true
	}
	return t, nil
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) fail(msg string) error {
	return &TypeRefError{Input: p.src, Offset: p.pos, Msg: msg}
}

// TypeRefError describes where ParseTypeRef gave up.
type TypeRefError struct {
	Input  string
	Offset int
	Msg    string
}

// Error implements the error interface.
func (e *TypeRefError) Error() string {
	return ErrInvalidTypeRef.Error() + " " + strconv.Quote(e.Input) + " at offset " + strconv.Itoa(e.Offset) + ": " + e.Msg
}

// Unwrap lets errors.Is match ErrInvalidTypeRef.
func (e *TypeRefError) Unwrap() error { return ErrInvalidTypeRef }
