package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// TypeName is a parsed textual type reference, e.g. "const array<int>@".
type TypeName struct {
	Name     string
	Args     []TypeName
	IsConst  bool
	IsHandle bool
}

// Identity computes the structural identity of the parsed name. The path
// is pure: no catalog access, so it works for names that are not yet
// registered (forward references).
func (t TypeName) Identity() ident.ID {
	base := ident.FromName(t.Name)
	if len(t.Args) == 0 {
		return base
	}
	args := make([]ident.ID, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Identity()
	}
	return ident.FromInstance(base, args)
}

// ParseTypeName parses a textual type reference. Supported forms:
// "name", "ns::name", "tmpl<arg, ...>" with nested generics, a "const"
// qualifier in leading ("const int") or trailing ("int const",
// "Player@ const") position, and a trailing "@" handle marker.
func ParseTypeName(text string) (TypeName, error) {
	p := &typeNameParser{src: text}
	tn, err := p.parse()
	if err != nil {
		return TypeName{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeName{}, fmt.Errorf("invalid type name %q: trailing %q", text, p.src[p.pos:])
	}
	return tn, nil
}

type typeNameParser struct {
	src string
	pos int
}

func (p *typeNameParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeNameParser) parse() (TypeName, error) {
	var tn TypeName
	p.skipSpace()

	if strings.HasPrefix(p.src[p.pos:], "const ") {
		tn.IsConst = true
		p.pos += len("const ")
		p.skipSpace()
	}

	name := p.readName()
	if name == "" {
		return tn, fmt.Errorf("invalid type name %q: expected identifier", p.src)
	}
	tn.Name = name

	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		p.pos++
		for {
			arg, err := p.parse()
			if err != nil {
				return tn, err
			}
			tn.Args = append(tn.Args, arg)
			p.skipSpace()
			if p.pos >= len(p.src) {
				return tn, fmt.Errorf("invalid type name %q: unterminated argument list", p.src)
			}
			if p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.src[p.pos] == '>' {
				p.pos++
				break
			}
			return tn, fmt.Errorf("invalid type name %q: expected ',' or '>'", p.src)
		}
	}

	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '@' {
		tn.IsHandle = true
		p.pos++
	}
	p.skipSpace()
	if p.trailingConst() {
		tn.IsConst = true
		p.pos += len("const")
	}
	return tn, nil
}

// trailingConst reports whether a postfix "const" qualifier starts at the
// current position. The word must end the reference, so "constraints" in
// "map<constraints>" still reads as an identifier.
func (p *typeNameParser) trailingConst() bool {
	rest := p.src[p.pos:]
	if !strings.HasPrefix(rest, "const") {
		return false
	}
	rest = rest[len("const"):]
	return rest == "" || rest[0] == ' ' || rest[0] == ',' || rest[0] == '>'
}

// readName consumes an identifier, permitting "::" namespace separators.
func (p *typeNameParser) readName() string {
	start := p.pos
	for p.pos < len(p.src) {
		ch := rune(p.src[p.pos])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			p.pos++
			continue
		}
		if ch == ':' && p.pos+1 < len(p.src) && p.src[p.pos+1] == ':' {
			p.pos += 2
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// ResolveTypeName resolves a textual type name to a DataType. The identity
// is computed purely from the text; when the name carries generic arguments
// and an instantiation hook is wired, the concrete instantiation is
// materialized so subsequent catalog lookups of the identity succeed.
func (r *Resolver) ResolveTypeName(text string) (types.DataType, error) {
	tn, err := ParseTypeName(text)
	if err != nil {
		return types.DataType{}, err
	}
	dt := types.DataType{ID: tn.Identity(), IsConst: tn.IsConst, IsHandle: tn.IsHandle}

	if len(tn.Args) > 0 && r.Instantiate != nil {
		generic := ident.FromName(tn.Name)
		args := make([]types.DataType, len(tn.Args))
		for i, a := range tn.Args {
			argDT, err := r.ResolveTypeName(typeNameString(a))
			if err != nil {
				return types.DataType{}, err
			}
			args[i] = argDT
		}
		id, err := r.Instantiate(generic, args)
		if err != nil {
			return types.DataType{}, err
		}
		dt.ID = id
	}
	return dt, nil
}

func typeNameString(t TypeName) string {
	var sb strings.Builder
	if t.IsConst {
		sb.WriteString("const ")
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(typeNameString(a))
		}
		sb.WriteByte('>')
	}
	if t.IsHandle {
		sb.WriteByte('@')
	}
	return sb.String()
}
