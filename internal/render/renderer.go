package render

import (
	"strings"

	"github.com/olehluchkiv/asmdump/internal/metadata"
)

// Renderer turns selected members into one-line signatures. Output depends
// only on the member shape and the Names table.
type Renderer struct {
	names *Names
}

// New creates a renderer using the given primitive name table.
func New(names *Names) *Renderer {
	return &Renderer{names: names}
}

// Constructor renders "<Type> <access> [static] <TypeName>(<params>)".
func (r *Renderer) Constructor(t *metadata.TypeView, c *metadata.Constructor) string {
	var b strings.Builder
	r.writeHead(&b, t, c.MemberInfo)
	b.WriteString(" ")
	b.WriteString(SimpleName(t.Name))
	r.writeParams(&b, c.Parameters)
	return b.String()
}

// Method renders "<Type> <access> [static] <Return> <Name>(<params>)".
func (r *Renderer) Method(t *metadata.TypeView, m *metadata.Method) string {
	var b strings.Builder
	r.writeHead(&b, t, m.MemberInfo)
	b.WriteString(" ")
	b.WriteString(r.TypeName(m.ReturnType))
	b.WriteString(" ")
	b.WriteString(m.Name)
	r.writeParams(&b, m.Parameters)
	return b.String()
}

// Property renders "<Type> <access> [static] <PropType> <Name> { get; set; }".
func (r *Renderer) Property(t *metadata.TypeView, p *metadata.Property) string {
	var b strings.Builder
	r.writeHead(&b, t, p.MemberInfo)
	b.WriteString(" ")
	b.WriteString(r.TypeName(p.Type))
	b.WriteString(" ")
	b.WriteString(p.Name)

	if p.Getter == nil && p.Setter == nil {
		return b.String()
	}
	b.WriteString(" { ")
	writeAccessor(&b, p.Access, p.Getter, "get; ")
	writeAccessor(&b, p.Access, p.Setter, "set; ")
	b.WriteString("}")
	return b.String()
}

// EnumField renders "<Type> enum <TypeName>.<Field>[ = <value>]".
func (r *Renderer) EnumField(t *metadata.TypeView, f *metadata.Field) string {
	var b strings.Builder
	b.WriteString(t.FullName)
	b.WriteString(" enum ")
	b.WriteString(SimpleName(t.Name))
	b.WriteString(".")
	b.WriteString(f.Name)
	if !f.Value.IsNull() {
		b.WriteString(" = ")
		b.WriteString(f.Value.Value)
	}
	return b.String()
}

// TypeName renders a type reference with primitive keywords and generic
// arguments, e.g. Dictionary<string, List<int>>.
func (r *Renderer) TypeName(ref metadata.TypeRef) string {
	var b strings.Builder
	r.writeType(&b, ref)
	return b.String()
}

func (r *Renderer) writeType(b *strings.Builder, ref metadata.TypeRef) {
	if ref.Element != nil {
		r.writeType(b, *ref.Element)
		b.WriteString("[")
		if ref.Rank > 1 {
			b.WriteString(strings.Repeat(",", ref.Rank-1))
		}
		b.WriteString("]")
		return
	}

	name := r.names.Shorten(ref.FullName)
	if name == "" {
		name = SimpleName(ref.Name)
	}
	if name == "" {
		name = SimpleName(ref.FullName)
	}
	b.WriteString(name)

	if len(ref.Arguments) == 0 {
		return
	}
	b.WriteString("<")
	for i, arg := range ref.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		r.writeType(b, arg)
	}
	b.WriteString(">")
}

func (r *Renderer) writeHead(b *strings.Builder, t *metadata.TypeView, m metadata.MemberInfo) {
	b.WriteString(t.FullName)
	b.WriteString(" ")
	b.WriteString(m.Access.Keyword())
	if m.Static {
		b.WriteString(" static")
	}
}

func (r *Renderer) writeParams(b *strings.Builder, params []metadata.Parameter) {
	b.WriteString("(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		r.writeType(b, p.Type)
		b.WriteString(" ")
		b.WriteString(p.Name)
		if p.Optional {
			b.WriteString(" = ")
			b.WriteString(Literal(p.Default))
		}
	}
	b.WriteString(")")
}

// writeAccessor writes text for an existing accessor, prefixed with its
// accessibility when it differs from the property's.
func writeAccessor(b *strings.Builder, propAccess metadata.Accessibility, acc *metadata.Accessor, text string) {
	if acc == nil {
		return
	}
	if acc.Access != "" && acc.Access != propAccess {
		b.WriteString(acc.Access.Keyword())
		b.WriteString(" ")
	}
	b.WriteString(text)
}

// SimpleName drops a namespace and the generic arity suffix (List`1 -> List).
func SimpleName(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
