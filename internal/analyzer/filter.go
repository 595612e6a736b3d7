package analyzer

import (
	"strings"

	"github.com/olehluchkiv/asmdump/internal/metadata"
	"github.com/olehluchkiv/asmdump/internal/render"
)

// compilerGenerated marks closure classes, state machines and lambdas
// (<>c__DisplayClass1_0, <Main>b__0_0).
const compilerGenerated = "<"

// hiddenDeclaringTypes are base types whose methods every type inherits.
var hiddenDeclaringTypes = map[string]bool{
	"System.Object":    true,
	"System.ValueType": true,
	"System.Enum":      true,
	"System.Attribute": true,
}

// IncludeType reports whether t passes the type-level filters.
func IncludeType(t *metadata.TypeView, opts Options, names *render.Names) bool {
	if opts.PublicOnly && !t.IsPublic() {
		return false
	}
	if opts.TypeFilter != "" && !matchesType(t, opts.TypeFilter, names) {
		return false
	}
	return !strings.Contains(t.FullName, compilerGenerated)
}

// matchesType accepts the simple name with or without its generic arity
// (Box and Box`1), the full name, or a primitive keyword whose full name is
// t's (-t int matches System.Int32).
func matchesType(t *metadata.TypeView, filter string, names *render.Names) bool {
	return t.Name == filter || render.SimpleName(t.Name) == filter ||
		t.FullName == filter || t.FullName == names.Widen(filter)
}

// Select picks the constructors, properties and methods of t to report.
// Enum types never contribute any; see EnumFields.
func Select(t *metadata.TypeView, opts Options) Selection {
	var sel Selection
	if t.IsEnum() {
		return sel
	}

	// Constructors have no name of their own to match.
	if opts.MemberFilter == "" {
		sel.Constructors = keep(t.Constructors, func(m metadata.MemberInfo) bool {
			return t.Declares(m) && (!opts.PublicOnly || m.Access == metadata.Public)
		})
	}
	if opts.CtorsOnly {
		return sel
	}

	member := func(m metadata.MemberInfo) bool {
		if !opts.IncludeInherited && !t.Declares(m) {
			return false
		}
		if opts.MemberFilter != "" && m.Name != opts.MemberFilter {
			return false
		}
		return !opts.PublicOnly || m.Access == metadata.Public
	}
	sel.Properties = keep(t.Properties, member)
	sel.Methods = keep(t.Methods, func(m metadata.MemberInfo) bool {
		if strings.Contains(m.Name, compilerGenerated) || hiddenDeclaringTypes[m.DeclaringType] {
			return false
		}
		return member(m)
	})
	return sel
}

// EnumFields picks the enum members of t to report: public static constants,
// optionally filtered by name. Constructors-only mode reports none.
func EnumFields(t *metadata.TypeView, opts Options) []*metadata.Field {
	if !t.IsEnum() || opts.CtorsOnly {
		return nil
	}
	var out []*metadata.Field
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Access != metadata.Public || !f.Static || !f.Const {
			continue
		}
		if opts.MemberFilter != "" && f.Name != opts.MemberFilter {
			continue
		}
		out = append(out, f)
	}
	return out
}

// keep returns pointers to the items accepted by pred, in order.
func keep[M metadata.Member](items []M, pred func(metadata.MemberInfo) bool) []*M {
	var out []*M
	for i := range items {
		if pred(items[i].Info()) {
			out = append(out, &items[i])
		}
	}
	return out
}
