package render

// Names maps fully qualified primitive type names to their C# keywords and
// back. It is immutable once built.
type Names struct {
	short map[string]string
	long  map[string]string
}

// primitives is the fixed keyword table.
var primitives = [][2]string{
	{"System.Boolean", "bool"},
	{"System.Byte", "byte"},
	{"System.SByte", "sbyte"},
	{"System.Char", "char"},
	{"System.Decimal", "decimal"},
	{"System.Double", "double"},
	{"System.Single", "float"},
	{"System.Int16", "short"},
	{"System.UInt16", "ushort"},
	{"System.Int32", "int"},
	{"System.UInt32", "uint"},
	{"System.Int64", "long"},
	{"System.UInt64", "ulong"},
	{"System.IntPtr", "nint"},
	{"System.UIntPtr", "nuint"},
	{"System.Object", "object"},
	{"System.String", "string"},
	{"System.Void", "void"},
}

// NewNames builds the primitive keyword table.
func NewNames() *Names {
	n := &Names{
		short: make(map[string]string, len(primitives)),
		long:  make(map[string]string, len(primitives)),
	}
	for _, p := range primitives {
		n.short[p[0]] = p[1]
		n.long[p[1]] = p[0]
	}
	return n
}

// Shorten returns the keyword for a primitive full name, or "" if fullName is
// not a primitive.
func (n *Names) Shorten(fullName string) string {
	return n.short[fullName]
}

// Widen returns the full name for a keyword, or name unchanged if it is not a
// keyword.
func (n *Names) Widen(name string) string {
	if full, ok := n.long[name]; ok {
		return full
	}
	return name
}

// Len returns the number of entries in the table.
func (n *Names) Len() int { return len(n.short) }
