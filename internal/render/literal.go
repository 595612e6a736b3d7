package render

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/asmdump/internal/metadata"
)

// Literal formats a constant the way it would be written in C# source.
// A nil or null constant is "null".
func Literal(c *metadata.Constant) string {
	if c.IsNull() {
		return "null"
	}
	switch c.Kind {
	case metadata.ConstString:
		return `"` + escape(c.Value, '"') + `"`
	case metadata.ConstChar:
		return "'" + escape(c.Value, '\'') + "'"
	case metadata.ConstBool:
		return strings.ToLower(c.Value)
	default:
		return c.Value
	}
}

// escape applies C# simple escape sequences; quote is the delimiter in use.
func escape(s string, quote rune) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		case quote:
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			if r < 0x20 || r == 0x85 || r == 0x2028 || r == 0x2029 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
