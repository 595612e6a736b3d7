package analyzer

import "github.com/olehluchkiv/asmdump/internal/metadata"

// Options controls which types and members are reported.
type Options struct {
	TypeFilter       string // exact simple name; primitive keywords are widened
	MemberFilter     string // exact member name; never matches constructors
	CtorsOnly        bool
	PublicOnly       bool
	IncludeInherited bool // methods and properties only
}

// DefaultOptions reports public members of every type.
func DefaultOptions() Options {
	return Options{PublicOnly: true}
}

// Selection is the set of members reported for one type, in output order.
type Selection struct {
	Properties   []*metadata.Property
	Constructors []*metadata.Constructor
	Methods      []*metadata.Method
}

// Len returns the number of selected members.
func (s Selection) Len() int {
	return len(s.Properties) + len(s.Constructors) + len(s.Methods)
}

// Listing is the rendered, de-duplicated output for one type.
type Listing struct {
	Type  *metadata.TypeView
	Lines []string
}
