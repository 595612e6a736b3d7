package analyzer

// Dedupe remembers the signatures already emitted for one type. A flattened
// inherited view can repeat an overload declared at several levels.
type Dedupe struct {
	seen map[string]struct{}
}

// NewDedupe returns an empty set.
func NewDedupe() *Dedupe {
	return &Dedupe{seen: make(map[string]struct{})}
}

// Add records sig and reports whether it was seen for the first time.
func (d *Dedupe) Add(sig string) bool {
	if _, ok := d.seen[sig]; ok {
		return false
	}
	d.seen[sig] = struct{}{}
	return true
}
