package analyzer

import (
	"log/slog"

	"github.com/olehluchkiv/asmdump/internal/metadata"
	"github.com/olehluchkiv/asmdump/internal/render"
)

// Analyzer selects and renders the API surface of assemblies. It holds no
// state between types and is safe for concurrent use.
type Analyzer struct {
	opts     Options
	names    *render.Names
	renderer *render.Renderer
	logger   *slog.Logger
}

// New creates an analyzer for one run's options.
func New(opts Options, names *render.Names, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		opts:     opts,
		names:    names,
		renderer: render.New(names),
		logger:   logger.With("component", "analyzer"),
	}
}

// Analyze walks the types of asm in declaration order and calls emit with
// each type's listing as soon as it is rendered. Types without output are
// not emitted. It returns the number of lines emitted.
func (a *Analyzer) Analyze(asm *metadata.Assembly, emit func(Listing)) int {
	total := 0
	for i := range asm.Types {
		t := &asm.Types[i]
		if !IncludeType(t, a.opts, a.names) {
			continue
		}
		lines := a.RenderType(t)
		if len(lines) == 0 {
			continue
		}
		a.logger.Debug("type rendered", "type", t.FullName, "lines", len(lines))
		total += len(lines)
		emit(Listing{Type: t, Lines: lines})
	}
	return total
}

// RenderType renders the selected members of t: properties, then
// constructors, then methods, or the enum fields for an enum. Repeated
// signatures are dropped.
func (a *Analyzer) RenderType(t *metadata.TypeView) []string {
	seen := NewDedupe()
	var lines []string
	add := func(sig string) {
		if seen.Add(sig) {
			lines = append(lines, sig)
		}
	}

	if t.IsEnum() {
		for _, f := range EnumFields(t, a.opts) {
			add(a.renderer.EnumField(t, f))
		}
		return lines
	}

	sel := Select(t, a.opts)
	for _, p := range sel.Properties {
		add(a.renderer.Property(t, p))
	}
	for _, c := range sel.Constructors {
		add(a.renderer.Constructor(t, c))
	}
	for _, m := range sel.Methods {
		add(a.renderer.Method(t, m))
	}
	return lines
}
