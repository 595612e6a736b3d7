package metadata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// sidecarSuffixes are tried in order after the library path.
var sidecarSuffixes = []struct {
	suffix string
	format Format
}{
	{".json", FormatJSON},
	{".yaml", FormatYAML},
	{".yml", FormatYAML},
}

// SidecarProvider reads a metadata document exported next to the library,
// e.g. Foo.dll.json for Foo.dll.
type SidecarProvider struct {
	logger *slog.Logger
}

// NewSidecarProvider creates a provider reading <library>.json/.yaml/.yml.
func NewSidecarProvider(logger *slog.Logger) *SidecarProvider {
	return &SidecarProvider{logger: logger.With("component", "sidecar-provider")}
}

// Load implements Provider. A library without a sidecar document is reported
// as ErrUnsupportedFormat.
func (p *SidecarProvider) Load(ctx context.Context, path string) (*Assembly, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, s := range sidecarSuffixes {
		docPath := path + s.suffix
		data, err := os.ReadFile(docPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", docPath, err)
		}
		p.logger.Debug("loading sidecar document", "library", path, "document", docPath)
		asm, err := Decode(data, s.format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", docPath, err)
		}
		return asm, nil
	}
	return nil, fmt.Errorf("%s: no metadata document: %w", path, ErrUnsupportedFormat)
}
