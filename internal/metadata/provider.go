package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned (wrapped) by providers for files that are
// not managed assemblies they can read. Callers skip such libraries.
var ErrUnsupportedFormat = errors.New("unsupported assembly format")

// Provider builds the type-system view of one library file.
type Provider interface {
	Load(ctx context.Context, path string) (*Assembly, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, path string) (*Assembly, error)

// Load calls f(ctx, path).
func (f ProviderFunc) Load(ctx context.Context, path string) (*Assembly, error) {
	return f(ctx, path)
}

// Format is the encoding of a metadata document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Decode parses a metadata document and validates it.
func Decode(data []byte, format Format) (*Assembly, error) {
	var asm Assembly
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&asm); err != nil {
			return nil, fmt.Errorf("decoding json document: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&asm); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}
	if err := asm.validate(); err != nil {
		return nil, err
	}
	return &asm, nil
}

func (a *Assembly) validate() error {
	for i := range a.Types {
		t := &a.Types[i]
		if t.FullName == "" {
			return fmt.Errorf("type #%d: missing fullName", i)
		}
		if t.Name == "" {
			return fmt.Errorf("type %s: missing name", t.FullName)
		}
		if t.Access != "" && !t.Access.Valid() {
			return fmt.Errorf("type %s: unknown accessibility %q", t.FullName, t.Access)
		}
		switch t.Kind {
		case Class, Struct, Interface, Enum, Delegate:
		case "":
			t.Kind = Class
		default:
			return fmt.Errorf("type %s: unknown kind %q", t.FullName, t.Kind)
		}
	}
	return nil
}
