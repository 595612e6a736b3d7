package metadata

import (
	"bytes"
	"context"
	"debug/pe"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barJSON = `{
  "name": "Foo",
  "types": [
    {
      "fullName": "Foo.Bar",
      "name": "Bar",
      "access": "public",
      "kind": "class",
      "constructors": [{"name": ".ctor", "access": "public", "declaringType": "Foo.Bar"}],
      "methods": [{
        "name": "Do", "access": "public", "declaringType": "Foo.Bar",
        "returnType": {"name": "Void", "fullName": "System.Void"},
        "parameters": [{"name": "n", "type": {"name": "Int32", "fullName": "System.Int32"}}]
      }],
      "properties": [{
        "name": "X", "access": "public", "declaringType": "Foo.Bar",
        "type": {"name": "Int32", "fullName": "System.Int32"},
        "getter": {"access": "public"}, "setter": {"access": "public"}
      }]
    }
  ]
}`

const colorYAML = `name: Foo
types:
  - fullName: Foo.Color
    name: Color
    access: public
    kind: enum
    fields:
      - name: value__
        access: public
        type: {name: Int32, fullName: System.Int32}
      - name: Red
        access: public
        static: true
        const: true
        type: {name: Color, fullName: Foo.Color}
        value: {kind: int, value: "0"}
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeJSON(t *testing.T) {
	asm, err := Decode([]byte(barJSON), FormatJSON)
	require.NoError(t, err)
	require.Len(t, asm.Types, 1)

	bar := asm.Types[0]
	assert.Equal(t, "Foo.Bar", bar.FullName)
	assert.True(t, bar.IsPublic())
	assert.Equal(t, Class, bar.Kind)
	require.Len(t, bar.Methods, 1)
	assert.Equal(t, "Do", bar.Methods[0].Name)
	assert.Equal(t, "System.Void", bar.Methods[0].ReturnType.FullName)
	require.Len(t, bar.Properties, 1)
	require.NotNil(t, bar.Properties[0].Getter)
	assert.Equal(t, Public, bar.Properties[0].Setter.Access)
	assert.True(t, bar.Declares(bar.Methods[0].Info()))
}

func TestDecodeYAML(t *testing.T) {
	asm, err := Decode([]byte(colorYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, asm.Types, 1)

	color := asm.Types[0]
	assert.True(t, color.IsEnum())
	require.Len(t, color.Fields, 2)
	red := color.Fields[1]
	assert.Equal(t, "Red", red.Name)
	assert.True(t, red.Static)
	assert.True(t, red.Const)
	require.NotNil(t, red.Value)
	assert.Equal(t, ConstInt, red.Value.Kind)
	assert.Equal(t, "0", red.Value.Value)
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
		want   string
	}{
		{"missing full name", FormatJSON, `{"types":[{"name":"Bar"}]}`, "missing fullName"},
		{"missing name", FormatJSON, `{"types":[{"fullName":"Foo.Bar"}]}`, "missing name"},
		{"bad access", FormatJSON, `{"types":[{"fullName":"Foo.Bar","name":"Bar","access":"friend"}]}`, "unknown accessibility"},
		{"bad kind", FormatJSON, `{"types":[{"fullName":"Foo.Bar","name":"Bar","kind":"record"}]}`, "unknown kind"},
		{"unknown field", FormatJSON, `{"types":[],"extra":1}`, "unknown field"},
		{"yaml unknown field", FormatYAML, "types: []\nextra: 1\n", "field extra not found"},
		{"yaml unknown member field", FormatYAML,
			"types:\n  - fullName: Foo.Bar\n    name: Bar\n    methods:\n      - name: Do\n        returnTyp: {fullName: System.Void}\n",
			"field returnTyp not found"},
		{"yaml bad kind", FormatYAML, "types:\n  - {fullName: Foo.Bar, name: Bar, kind: record}\n", "unknown kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeDefaultsKindToClass(t *testing.T) {
	asm, err := Decode([]byte(`{"types":[{"fullName":"Foo.Bar","name":"Bar"}]}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Class, asm.Types[0].Kind)
}

func TestSidecarProvider(t *testing.T) {
	dir := t.TempDir()
	p := NewSidecarProvider(testLogger())

	t.Run("json", func(t *testing.T) {
		lib := filepath.Join(dir, "Foo.dll")
		require.NoError(t, os.WriteFile(lib, []byte("not a real image"), 0o644))
		require.NoError(t, os.WriteFile(lib+".json", []byte(barJSON), 0o644))

		asm, err := p.Load(context.Background(), lib)
		require.NoError(t, err)
		assert.Equal(t, "Foo", asm.Name)
	})

	t.Run("yaml", func(t *testing.T) {
		lib := filepath.Join(dir, "Colors.dll")
		require.NoError(t, os.WriteFile(lib+".yml", []byte(colorYAML), 0o644))

		asm, err := p.Load(context.Background(), lib)
		require.NoError(t, err)
		assert.Equal(t, "Foo.Color", asm.Types[0].FullName)
	})

	t.Run("missing document is unsupported", func(t *testing.T) {
		_, err := p.Load(context.Background(), filepath.Join(dir, "Native.dll"))
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("broken document is an error", func(t *testing.T) {
		lib := filepath.Join(dir, "Broken.dll")
		require.NoError(t, os.WriteFile(lib+".json", []byte("{"), 0o644))

		_, err := p.Load(context.Background(), lib)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnsupportedFormat)
	})
}

// writePE writes a minimal PE32 image; withCLR sets the CLR runtime header entry.
func writePE(t *testing.T, path string, withCLR bool) {
	t.Helper()
	var buf bytes.Buffer

	dos := make([]byte, 0x80)
	dos[0], dos[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(dos[0x3c:], 0x80)
	buf.Write(dos)
	buf.Write([]byte{'P', 'E', 0, 0})

	oh := pe.OptionalHeader32{Magic: 0x10b, NumberOfRvaAndSizes: 16}
	if withCLR {
		oh.DataDirectory[comDescriptorIndex] = pe.DataDirectory{VirtualAddress: 0x2008, Size: 72}
	}
	fh := pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_I386,
		SizeOfOptionalHeader: uint16(binary.Size(oh)),
		Characteristics:      pe.IMAGE_FILE_DLL | pe.IMAGE_FILE_EXECUTABLE_IMAGE,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, fh))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, oh))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestCheckManaged(t *testing.T) {
	dir := t.TempDir()

	managed := filepath.Join(dir, "Managed.dll")
	writePE(t, managed, true)
	assert.NoError(t, CheckManaged(managed))

	native := filepath.Join(dir, "Native.dll")
	writePE(t, native, false)
	assert.ErrorIs(t, CheckManaged(native), ErrUnsupportedFormat)

	text := filepath.Join(dir, "Text.dll")
	require.NoError(t, os.WriteFile(text, bytes.Repeat([]byte("hello world\n"), 16), 0o644))
	assert.ErrorIs(t, CheckManaged(text), ErrUnsupportedFormat)
}

func TestNewCommandProvider(t *testing.T) {
	p, err := NewCommandProvider("asmmeta --json  --resolve", testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"asmmeta", "--json", "--resolve"}, p.Args)

	_, err = NewCommandProvider("   ", testLogger())
	require.Error(t, err)
}

func TestCommandProvider(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	lib := filepath.Join(dir, "Foo.dll")
	writePE(t, lib, true)
	require.NoError(t, os.WriteFile(lib+".out", []byte(barJSON), 0o644))

	newProvider := func(script string) *CommandProvider {
		// sh -c script <path>: the library path becomes $0.
		return &CommandProvider{Args: []string{"sh", "-c", script}, logger: testLogger()}
	}

	t.Run("decodes stdout", func(t *testing.T) {
		asm, err := newProvider(`cat "$0.out"`).Load(context.Background(), lib)
		require.NoError(t, err)
		assert.Equal(t, "Foo.Bar", asm.Types[0].FullName)
	})

	t.Run("unsupported exit code", func(t *testing.T) {
		_, err := newProvider("exit 3").Load(context.Background(), lib)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		_, err := newProvider("echo boom >&2; exit 1").Load(context.Background(), lib)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnsupportedFormat)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("native image is skipped before running", func(t *testing.T) {
		native := filepath.Join(dir, "Native.dll")
		writePE(t, native, false)
		_, err := newProvider("exit 1").Load(context.Background(), native)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
