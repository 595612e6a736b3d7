package metadata

import (
	"bytes"
	"context"
	"debug/pe"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// UnsupportedExitCode is the exit status a dumper command uses to say that it
// cannot read the given file.
const UnsupportedExitCode = 3

// comDescriptorIndex is the data directory entry holding the CLR runtime header.
const comDescriptorIndex = 14

// CommandProvider runs an external metadata dumper and decodes the JSON
// document it prints on stdout. The library path is appended to Args.
type CommandProvider struct {
	Args   []string
	logger *slog.Logger
}

// NewCommandProvider parses a command line such as "asmmeta --json".
func NewCommandProvider(command string, logger *slog.Logger) (*CommandProvider, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, errors.New("empty provider command")
	}
	return &CommandProvider{
		Args:   args,
		logger: logger.With("component", "command-provider"),
	}, nil
}

// Load implements Provider.
func (p *CommandProvider) Load(ctx context.Context, path string) (*Assembly, error) {
	if err := CheckManaged(path); err != nil {
		return nil, err
	}

	args := append(append([]string{}, p.Args[1:]...), path)
	cmd := exec.CommandContext(ctx, p.Args[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.logger.Debug("running metadata dumper", "command", p.Args[0], "library", path)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == UnsupportedExitCode {
			return nil, fmt.Errorf("%s: dumper rejected file: %w", path, ErrUnsupportedFormat)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("running %s on %s: %w: %s", p.Args[0], path, err, msg)
		}
		return nil, fmt.Errorf("running %s on %s: %w", p.Args[0], path, err)
	}

	asm, err := Decode(stdout.Bytes(), FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return asm, nil
}

// CheckManaged returns ErrUnsupportedFormat (wrapped) unless path is a PE
// image with a CLR runtime header.
func CheckManaged(path string) error {
	f, err := pe.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", path, err, ErrUnsupportedFormat)
	}
	defer f.Close()

	var dirs []pe.DataDirectory
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		dirs = oh.DataDirectory[:min(int(oh.NumberOfRvaAndSizes), len(oh.DataDirectory))]
	case *pe.OptionalHeader64:
		dirs = oh.DataDirectory[:min(int(oh.NumberOfRvaAndSizes), len(oh.DataDirectory))]
	}
	if len(dirs) <= comDescriptorIndex || dirs[comDescriptorIndex].VirtualAddress == 0 {
		return fmt.Errorf("%s: no CLR header: %w", path, ErrUnsupportedFormat)
	}
	return nil
}
