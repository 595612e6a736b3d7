package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// LocalIgnoreFileName is a gitignore-style file honored in each search
// directory during the default scan.
const LocalIgnoreFileName = ".asmdumpignore"

// DefaultExtensions are the library extensions scanned when none are configured.
var DefaultExtensions = []string{".dll"}

// Options controls library discovery.
type Options struct {
	LibraryName string      // exact filename, case-insensitive; disables other filters
	Extensions  []string    // case-insensitive, with leading dot
	Ignore      *IgnoreList // filename patterns excluded from the default scan
}

// Discover returns the library files found at the top level of dirs. Files
// are merged by name across directories: the first directory wins. With
// LibraryName set, at most one path is returned.
func Discover(dirs []string, opts Options, logger *slog.Logger) ([]string, error) {
	logger = logger.With("component", "discovery")
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	seen := make(map[string]bool)
	var libs []string
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		entries, err := os.ReadDir(absDir)
		if err != nil {
			return nil, fmt.Errorf("reading search directory: %w", err)
		}

		var local gitignore.IgnoreMatcher
		if opts.LibraryName == "" {
			local = loadLocalIgnore(absDir, logger)
		}

		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			path := filepath.Join(absDir, name)

			if opts.LibraryName != "" {
				if strings.EqualFold(name, opts.LibraryName) {
					logger.Debug("library found", "path", path)
					return []string{path}, nil
				}
				continue
			}

			if !hasExtension(name, exts) {
				continue
			}
			if opts.Ignore.Match(name) || (local != nil && local.Match(path, false)) {
				logger.Debug("library ignored", "path", path)
				continue
			}
			libs = append(libs, path)
		}
	}

	logger.Info("libraries discovered", "dirs", len(dirs), "libraries", len(libs))
	return libs, nil
}

// SplitPaths splits a ;-separated search path list, dropping empty elements.
func SplitPaths(s string) []string {
	var dirs []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			dirs = append(dirs, p)
		}
	}
	return dirs
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func loadLocalIgnore(dir string, logger *slog.Logger) gitignore.IgnoreMatcher {
	path := filepath.Join(dir, LocalIgnoreFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	m, err := gitignore.NewGitIgnore(path)
	if err != nil {
		logger.Warn("could not parse ignore file", "path", path, "error", err)
		return nil
	}
	return m
}
