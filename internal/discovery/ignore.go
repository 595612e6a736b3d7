package discovery

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreFileName is the ignore-list looked up beside the executable.
const IgnoreFileName = "asmdump.ignore"

// ErrIgnoreListMissing is returned when a required ignore-list does not exist.
var ErrIgnoreListMissing = errors.New("ignore list not found")

// IgnoreList excludes library filenames from the default scan. A nil list
// ignores nothing.
type IgnoreList struct {
	patterns []*regexp.Regexp
}

// DefaultIgnorePath returns the ignore-list path beside the running executable.
func DefaultIgnorePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), IgnoreFileName), nil
}

// LoadIgnoreList reads one regular expression per non-empty line. A missing
// file yields an empty list unless required is set.
func LoadIgnoreList(path string, required bool) (*IgnoreList, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return nil, fmt.Errorf("%s: %w", path, ErrIgnoreListMissing)
		}
		return &IgnoreList{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ignore list: %w", err)
	}
	defer f.Close()

	list, err := ParseIgnoreList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// ParseIgnoreList parses ignore-list text. Blank lines and lines starting
// with # are skipped.
func ParseIgnoreList(r io.Reader) (*IgnoreList, error) {
	list := &IgnoreList{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		re, err := regexp.Compile(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		list.patterns = append(list.patterns, re)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore list: %w", err)
	}
	return list, nil
}

// Match reports whether filename matches any pattern.
func (l *IgnoreList) Match(filename string) bool {
	if l == nil {
		return false
	}
	for _, re := range l.patterns {
		if re.MatchString(filename) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (l *IgnoreList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.patterns)
}
