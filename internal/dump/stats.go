package dump

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// LibraryStat is the number of lines emitted for one library.
type LibraryStat struct {
	Library string
	Lines   int
}

// Stats collects per-library line counts. It is safe for concurrent use.
type Stats struct {
	mu    sync.Mutex
	items []LibraryStat
}

// Add records the count for a library.
func (s *Stats) Add(library string, lines int) {
	s.mu.Lock()
	s.items = append(s.items, LibraryStat{Library: library, Lines: lines})
	s.mu.Unlock()
}

// Sorted returns the counts ascending by line count, then by library name.
func (s *Stats) Sorted() []LibraryStat {
	s.mu.Lock()
	out := make([]LibraryStat, len(s.items))
	copy(out, s.items)
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Lines != out[j].Lines {
			return out[i].Lines < out[j].Lines
		}
		return out[i].Library < out[j].Library
	})
	return out
}

// WriteTo prints "<library> : <count>" lines in Sorted order.
func (s *Stats) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, st := range s.Sorted() {
		written, err := fmt.Fprintf(w, "%s : %d\n", st.Library, st.Lines)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
