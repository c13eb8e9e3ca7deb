// Package itemfile implements the item-file layer (component design
// §4.8/§4.9): project items fold their revision log forward into a
// sorted directory state, while file items walk their revision log
// backward driving reverse delta reconstruction.
package itemfile

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"

	"github.com/vsscue/vsscue/record"
)

// FullName is a project's view of one child: its display name, on-disk
// identity, and the locale-lowercased sort key derived from it.
type FullName struct {
	LogicalName  record.VssName
	PhysicalName record.PhysicalName
	IndexingName string
	LongName     string
}

// ComputeIndexingName lowercases name rune by rune with unicode.ToLower
// and re-encodes the result through cp, so that the returned bytes
// compare bytewise against other indexing names in the same codepage.
// The lowercase mapping is Unicode's simple per-rune mapping; it is not
// taken from the code page's own locale tables.
func ComputeIndexingName(longName string, cp encoding.Encoding) (string, error) {
	lowered := strings.Map(unicode.ToLower, longName)
	if cp == nil {
		return lowered, nil
	}
	encoded, err := cp.NewEncoder().String(lowered)
	if err != nil {
		return "", err
	}
	return encoded, nil
}

// less implements the (indexing_name, physical_name) sort key from the
// data model: bytewise compare on indexing name, physical name as the
// tie-breaker.
func less(a, b FullName) bool {
	if a.IndexingName != b.IndexingName {
		return a.IndexingName < b.IndexingName
	}
	return a.PhysicalName < b.PhysicalName
}

// DirectoryState is the ordered array S a project item file maintains,
// built by forward-folding project revisions (invariant 6).
type DirectoryState struct {
	entries []FullName
}

// Len reports the number of live children.
func (s *DirectoryState) Len() int { return len(s.entries) }

// At returns the entry at index i.
func (s *DirectoryState) At(i int) FullName { return s.entries[i] }

// Entries returns the live children in sort order (no copy; callers
// must not mutate).
func (s *DirectoryState) Entries() []FullName { return s.entries }

// FindInsertionIndex returns the position at which fn belongs, per
// find_item_index's "insertion point on miss" contract -- used both by
// Insert and by callers that want idempotent placement without
// mutating S.
func (s *DirectoryState) FindInsertionIndex(fn FullName) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return !less(s.entries[i], fn)
	})
}

// FindItemIndex returns the index of the live child matching
// indexingName (and physical, when physical is non-empty -- otherwise
// the first match on indexing name wins), or the insertion point on a
// miss, matching find_item_index's contract.
func (s *DirectoryState) FindItemIndex(indexingName string, physical record.PhysicalName) int {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].IndexingName >= indexingName
	})
	if physical == "" {
		return i
	}
	for ; i < len(s.entries) && s.entries[i].IndexingName == indexingName; i++ {
		if s.entries[i].PhysicalName >= physical {
			return i
		}
	}
	return i
}

// FindItem returns the index of the live child matching indexingName
// (and physical, when given), or -1 on a miss, matching find_item's
// contract (distinct from FindItemIndex's insertion-point-on-miss).
func (s *DirectoryState) FindItem(indexingName string, physical record.PhysicalName) int {
	i := s.FindItemIndex(indexingName, physical)
	if i >= len(s.entries) || s.entries[i].IndexingName != indexingName {
		return -1
	}
	if physical != "" && s.entries[i].PhysicalName != physical {
		return -1
	}
	return i
}

// Insert places fn at its sorted position and returns the index it now
// occupies.
func (s *DirectoryState) Insert(fn FullName) int {
	i := s.FindInsertionIndex(fn)
	s.entries = append(s.entries, FullName{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = fn
	return i
}

// RemoveAt deletes the entry at index i. A negative i is a no-op,
// letting callers pass a failed find directly.
func (s *DirectoryState) RemoveAt(i int) {
	if i < 0 || i >= len(s.entries) {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
}
