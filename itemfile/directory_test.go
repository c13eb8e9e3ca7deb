package itemfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsscue/vsscue/record"
)

func fn(indexing string, physical record.PhysicalName) FullName {
	return FullName{IndexingName: indexing, PhysicalName: physical, LongName: indexing}
}

func TestInsertKeepsSortOrder(t *testing.T) {
	var s DirectoryState
	s.Insert(fn("banana", "BBBBBBBB"))
	s.Insert(fn("apple", "AAAAAAAA"))
	s.Insert(fn("cherry", "CCCCCCCC"))
	assert.Equal(t, []string{"apple", "banana", "cherry"}, indexNames(&s))
}

func indexNames(s *DirectoryState) []string {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = s.At(i).IndexingName
	}
	return out
}

func TestScenarioS2DeleteThenRecover(t *testing.T) {
	var s DirectoryState
	s.Insert(fn("a", "AAAAAAAA"))
	s.Insert(fn("b", "BBBBBBBB"))
	s.Insert(fn("c", "CCCCCCCC"))

	idx := s.FindItem("b", "BBBBBBBB")
	assert.GreaterOrEqual(t, idx, 0)
	s.RemoveAt(idx)
	assert.Equal(t, -1, s.FindItem("b", "BBBBBBBB"))

	s.Insert(fn("b", "BBBBBBBB"))
	assert.Equal(t, []string{"a", "b", "c"}, indexNames(&s))
}

func TestScenarioS3RenameAcrossSortBoundary(t *testing.T) {
	var s DirectoryState
	s.Insert(fn("apple", "AAAAAAAA"))
	s.Insert(fn("banana", "BBBBBBBB"))

	idx := s.FindItem("apple", "AAAAAAAA")
	assert.GreaterOrEqual(t, idx, 0)
	physical := s.At(idx).PhysicalName
	s.RemoveAt(idx)
	s.Insert(fn("zebra", physical))

	assert.Equal(t, []string{"banana", "zebra"}, indexNames(&s))
	assert.Equal(t, record.PhysicalName("AAAAAAAA"), s.At(1).PhysicalName)
}

func TestFindInsertionIndexIsIdempotentOnMiss(t *testing.T) {
	var s DirectoryState
	s.Insert(fn("banana", "BBBBBBBB"))
	idx := s.FindInsertionIndex(fn("apple", "AAAAAAAA"))
	assert.Equal(t, 0, idx)
}

func TestComputeIndexingNameLowercasesWithoutCodepage(t *testing.T) {
	got, err := ComputeIndexingName("ReadMe.TXT", nil)
	assert.NoError(t, err)
	assert.Equal(t, "readme.txt", got)
}
