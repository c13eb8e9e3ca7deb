// Package namefile implements the names-overflow file layer (component
// design §4.6): a thin index over the record file holding names.dat,
// resolving a vss_name's long-name overflow by offset and falling back
// to the embedded short name when there is none.
package namefile

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"

	"github.com/vsscue/vsscue/recfile"
	"github.com/vsscue/vsscue/record"
)

// ErrNoLongName names the "no overflow long name" condition. LongName
// does not return it: it falls back to the embedded short name instead.
var ErrNoLongName = errors.New("namefile: no overflow long name")

// File wraps the record file backing names.dat.
type File struct {
	recfile *recfile.File
}

// Open loads path (conventionally "names.dat") as a names-overflow file.
func Open(path string, enc encoding.Encoding, opts record.Options) (*File, error) {
	rf, err := recfile.Open(path, enc, opts)
	if err != nil {
		return nil, err
	}
	return &File{recfile: rf}, nil
}

// GetNameRecord reads the name record at offset, expecting class Name.
func (f *File) GetNameRecord(offset int) (*record.NameRecord, error) {
	class := record.ClassName
	rec, err := f.recfile.GetRecord(offset, &class)
	if err != nil {
		return nil, err
	}
	return rec.Value.(*record.NameRecord), nil
}

// LongName resolves the full display name for n: if n has an overflow
// offset, the matching names-file record's long-name entry wins;
// otherwise the embedded short name is returned as-is. preferKind lets
// callers ask for NameKindMSDOS instead of the default NameKindLong
// (e.g. when emitting an 8.3-safe export path).
func (f *File) LongName(n record.VssName, preferKind record.NameKind) (string, error) {
	if !n.HasOverflow() {
		return n.ShortName, nil
	}
	rec, err := f.GetNameRecord(int(n.NameOffset))
	if err != nil {
		return "", err
	}
	if s, ok := rec.Find(preferKind); ok {
		return s, nil
	}
	if s, ok := rec.Find(record.NameKindLong); ok {
		return s, nil
	}
	return n.ShortName, nil
}
