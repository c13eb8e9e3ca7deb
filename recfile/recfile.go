// Package recfile implements the record file layer (component design
// §4.5): a whole on-disk file loaded into memory once, read either
// sequentially or by offset, with records memoized by offset so that
// get_record and read_all_records agree on object identity.
package recfile

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"

	"github.com/vsscue/vsscue/reader"
	"github.com/vsscue/vsscue/record"
)

// File is a fully loaded record file plus its offset-keyed record cache.
type File struct {
	Path   string
	reader *reader.Reader
	opts   record.Options
	cache  map[int]*record.Record
}

// Open reads path fully into memory and wraps it in a File using enc
// (nil for UTF-8) to decode embedded strings.
func Open(path string, enc encoding.Encoding, opts record.Options) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrFileNotFound, "%s: %v", path, err)
	}
	return New(path, data, enc, opts), nil
}

// New wraps data (already read into memory) in a File.
func New(path string, data []byte, enc encoding.Encoding, opts record.Options) *File {
	return &File{
		Path:   path,
		reader: reader.New(data, enc),
		opts:   opts,
		cache:  make(map[int]*record.Record),
	}
}

// ErrFileNotFound mirrors the VssFileNotFound error kind for the
// specific case of a missing on-disk record file.
var ErrFileNotFound = errors.New("recfile: file not found")

// Len returns the size of the underlying file in bytes.
func (f *File) Len() int { return f.reader.Len() }

// ReadRecord parses and caches the single record at offset. If the
// signature is unrecognized and ignoreUnknown is true, it returns
// (nil, nil) -- a deliberate "skip" result distinct from an error --
// so the caller can advance past it; the header itself is always valid
// at this point (truncation/crc failures still propagate as errors).
func (f *File) ReadRecord(offset int, ignoreUnknown bool) (*record.Record, error) {
	if cached, ok := f.cache[offset]; ok {
		return cached, nil
	}
	hdr, payload, err := record.ReadHeader(f.reader, offset)
	if err != nil {
		return nil, err
	}
	rec, err := record.Decode(hdr, payload, f.opts)
	if err != nil {
		if ignoreUnknown && errors.Is(err, record.ErrUnrecognizedRecord) {
			return nil, nil
		}
		return nil, err
	}
	f.cache[offset] = rec
	return rec, nil
}

// ReadAllRecords walks [begin, end) in file order (end < 0 means "to
// end of file"), populating the offset cache and returning every
// recognized record encountered in order. Unrecognized signatures are
// skipped when ignoreUnknown is true; otherwise the first one aborts
// the walk.
func (f *File) ReadAllRecords(begin, end int, ignoreUnknown bool) ([]*record.Record, error) {
	if end < 0 {
		end = f.reader.Len()
	}
	var out []*record.Record
	offset := begin
	for offset < end {
		hdr, payload, err := record.ReadHeader(f.reader, offset)
		if err != nil {
			return out, err
		}
		next := record.NextOffset(offset, hdr)
		rec, err := record.Decode(hdr, payload, f.opts)
		if err != nil {
			if ignoreUnknown && errors.Is(err, record.ErrUnrecognizedRecord) {
				offset = next
				continue
			}
			return out, err
		}
		f.cache[offset] = rec
		out = append(out, rec)
		offset = next
	}
	return out, nil
}

// GetRecord looks up offset in the cache, reading it through on first
// access. If expectedClass is non-nil, it confirms the record matches
// or fails with record.ErrWrongRecordClass.
func (f *File) GetRecord(offset int, expectedClass *record.Class) (*record.Record, error) {
	rec, ok := f.cache[offset]
	if !ok {
		parsed, err := f.ReadRecord(offset, false)
		if err != nil {
			return nil, err
		}
		rec = parsed
	}
	if expectedClass != nil && rec.Class != *expectedClass {
		return nil, record.ErrWrongRecordClass
	}
	return rec, nil
}
