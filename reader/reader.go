// Package reader implements the bounds-checked, endian-typed cursor that
// every other package in this module reads VSS database bytes through.
//
// A Reader never copies the backing buffer: Clone hands out an
// independent cursor over a sub-range of the same []byte, so a whole
// record file can be mapped into memory once and sliced arbitrarily
// many times at zero extra cost.
package reader

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Sentinel errors, matching the propagation policy in the error
// handling design: callers can errors.Is against these and, under
// --debug logging, print the attached stack via %+v.
var (
	ErrEndOfBuffer   = errors.New("reader: read past end of buffer")
	ErrUnalignedRead = errors.New("reader: unaligned typed read")
)

// Reader is a cursor over an immutable byte range. The zero value is
// not usable; construct with New.
type Reader struct {
	buffer []byte
	begin  int
	end    int
	cursor int
	enc    encoding.Encoding // nil means decode as UTF-8
}

// New wraps buf in a Reader spanning the whole buffer. enc may be nil
// to decode strings as UTF-8 (used by test fixtures); otherwise it is
// typically charmap.Windows1252 for a real VSS database.
func New(buf []byte, enc encoding.Encoding) *Reader {
	return &Reader{buffer: buf, begin: 0, end: len(buf), cursor: 0, enc: enc}
}

// Len returns the size of the slice this reader was constructed over.
func (r *Reader) Len() int { return r.end - r.begin }

// Pos returns the cursor position relative to the start of this
// reader's slice.
func (r *Reader) Pos() int { return r.cursor - r.begin }

// Remaining returns the number of unread bytes in this reader's slice.
func (r *Reader) Remaining() int { return r.end - r.cursor }

// Bytes returns the full backing slice for this reader (no copy).
func (r *Reader) Bytes() []byte { return r.buffer[r.begin:r.end] }

// Clone produces an independent cursor over a sub-range of the parent's
// slice, starting additionalOffset bytes into the parent (relative to
// the parent's begin, not its current cursor) and running length bytes
// -- or to the parent's end if length < 0. It fails with ErrEndOfBuffer
// if the requested sub-range does not lie entirely within the parent.
func (r *Reader) Clone(additionalOffset int, length int) (*Reader, error) {
	start := r.begin + additionalOffset
	var stop int
	if length < 0 {
		stop = r.end
	} else {
		stop = start + length
	}
	if start < r.begin || stop > r.end || start > stop {
		return nil, ErrEndOfBuffer
	}
	return &Reader{buffer: r.buffer, begin: start, end: stop, cursor: start, enc: r.enc}, nil
}

func (r *Reader) checkAligned(size int, unaligned bool) error {
	if !unaligned && r.Pos()%size != 0 {
		return ErrUnalignedRead
	}
	return nil
}

func (r *Reader) checkBounds(n int) error {
	if r.cursor+n > r.end || n < 0 {
		return ErrEndOfBuffer
	}
	return nil
}

// ReadUint16 reads a little-endian uint16 and advances the cursor by 2.
// With unaligned=false (the default callers should use) the current
// position must be a multiple of 2 or ErrUnalignedRead is returned and
// the cursor is left unchanged.
func (r *Reader) ReadUint16(unaligned bool) (uint16, error) {
	if err := r.checkAligned(2, unaligned); err != nil {
		return 0, err
	}
	if err := r.checkBounds(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buffer[r.cursor : r.cursor+2])
	r.cursor += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32 and advances the cursor by 4.
func (r *Reader) ReadUint32(unaligned bool) (uint32, error) {
	if err := r.checkAligned(4, unaligned); err != nil {
		return 0, err
	}
	if err := r.checkBounds(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buffer[r.cursor : r.cursor+4])
	r.cursor += 4
	return v, nil
}

// ReadInt16 reads a little-endian signed int16.
func (r *Reader) ReadInt16(unaligned bool) (int16, error) {
	v, err := r.ReadUint16(unaligned)
	return int16(v), err
}

// ReadInt32 reads a little-endian signed int32.
func (r *Reader) ReadInt32(unaligned bool) (int32, error) {
	v, err := r.ReadUint32(unaligned)
	return int32(v), err
}

// ReadBytes reads n bytes starting at the cursor and advances past them.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.checkBounds(n); err != nil {
		return nil, err
	}
	b := r.buffer[r.cursor : r.cursor+n]
	r.cursor += n
	return b, nil
}

// ReadBytesAt reads n bytes at absolute-within-slice offset off without
// advancing the cursor.
func (r *Reader) ReadBytesAt(off, n int) ([]byte, error) {
	start := r.begin + off
	if start < r.begin || start+n > r.end || n < 0 {
		return nil, ErrEndOfBuffer
	}
	return r.buffer[start : start+n], nil
}

// ReadByteString reads up to max bytes (or the remainder of the slice
// if max < 0), truncates at the first zero byte, and returns the bytes
// before the zero. The cursor always advances by the full requested
// max (or remainder), regardless of where the terminator fell, so that
// fixed-size name fields are fully consumed.
func (r *Reader) ReadByteString(max int) ([]byte, error) {
	n := max
	if n < 0 {
		n = r.Remaining()
	}
	raw, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	if i := indexZero(raw); i >= 0 {
		return raw[:i], nil
	}
	return raw, nil
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

// ReadString reads up to max bytes as ReadByteString does, then decodes
// the result via this reader's configured encoding (nil means UTF-8).
func (r *Reader) ReadString(max int) (string, error) {
	raw, err := r.ReadByteString(max)
	if err != nil {
		return "", err
	}
	return Decode(raw, r.enc)
}

// Decode decodes raw bytes through enc, or as UTF-8 directly if enc is
// nil. Exposed so callers holding bytes out-of-band (e.g. name file
// entries) can decode with the same rule ReadString uses.
func Decode(raw []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrap(err, "reader: decode string")
	}
	return string(decoded), nil
}

// Windows1252 is the default single-byte code page used when a VSS
// database declares no explicit encoding ("mbcs").
var Windows1252 = charmap.Windows1252

// Skip advances the cursor by n bytes without returning them.
func (r *Reader) Skip(n int) error {
	if err := r.checkBounds(n); err != nil {
		return err
	}
	r.cursor += n
	return nil
}

// CRC16 computes CRC-32 over length bytes starting at the cursor (or
// the remainder if length < 0) and folds it to 16 bits by XORing the
// high and low halves, per the VSS record CRC definition. It does not
// advance the cursor.
func (r *Reader) CRC16(length int) (uint16, error) {
	n := length
	if n < 0 {
		n = r.Remaining()
	}
	raw, err := r.ReadBytesAt(r.cursor-r.begin, n)
	if err != nil {
		return 0, err
	}
	return FoldCRC32(raw), nil
}

// FoldCRC32 computes CRC-32(IEEE) of data and XOR-folds it into 16
// bits: (crc >> 16) ^ (crc & 0xFFFF).
func FoldCRC32(data []byte) uint16 {
	crc := crc32.ChecksumIEEE(data)
	return uint16(crc>>16) ^ uint16(crc&0xFFFF)
}

// Unpack performs a sequence of primitive reads described by a compact
// format string and advances the cursor by their total size. Each
// character selects one field, always unaligned (format descriptors
// are used for tightly packed on-disk structs where alignment doesn't
// apply):
//
//	'W' uint16   'w' int16   'D' uint32   'd' int32
//
// The return slice holds one entry per format character, in order.
func (r *Reader) Unpack(format string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(format))
	for _, f := range format {
		switch f {
		case 'W':
			v, err := r.ReadUint16(true)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case 'w':
			v, err := r.ReadInt16(true)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case 'D':
			v, err := r.ReadUint32(true)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case 'd':
			v, err := r.ReadInt32(true)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		default:
			return nil, errors.Errorf("reader: unknown unpack format verb %q", f)
		}
	}
	return out, nil
}
