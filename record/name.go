package record

import (
	"unicode"

	"github.com/vsscue/vsscue/reader"
)

// ShortNameSize is the fixed width of the embedded short name field in
// a vss_name structure, including its zero terminator.
const ShortNameSize = 34

// VssName is the compact embedded name described in the data model: a
// short name authoritative unless NameOffset is non-zero, in which
// case the long name lives in the names overflow file at that offset.
type VssName struct {
	Flags      uint16
	ShortName  string
	NameOffset uint32
}

// HasOverflow reports whether the authoritative name must be resolved
// via the names file rather than taken from ShortName directly.
func (n VssName) HasOverflow() bool { return n.NameOffset != 0 }

// ParseVssName reads a packed vss_name structure (flags, 34-byte short
// name, name offset -- 40 bytes total) from r, which must be positioned
// at its start.
func ParseVssName(r *reader.Reader) (VssName, error) {
	flags, err := r.ReadUint16(true)
	if err != nil {
		return VssName{}, err
	}
	short, err := r.ReadString(ShortNameSize)
	if err != nil {
		return VssName{}, err
	}
	offset, err := r.ReadUint32(true)
	if err != nil {
		return VssName{}, err
	}
	return VssName{Flags: flags, ShortName: short, NameOffset: offset}, nil
}

// PhysicalName is the 8-uppercase-character on-disk identifier of a
// project or file.
type PhysicalName string

// Bucket returns the single-letter bucket subdirectory this physical
// name's data file lives under.
func (p PhysicalName) Bucket() string {
	if p == "" {
		return ""
	}
	return string(unicode.ToLower(rune(p[0])))
}

// ParsePhysicalName reads a fixed 8-byte physical name field.
func ParsePhysicalName(r *reader.Reader) (PhysicalName, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return "", err
	}
	return PhysicalName(b), nil
}

// NameKind selects which string variant a names-file entry holds.
type NameKind uint16

const (
	NameKindShort NameKind = iota
	NameKindLong
	NameKindMSDOS
)

// NameEntry is one (kind, offset) pointer inside a NameRecord, pointing
// to a string held inline in the same record's payload.
type NameEntry struct {
	Kind   NameKind
	Offset uint32
}

// NameRecord is the names.dat overflow record: a short table of
// variant-name pointers into string data held inline in the same
// record, keyed by the offset of this record within names.dat.
type NameRecord struct {
	Entries []NameEntry
	payload *reader.Reader // retained so long-name strings can be read lazily by offset
}

// DecodeName parses a name record payload: a uint16 entry count
// followed by that many (kind uint16, offset uint32) pairs, followed by
// the inline string blob the offsets point into.
func DecodeName(payload *reader.Reader) (*NameRecord, error) {
	count, err := payload.ReadUint16(true)
	if err != nil {
		return nil, err
	}
	entries := make([]NameEntry, 0, count)
	for i := 0; i < int(count); i++ {
		kind, err := payload.ReadUint16(true)
		if err != nil {
			return nil, err
		}
		offset, err := payload.ReadUint32(true)
		if err != nil {
			return nil, err
		}
		entries = append(entries, NameEntry{Kind: NameKind(kind), Offset: offset})
	}
	return &NameRecord{Entries: entries, payload: payload}, nil
}

// String reads the zero-terminated string at the given offset within
// this record's own payload (the inline string blob).
func (n *NameRecord) String(offset uint32) (string, error) {
	sub, err := n.payload.Clone(int(offset), -1)
	if err != nil {
		return "", err
	}
	return sub.ReadString(-1)
}

// Find returns the string for the first entry matching kind, and
// whether one was found.
func (n *NameRecord) Find(kind NameKind) (string, bool) {
	for _, e := range n.Entries {
		if e.Kind == kind {
			s, err := n.String(e.Offset)
			if err != nil {
				return "", false
			}
			return s, true
		}
	}
	return "", false
}
