package namefile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsscue/vsscue/reader"
	"github.com/vsscue/vsscue/recfile"
	"github.com/vsscue/vsscue/record"
)

func buildNameFile(entries map[record.NameKind]string) []byte {
	var buf bytes.Buffer
	header := make([]byte, 0)
	header = binary.LittleEndian.AppendUint16(header, uint16(len(entries)))
	headerSize := 2 + 6*len(entries)
	blob := make([]byte, 0)
	for kind, s := range entries {
		header = binary.LittleEndian.AppendUint16(header, uint16(kind))
		header = binary.LittleEndian.AppendUint32(header, uint32(headerSize+len(blob)))
		blob = append(blob, append([]byte(s), 0)...)
	}
	payload := append(header, blob...)

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	buf.Write(lenBuf[:])
	buf.WriteByte('M')
	buf.WriteByte('N')
	var crcBuf [2]byte
	binary.LittleEndian.PutUint16(crcBuf[:], reader.FoldCRC32(payload))
	buf.Write(crcBuf[:])
	buf.Write(payload)
	return buf.Bytes()
}

func TestLongNameResolvesOverflow(t *testing.T) {
	// A real names.dat always has a non-empty header before its first
	// record, so offset 0 is reserved as the "no overflow" sentinel;
	// pad the fixture so the record sits at a non-zero offset.
	pad := make([]byte, 16)
	rec := buildNameFile(map[record.NameKind]string{record.NameKindLong: "a very long file name.txt"})
	data := append(pad, rec...)
	rf := recfile.New("names.dat", data, nil, record.Options{})
	f := &File{recfile: rf}
	n := record.VssName{ShortName: "AVERYL~1.TXT", NameOffset: uint32(len(pad))}
	got, err := f.LongName(n, record.NameKindLong)
	assert.NoError(t, err)
	assert.Equal(t, "a very long file name.txt", got)
}

func TestLongNameFallsBackToShortWhenNoOverflow(t *testing.T) {
	n := record.VssName{ShortName: "readme.txt", NameOffset: 0}
	f := &File{recfile: recfile.New("names.dat", nil, nil, record.Options{})}
	got, err := f.LongName(n, record.NameKindLong)
	assert.NoError(t, err)
	assert.Equal(t, "readme.txt", got)
}
