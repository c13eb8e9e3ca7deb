package walk

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsscue/vsscue/reader"
	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/vssdb"
)

type fixture struct {
	buf bytes.Buffer
}

func (f *fixture) write(sig record.Signature, payload []byte) int {
	off := f.buf.Len()
	f.buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(payload))))
	f.buf.WriteByte(sig[1])
	f.buf.WriteByte(sig[0])
	f.buf.Write(binary.LittleEndian.AppendUint16(nil, reader.FoldCRC32(payload)))
	f.buf.Write(payload)
	return off
}

func fixed(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func revBase(prevOffset uint32, action record.ActionCode, revNum int32, user string) []byte {
	var b bytes.Buffer
	b.Write(binary.LittleEndian.AppendUint32(nil, prevOffset))
	b.Write(binary.LittleEndian.AppendUint16(nil, uint16(action)))
	b.Write(binary.LittleEndian.AppendUint32(nil, uint32(revNum)))
	b.Write(binary.LittleEndian.AppendUint32(nil, uint32(revNum))) // timestamp increases with rev num
	b.Write(fixed(user, 32))
	b.Write(fixed("", 32))
	b.Write(binary.LittleEndian.AppendUint32(nil, 0))
	b.Write(binary.LittleEndian.AppendUint32(nil, 0))
	b.Write(binary.LittleEndian.AppendUint32(nil, 0))
	b.Write(binary.LittleEndian.AppendUint32(nil, 0))
	return b.Bytes()
}

func vssName(short string) []byte {
	var b bytes.Buffer
	b.Write(binary.LittleEndian.AppendUint16(nil, 0))
	b.Write(fixed(short, record.ShortNameSize))
	b.Write(binary.LittleEndian.AppendUint32(nil, 0))
	return b.Bytes()
}

func itemHeader(isProject bool, latest int32, ext byte, firstRev, lastRev uint32) []byte {
	var flags uint16
	if isProject {
		flags = uint16(record.ItemFlagProject)
	}
	var b bytes.Buffer
	b.Write(binary.LittleEndian.AppendUint16(nil, flags))
	b.Write(binary.LittleEndian.AppendUint32(nil, uint32(latest)))
	b.WriteByte(ext)
	b.WriteByte(0)
	b.Write(binary.LittleEndian.AppendUint32(nil, firstRev))
	b.Write(binary.LittleEndian.AppendUint32(nil, lastRev))
	b.Write(fixed("", 8))
	b.Write(fixed("", 8))
	b.Write(binary.LittleEndian.AppendUint32(nil, 0))
	b.Write(binary.LittleEndian.AppendUint32(nil, 0))
	return b.Bytes()
}

func patchHeader(full []byte, headerOff int, payload []byte) {
	copy(full[headerOff+record.HeaderSize:], payload)
	binary.LittleEndian.PutUint16(full[headerOff+6:headerOff+8], reader.FoldCRC32(payload))
}

func writeDBFile(t *testing.T, root string, physical record.PhysicalName, data []byte) {
	t.Helper()
	dir := filepath.Join(root, "data", physical.Bucket())
	assert.NoError(t, os.MkdirAll(dir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, string(physical)), data, 0o644))
}

func TestWalkMergesProjectAndFileActionsChronologically(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "data", "names.dat"), nil, 0o644))

	// File item "GGGGGGGG": single Create revision at timestamp 1.
	var ff fixture
	fileHeaderOff := ff.write(record.SigHeader, make([]byte, 40))
	fileRevPayload := append(revBase(0, record.ActionCreate, 1, "alice"), append(vssName("FILE.TXT"), fixed("GGGGGGGG", 8)...)...)
	fileRevOff := ff.write(record.SigRevision, fileRevPayload)
	fileFull := ff.buf.Bytes()
	patchHeader(fileFull, fileHeaderOff, itemHeader(false, 1, 'A', uint32(fileRevOff), uint32(fileRevOff)))
	writeDBFile(t, root, "GGGGGGGG", fileFull)
	assert.NoError(t, os.WriteFile(filepath.Join(root, "data", "g", "GGGGGGGG.A"), []byte("hi"), 0o644))

	// Root project "AAAAAAAA": single Create revision (for the file
	// above) at timestamp 2, so project action sorts after the file's.
	var pf fixture
	projHeaderOff := pf.write(record.SigHeader, make([]byte, 40))
	projRevPayload := append(revBase(0, record.ActionCreate, 1, "bob"), append(vssName("FILE.TXT"), fixed("GGGGGGGG", 8)...)...)
	// bump the project revision's timestamp past the file's.
	binary.LittleEndian.PutUint32(projRevPayload[10:14], 2)
	projRevOff := pf.write(record.SigRevision, projRevPayload)
	projFull := pf.buf.Bytes()
	patchHeader(projFull, projHeaderOff, itemHeader(true, 1, 0, uint32(projRevOff), uint32(projRevOff)))
	writeDBFile(t, root, vssdb.RootProjectPhysicalName, projFull)

	db, err := vssdb.Open(root, nil, record.Options{})
	assert.NoError(t, err)

	actions, err := Walk(db, vssdb.RootProjectPhysicalName, nil)
	assert.NoError(t, err)
	assert.Len(t, actions, 2)
	assert.Equal(t, uint32(1), actions[0].Timestamp)
	assert.Equal(t, uint32(2), actions[1].Timestamp)
}
