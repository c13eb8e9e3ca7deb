package revision

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsscue/vsscue/itemfile"
	"github.com/vsscue/vsscue/reader"
	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/vssdb"
)

func TestActionNameCoversCheckinAndDestroy(t *testing.T) {
	assert.Equal(t, "checkin", actionName(record.ActionCheckinFile))
	assert.Equal(t, "destroy", actionName(record.ActionDestroyFile))
	assert.Equal(t, "destroy", actionName(record.ActionDestroyProject))
	assert.Equal(t, "move-from", actionName(record.ActionMoveFrom))
}

func TestDescribeFormatsNameAndBasePath(t *testing.T) {
	a := &Action{Extra: "checkin", Name: "readme.txt", BasePath: "$/proj", User: "alice", Version: 3}
	assert.Equal(t, "checkin readme.txt ($/proj) by alice v3", describe(a))
}

func TestDescribeFallsBackWithoutName(t *testing.T) {
	a := &Action{Extra: "label", User: "bob", Version: 1}
	assert.Equal(t, "label by bob v1", describe(a))
}

func TestClassifyBinaryTrustsFlagWhenSet(t *testing.T) {
	assert.True(t, classifyBinary([]byte("plain text"), true))
}

func TestClassifyBinaryKeepsFlagWhenContentUnrecognized(t *testing.T) {
	assert.False(t, classifyBinary([]byte("plain text content"), false))
}

// buildSingleCreateFileItem writes a minimal one-revision file item
// (Create only, no checkin) whose comment offset points nowhere (0),
// exercising NewFileAction's plain path without delta reconstruction.
func buildSingleCreateFileItem(t *testing.T, root string, physical record.PhysicalName, latest string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "data", "names.dat"), nil, 0o644))

	var buf bytes.Buffer
	writeRecord := func(sig record.Signature, payload []byte) int {
		off := buf.Len()
		buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(payload))))
		buf.WriteByte(sig[1])
		buf.WriteByte(sig[0])
		buf.Write(binary.LittleEndian.AppendUint16(nil, reader.FoldCRC32(payload)))
		buf.Write(payload)
		return off
	}
	fixed := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}

	headerOff := writeRecord(record.SigHeader, make([]byte, 40))

	var revPayload bytes.Buffer
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, 0))                              // prevRevOffset
	revPayload.Write(binary.LittleEndian.AppendUint16(nil, uint16(record.ActionCreate)))     // action
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, uint32(1)))                       // rev num
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, 0))                               // timestamp
	revPayload.Write(fixed("alice", 32))
	revPayload.Write(fixed("", 32))
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, 0)) // comment offset
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, 0))
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, 0))
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, 0))
	revPayload.Write(binary.LittleEndian.AppendUint16(nil, 0)) // vss_name flags
	revPayload.Write(fixed("FILE.TXT", record.ShortNameSize))
	revPayload.Write(binary.LittleEndian.AppendUint32(nil, 0)) // name offset
	revPayload.Write(fixed(string(physical), 8))
	revOff := writeRecord(record.SigRevision, revPayload.Bytes())

	full := buf.Bytes()
	hdrPayload := func() []byte {
		var b bytes.Buffer
		b.Write(binary.LittleEndian.AppendUint16(nil, 0)) // not a project
		b.Write(binary.LittleEndian.AppendUint32(nil, 1))  // latest rev
		b.WriteByte('A')
		b.WriteByte(0)
		b.Write(binary.LittleEndian.AppendUint32(nil, uint32(revOff)))
		b.Write(binary.LittleEndian.AppendUint32(nil, uint32(revOff)))
		b.Write(fixed("", 8))
		b.Write(fixed("", 8))
		b.Write(binary.LittleEndian.AppendUint32(nil, 0))
		b.Write(binary.LittleEndian.AppendUint32(nil, 0))
		return b.Bytes()
	}()
	copy(full[headerOff+record.HeaderSize:], hdrPayload)
	binary.LittleEndian.PutUint16(full[headerOff+6:headerOff+8], reader.FoldCRC32(hdrPayload))

	bucket := physical.Bucket()
	dir := filepath.Join(root, "data", bucket)
	assert.NoError(t, os.MkdirAll(dir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, string(physical)), full, 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, string(physical)+".A"), []byte(latest), 0o644))
}

func TestNewFileActionForCreateCarriesContent(t *testing.T) {
	root := t.TempDir()
	buildSingleCreateFileItem(t, root, "GGGGGGGG", "contents at creation")

	db, err := vssdb.Open(root, nil, record.Options{})
	assert.NoError(t, err)
	fi, err := itemfile.OpenFile(db, "GGGGGGGG", nil)
	assert.NoError(t, err)
	rf, err := db.OpenRecordsFile("GGGGGGGG")
	assert.NoError(t, err)

	assert.Len(t, fi.Revisions, 1)
	a, err := NewFileAction(db, rf, fi, fi.Revisions[0])
	assert.NoError(t, err)
	assert.Equal(t, "create", a.Extra)
	assert.Equal(t, "FILE.TXT", a.Name)
	assert.Equal(t, "contents at creation", string(a.Content))
	assert.Empty(t, a.Warnings)
	assert.Contains(t, a.Description, "create FILE.TXT by alice v1")
}
