package recfile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vsscue/vsscue/reader"
	"github.com/vsscue/vsscue/record"
)

func appendRecord(buf *bytes.Buffer, sig record.Signature, payload []byte) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	buf.Write(lenBuf[:])
	// reversed signature bytes
	buf.WriteByte(sig[1])
	buf.WriteByte(sig[0])
	if sig == record.SigComment {
		var z [2]byte
		buf.Write(z[:])
	} else {
		var crcBuf [2]byte
		binary.LittleEndian.PutUint16(crcBuf[:], reader.FoldCRC32(payload))
		buf.Write(crcBuf[:])
	}
	buf.Write(payload)
}

func TestReadAllRecordsPopulatesCacheInOrder(t *testing.T) {
	var buf bytes.Buffer
	appendRecord(&buf, record.SigComment, []byte("first\x00"))
	appendRecord(&buf, record.SigComment, []byte("second\x00"))
	f := New("test", buf.Bytes(), nil, record.Options{})
	recs, err := f.ReadAllRecords(0, -1, false)
	assert.NoError(t, err)
	assert.Len(t, recs, 2)
	c1 := recs[0].Value.(*record.CommentRecord)
	c2 := recs[1].Value.(*record.CommentRecord)
	assert.Equal(t, "first", c1.Text)
	assert.Equal(t, "second", c2.Text)
}

func TestGetRecordMatchesReadAllRecordsIdentity(t *testing.T) {
	var buf bytes.Buffer
	appendRecord(&buf, record.SigComment, []byte("only\x00"))
	f := New("test", buf.Bytes(), nil, record.Options{})
	all, err := f.ReadAllRecords(0, -1, false)
	assert.NoError(t, err)
	got, err := f.GetRecord(0, nil)
	assert.NoError(t, err)
	assert.Same(t, all[0], got)
}

func TestGetRecordWrongClassFails(t *testing.T) {
	var buf bytes.Buffer
	appendRecord(&buf, record.SigComment, []byte("only\x00"))
	f := New("test", buf.Bytes(), nil, record.Options{})
	_, err := f.ReadAllRecords(0, -1, false)
	assert.NoError(t, err)
	wantClass := record.ClassDelta
	_, err = f.GetRecord(0, &wantClass)
	assert.ErrorIs(t, err, record.ErrWrongRecordClass)
}

func TestReadAllRecordsSkipsUnrecognizedWhenIgnored(t *testing.T) {
	var buf bytes.Buffer
	appendRecord(&buf, record.Signature("ZZ"), []byte("mystery"))
	appendRecord(&buf, record.SigComment, []byte("visible\x00"))
	f := New("test", buf.Bytes(), nil, record.Options{})
	recs, err := f.ReadAllRecords(0, -1, true)
	assert.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, "visible", recs[0].Value.(*record.CommentRecord).Text)
}

func TestReadAllRecordsFailsOnUnrecognizedWhenStrict(t *testing.T) {
	var buf bytes.Buffer
	appendRecord(&buf, record.Signature("ZZ"), []byte("mystery"))
	f := New("test", buf.Bytes(), nil, record.Options{})
	_, err := f.ReadAllRecords(0, -1, false)
	assert.ErrorIs(t, err, record.ErrUnrecognizedRecord)
}
