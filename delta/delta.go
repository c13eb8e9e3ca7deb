// Package delta implements the reverse delta reconstruction engine
// (component design §4.4): given the later revision's content and a
// decoded delta record, it produces the content of the prior revision.
package delta

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/vsscue/vsscue/record"
)

// ErrOpOutOfBounds is returned when a WriteLog or WriteSuccessor
// operation's [offset, offset+size) range falls outside its source
// region.
var ErrOpOutOfBounds = errors.New("delta: operation reads out of bounds")

// Apply replays rec's operations against successor (the later,
// known-good content) and returns the reconstructed prior content.
// Operations run in order until a Stop op terminates the sequence;
// WriteLog copies from rec.Log, WriteSuccessor copies from successor.
func Apply(rec *record.DeltaRecord, successor []byte) ([]byte, error) {
	var out bytes.Buffer
	for _, op := range rec.Ops {
		switch op.Op {
		case record.OpWriteLog:
			start, end := int(op.Offset), int(op.Offset)+int(op.Size)
			if start < 0 || end > len(rec.Log) {
				return nil, ErrOpOutOfBounds
			}
			out.Write(rec.Log[start:end])
		case record.OpWriteSuccessor:
			start, end := int(op.Offset), int(op.Offset)+int(op.Size)
			if start < 0 || end > len(successor) {
				return nil, ErrOpOutOfBounds
			}
			out.Write(successor[start:end])
		case record.OpStop:
			return out.Bytes(), nil
		default:
			return nil, errors.Errorf("delta: unknown op code %d", op.Op)
		}
	}
	// A well-formed delta record always ends in Stop; reaching the end
	// of Ops without one means the record was truncated.
	return out.Bytes(), nil
}
