package record

import "github.com/vsscue/vsscue/reader"

// DeltaOpCode selects the behavior of one delta operation. This mapping
// is the one spec §9's open question asks implementations to pin and
// document: 0=WriteLog, 1=WriteSuccessor, 2=Stop.
type DeltaOpCode uint16

const (
	OpWriteLog       DeltaOpCode = 0
	OpWriteSuccessor DeltaOpCode = 1
	OpStop           DeltaOpCode = 2
)

// DeltaOp is one copy instruction in a delta chain.
type DeltaOp struct {
	Op     DeltaOpCode
	Size   uint32
	Offset uint32
}

// DeltaRecord is a sequence of delta operations (terminated by a Stop
// op) plus the inline "log" data region that OpWriteLog operations copy
// from. The engine that applies a DeltaRecord to successor content
// lives in package delta.
type DeltaRecord struct {
	Ops []DeltaOp
	Log []byte
}

// DecodeDelta reads the op-code/size/offset triples until (and
// including) a Stop op, then treats the remainder of the payload as the
// inline log data region.
func DecodeDelta(payload *reader.Reader) (*DeltaRecord, error) {
	var ops []DeltaOp
	for {
		opCode, err := payload.ReadUint16(true)
		if err != nil {
			return nil, err
		}
		size, err := payload.ReadUint32(true)
		if err != nil {
			return nil, err
		}
		offset, err := payload.ReadUint32(true)
		if err != nil {
			return nil, err
		}
		op := DeltaOp{Op: DeltaOpCode(opCode), Size: size, Offset: offset}
		ops = append(ops, op)
		if op.Op == OpStop {
			break
		}
	}
	log, err := payload.ReadBytes(payload.Remaining())
	if err != nil {
		return nil, err
	}
	return &DeltaRecord{Ops: ops, Log: log}, nil
}
