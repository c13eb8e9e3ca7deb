package record

import "github.com/pkg/errors"

// Error kinds from the error handling design (spec §7), scoped to the
// record layer.
var (
	ErrRecordTruncated     = errors.New("record: header length exceeds file")
	ErrRecordCrcMismatch   = errors.New("record: payload crc does not match header crc")
	ErrUnrecognizedRecord  = errors.New("record: unrecognized record signature")
	ErrUnknownRevisionAction = errors.New("record: unknown revision action code")
	ErrWrongRecordClass    = errors.New("record: offset resolves to unexpected record class")
)
