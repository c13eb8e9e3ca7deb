package record

import "github.com/vsscue/vsscue/reader"

// CommentRecord holds a zero-terminated comment string. Comment
// payloads are never CRC-checked (see ReadHeader).
type CommentRecord struct {
	Text string
}

// DecodeComment reads a comment record: the entire remaining payload is
// a zero-terminated byte string.
func DecodeComment(payload *reader.Reader) (*CommentRecord, error) {
	text, err := payload.ReadString(-1)
	if err != nil {
		return nil, err
	}
	return &CommentRecord{Text: text}, nil
}
