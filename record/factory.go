package record

import "github.com/vsscue/vsscue/reader"

// Class identifies the decoded Go type of a record, independent of its
// on-disk signature, so callers can assert an expected class (see
// recfile.GetRecord) without a type switch at every call site.
type Class int

const (
	ClassComment Class = iota
	ClassCheckout
	ClassProject
	ClassBranch
	ClassDelta
	ClassRevision
	ClassName
	ClassItemHeader
)

// Record is a decoded record paired with its header and class tag.
type Record struct {
	Header Header
	Class  Class
	Value  interface{}
}

// Options controls lenient-mode decoding, mirroring the CLI's --lenient
// flag (--ignore-unknown is applied by callers of Decode, see below).
type Options struct {
	// LenientRevisionActions, when true, converts an unknown revision
	// action code into a bare RevisionBase instead of failing.
	LenientRevisionActions bool
}

// Decode dispatches on hdr.Signature to the matching payload decoder.
// An unrecognized signature returns ErrUnrecognizedRecord; callers that
// want to skip such records (ignore_unknown) check for that error
// explicitly rather than relying on a flag threaded through Decode.
func Decode(hdr Header, payload *reader.Reader, opts Options) (*Record, error) {
	switch hdr.Signature {
	case SigHeader:
		v, err := DecodeItemHeader(payload)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassItemHeader, Value: v}, nil
	case SigComment:
		v, err := DecodeComment(payload)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassComment, Value: v}, nil
	case SigCheckout:
		v, err := DecodeCheckout(payload)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassCheckout, Value: v}, nil
	case SigProject:
		v, err := DecodeProject(payload)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassProject, Value: v}, nil
	case SigBranch:
		v, err := DecodeBranch(payload)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassBranch, Value: v}, nil
	case SigDelta:
		v, err := DecodeDelta(payload)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassDelta, Value: v}, nil
	case SigRevision:
		v, err := DecodeRevision(payload, opts.LenientRevisionActions)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassRevision, Value: v}, nil
	case SigName:
		v, err := DecodeName(payload)
		if err != nil {
			return nil, err
		}
		return &Record{Header: hdr, Class: ClassName, Value: v}, nil
	default:
		return nil, ErrUnrecognizedRecord
	}
}
