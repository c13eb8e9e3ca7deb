package record

import "github.com/vsscue/vsscue/reader"

// HeaderSize is the fixed size of a record header: length(4) + signature(2) + crc(2).
const HeaderSize = 8

// Header is the common 8-byte prefix shared by every record.
type Header struct {
	Length    uint32
	Signature Signature
	CRC       uint16
}

// ReadHeader parses the 8-byte header at offset within file (a reader
// spanning the whole record file) and returns it along with a reader
// scoped exactly to the record's payload ([offset+8, offset+8+Length)).
//
// CRC validation follows the rule in the design: the payload CRC-32
// fold is checked against the header CRC unless the signature is the
// comment signature or the header CRC is zero (comment records always
// store zero and are exempt by construction).
func ReadHeader(file *reader.Reader, offset int) (Header, *reader.Reader, error) {
	hdrR, err := file.Clone(offset, HeaderSize)
	if err != nil {
		return Header{}, nil, ErrRecordTruncated
	}
	length, err := hdrR.ReadUint32(true)
	if err != nil {
		return Header{}, nil, ErrRecordTruncated
	}
	sigBytes, err := hdrR.ReadBytes(2)
	if err != nil {
		return Header{}, nil, ErrRecordTruncated
	}
	crc, err := hdrR.ReadUint16(true)
	if err != nil {
		return Header{}, nil, ErrRecordTruncated
	}
	sig := signatureFromDisk([2]byte{sigBytes[0], sigBytes[1]})

	payload, err := file.Clone(offset+HeaderSize, int(length))
	if err != nil {
		return Header{}, nil, ErrRecordTruncated
	}
	hdr := Header{Length: length, Signature: sig, CRC: crc}

	if sig != SigComment && crc != 0 {
		sum, err := payload.CRC16(-1)
		if err != nil {
			return hdr, nil, ErrRecordTruncated
		}
		if sum != crc {
			return hdr, nil, ErrRecordCrcMismatch
		}
	}
	return hdr, payload, nil
}

// NextOffset returns the absolute file offset of the record following
// the one described by hdr, starting at startOffset.
func NextOffset(startOffset int, hdr Header) int {
	return startOffset + HeaderSize + int(hdr.Length)
}
