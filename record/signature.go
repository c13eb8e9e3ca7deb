package record

// Signature is the canonical (non-reversed) two-character record code,
// e.g. "CM" for comment. On disk the two bytes appear in the opposite
// order -- see Header.
type Signature string

const (
	SigHeader    Signature = "SH" // item file header preamble
	SigComment   Signature = "CM" // comment text, never CRC-checked
	SigCheckout  Signature = "CO" // checkout record
	SigProject   Signature = "JP" // file -> containing-project backlink
	SigBranch    Signature = "BF" // branch-parent backlink
	SigDelta     Signature = "FD" // delta operation chain
	SigRevision  Signature = "EL" // a single revision log entry
	SigName      Signature = "NM" // an entry in the names overflow file
)

// reverse returns the on-disk byte order for a canonical signature.
func (s Signature) reverse() [2]byte {
	return [2]byte{s[1], s[0]}
}

// signatureFromDisk reverses the two bytes as stored on disk back into
// the canonical, C-literal reading order.
func signatureFromDisk(b [2]byte) Signature {
	return Signature([]byte{b[1], b[0]})
}
