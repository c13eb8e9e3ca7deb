package record

import "github.com/vsscue/vsscue/reader"

const (
	checkoutProjectPathSize = 260
	checkoutUserSize        = 32
	checkoutMachineSize     = 32
)

// CheckoutRecord describes an outstanding (or historical) checkout of a
// project path by a user.
type CheckoutRecord struct {
	ProjectPath     string
	User            string
	Timestamp       uint32
	RevisionNum     int32
	Machine         string
	CommentOffset   uint32 // 0 if no comment attached
	Flags           uint16
}

// DecodeCheckout reads a checkout record payload.
func DecodeCheckout(payload *reader.Reader) (*CheckoutRecord, error) {
	path, err := payload.ReadString(checkoutProjectPathSize)
	if err != nil {
		return nil, err
	}
	user, err := payload.ReadString(checkoutUserSize)
	if err != nil {
		return nil, err
	}
	ts, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	rev, err := payload.ReadInt32(true)
	if err != nil {
		return nil, err
	}
	machine, err := payload.ReadString(checkoutMachineSize)
	if err != nil {
		return nil, err
	}
	commentOffset, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	flags, err := payload.ReadUint16(true)
	if err != nil {
		return nil, err
	}
	return &CheckoutRecord{
		ProjectPath:   path,
		User:          user,
		Timestamp:     ts,
		RevisionNum:   rev,
		Machine:       machine,
		CommentOffset: commentOffset,
		Flags:         flags,
	}, nil
}
