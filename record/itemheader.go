package record

import "github.com/vsscue/vsscue/reader"

// ItemTypeFlags captures the header flag bits the design calls "item-type
// flags": whether this item file is a project, plus the common
// per-file state flags (locked, binary, latest-only, shared, checked
// out) that apply when it is not.
type ItemTypeFlags uint16

const (
	ItemFlagProject    ItemTypeFlags = 1 << 0
	ItemFlagLocked     ItemTypeFlags = 1 << 1
	ItemFlagBinary     ItemTypeFlags = 1 << 2
	ItemFlagLatestOnly ItemTypeFlags = 1 << 3
	ItemFlagShared     ItemTypeFlags = 1 << 4
	ItemFlagCheckedOut ItemTypeFlags = 1 << 5
)

func (f ItemTypeFlags) IsProject() bool    { return f&ItemFlagProject != 0 }
func (f ItemTypeFlags) IsLocked() bool     { return f&ItemFlagLocked != 0 }
func (f ItemTypeFlags) IsBinary() bool     { return f&ItemFlagBinary != 0 }
func (f ItemTypeFlags) IsLatestOnly() bool { return f&ItemFlagLatestOnly != 0 }
func (f ItemTypeFlags) IsShared() bool     { return f&ItemFlagShared != 0 }
func (f ItemTypeFlags) IsCheckedOut() bool { return f&ItemFlagCheckedOut != 0 }

// ItemHeaderRecord is the single "SH" preamble record every item file
// (project or file) opens with.
type ItemHeaderRecord struct {
	Flags ItemTypeFlags

	// LatestRevNum is the highest revision number present in this item
	// file's log, per invariant 4.
	LatestRevNum int32

	// DataFileExtension is the single letter (alternating on each
	// content update) naming this file item's current data-file
	// sibling. Unused by project headers.
	DataFileExtension byte

	FirstRevOffset uint32
	LastRevOffset  uint32

	// BranchParentPhysicalName is non-empty only for file items created
	// by CreateBranch; see §4.4's branch-point traversal.
	BranchParentPhysicalName PhysicalName

	// ProjectPhysicalName is the first entry of a shared file's
	// containing-project backlink list (§3 scenario S6); zero value
	// means none recorded directly in the header.
	ProjectPhysicalName PhysicalName

	// ChildCount and FirstLogOffset are meaningful only for project
	// headers: a coarse summary of how many children this project last
	// recorded and where its revision log begins.
	ChildCount     uint32
	FirstLogOffset uint32
}

// DecodeItemHeader reads the fixed-layout "SH" preamble record.
func DecodeItemHeader(payload *reader.Reader) (*ItemHeaderRecord, error) {
	flags, err := payload.ReadUint16(true)
	if err != nil {
		return nil, err
	}
	latest, err := payload.ReadInt32(true)
	if err != nil {
		return nil, err
	}
	ext, err := payload.ReadBytes(1)
	if err != nil {
		return nil, err
	}
	// pad byte keeps the following u32 fields 4-byte aligned within the
	// payload's own coordinate space, matching the rest of this record's
	// unaligned-but-orderly layout.
	if err := payload.Skip(1); err != nil {
		return nil, err
	}
	firstRev, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	lastRev, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	branchParent, err := ParsePhysicalName(payload)
	if err != nil {
		return nil, err
	}
	projectParent, err := ParsePhysicalName(payload)
	if err != nil {
		return nil, err
	}
	childCount, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	firstLog, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	return &ItemHeaderRecord{
		Flags:                    ItemTypeFlags(flags),
		LatestRevNum:             latest,
		DataFileExtension:        ext[0],
		FirstRevOffset:           firstRev,
		LastRevOffset:            lastRev,
		BranchParentPhysicalName: branchParent,
		ProjectPhysicalName:      projectParent,
		ChildCount:               childCount,
		FirstLogOffset:           firstLog,
	}, nil
}
