package record

import "github.com/vsscue/vsscue/reader"

// ProjectRecord is a file item's backlink to one containing project.
// Files shared across multiple projects have one of these per project,
// threaded into a singly linked list via PrevOffset (terminated by 0),
// per invariant 3 and scenario S6.
type ProjectRecord struct {
	ProjectPhysicalName PhysicalName
	PrevOffset          uint32
}

// DecodeProject reads a project-backlink record payload.
func DecodeProject(payload *reader.Reader) (*ProjectRecord, error) {
	name, err := ParsePhysicalName(payload)
	if err != nil {
		return nil, err
	}
	prev, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	return &ProjectRecord{ProjectPhysicalName: name, PrevOffset: prev}, nil
}

// BranchRecord is a file item's backlink to the file it was branched
// from, threaded the same way as ProjectRecord.
type BranchRecord struct {
	BranchParentPhysicalName PhysicalName
	PrevOffset               uint32
}

// DecodeBranch reads a branch-backlink record payload.
func DecodeBranch(payload *reader.Reader) (*BranchRecord, error) {
	name, err := ParsePhysicalName(payload)
	if err != nil {
		return nil, err
	}
	prev, err := payload.ReadUint32(true)
	if err != nil {
		return nil, err
	}
	return &BranchRecord{BranchParentPhysicalName: name, PrevOffset: prev}, nil
}
