package record

import "github.com/vsscue/vsscue/reader"

// ActionCode selects which revision variant a revision record's tail
// carries, per the table in the component design for revision records.
type ActionCode uint16

const (
	ActionLabel ActionCode = iota
	ActionCreate
	ActionAdd
	ActionDelete
	ActionRecover
	ActionDestroyProject
	ActionDestroyFile
	ActionRenameProject
	ActionRenameFile
	ActionMoveFrom
	ActionMoveTo
	ActionShareFile
	ActionPinFile
	ActionUnpinFile
	ActionBranchFile
	ActionCreateBranch
	ActionCheckinFile
	ActionArchiveProject
	ActionArchiveFile
	ActionRestoreProject
	ActionRestoreFile
)

const (
	revUserSize        = 32
	revLabelSize       = 32
	revProjectPathSize = 260
)

// RevisionBase is the common layout every revision record begins with.
type RevisionBase struct {
	PrevRevOffset      uint32
	Action             ActionCode
	RevNum             int32
	Timestamp          uint32
	User               string
	Label              string
	CommentOffset      uint32
	LabelCommentOffset uint32
	CommentLength      uint32
	LabelCommentLength uint32
}

func readBase(payload *reader.Reader) (RevisionBase, error) {
	var b RevisionBase
	prevOffset, err := payload.ReadUint32(true)
	if err != nil {
		return b, err
	}
	action, err := payload.ReadUint16(true)
	if err != nil {
		return b, err
	}
	revNum, err := payload.ReadInt32(true)
	if err != nil {
		return b, err
	}
	ts, err := payload.ReadUint32(true)
	if err != nil {
		return b, err
	}
	user, err := payload.ReadString(revUserSize)
	if err != nil {
		return b, err
	}
	label, err := payload.ReadString(revLabelSize)
	if err != nil {
		return b, err
	}
	commentOffset, err := payload.ReadUint32(true)
	if err != nil {
		return b, err
	}
	labelCommentOffset, err := payload.ReadUint32(true)
	if err != nil {
		return b, err
	}
	commentLength, err := payload.ReadUint32(true)
	if err != nil {
		return b, err
	}
	labelCommentLength, err := payload.ReadUint32(true)
	if err != nil {
		return b, err
	}
	return RevisionBase{
		PrevRevOffset:      prevOffset,
		Action:             ActionCode(action),
		RevNum:             revNum,
		Timestamp:          ts,
		User:               user,
		Label:              label,
		CommentOffset:      commentOffset,
		LabelCommentOffset: labelCommentOffset,
		CommentLength:      commentLength,
		LabelCommentLength: labelCommentLength,
	}, nil
}

// LabelRevision carries no extra fields: the label text and its
// comment reference already live in RevisionBase.
type LabelRevision struct{ RevisionBase }

// CommonRevision covers Create/Add/Delete/Recover: a logical name and
// the physical name it resolves to.
type CommonRevision struct {
	RevisionBase
	LogicalName  VssName
	PhysicalName PhysicalName
}

// DestroyRevision covers DestroyProject/DestroyFile.
type DestroyRevision struct {
	RevisionBase
	LogicalName  VssName
	PhysicalName PhysicalName
	Marker       uint16
}

// RenameRevision covers RenameProject/RenameFile.
type RenameRevision struct {
	RevisionBase
	NewName      VssName
	OldName      VssName
	PhysicalName PhysicalName
}

// MoveRevision covers MoveFrom/MoveTo.
type MoveRevision struct {
	RevisionBase
	TargetPath   string
	SourcePath   string
	Name         VssName
	PhysicalName PhysicalName
}

// ShareRevision covers ShareFile/PinFile/UnpinFile/BranchFile.
type ShareRevision struct {
	RevisionBase
	ProjectPath   string
	Name          VssName
	PhysicalName  PhysicalName
	Flags         uint16
	PinnedVersion int32
}

// BranchRevision covers CreateBranch: the share fields plus the
// physical name of the newly created branch file.
type BranchRevision struct {
	ShareRevision
	BranchFilePhysicalName PhysicalName
}

// CheckinRevision covers CheckinFile: the revision that drives reverse
// delta reconstruction for a file item.
type CheckinRevision struct {
	RevisionBase
	PrevDeltaOffset uint32
	Flags           uint16
	ProjectPath     string
}

// ArchiveRestoreRevision covers ArchiveProject/ArchiveFile/RestoreProject/RestoreFile.
type ArchiveRestoreRevision struct {
	RevisionBase
	ArchiveFileName    string
	ParentPhysicalName PhysicalName
}

// DecodeRevision reads a revision record: the common base, then an
// action-specific tail selected by the base's Action field. Unknown
// action codes fail with ErrUnknownRevisionAction unless lenient is
// true, in which case the RevisionBase alone is returned so the caller
// can still place the revision in file order.
func DecodeRevision(payload *reader.Reader, lenient bool) (interface{}, error) {
	base, err := readBase(payload)
	if err != nil {
		return nil, err
	}
	switch base.Action {
	case ActionLabel:
		return &LabelRevision{RevisionBase: base}, nil
	case ActionCreate, ActionAdd, ActionDelete, ActionRecover:
		name, physical, err := readNameAndPhysical(payload)
		if err != nil {
			return nil, err
		}
		return &CommonRevision{RevisionBase: base, LogicalName: name, PhysicalName: physical}, nil
	case ActionDestroyProject, ActionDestroyFile:
		name, physical, err := readNameAndPhysical(payload)
		if err != nil {
			return nil, err
		}
		marker, err := payload.ReadUint16(true)
		if err != nil {
			return nil, err
		}
		return &DestroyRevision{RevisionBase: base, LogicalName: name, PhysicalName: physical, Marker: marker}, nil
	case ActionRenameProject, ActionRenameFile:
		newName, err := ParseVssName(payload)
		if err != nil {
			return nil, err
		}
		oldName, err := ParseVssName(payload)
		if err != nil {
			return nil, err
		}
		physical, err := ParsePhysicalName(payload)
		if err != nil {
			return nil, err
		}
		return &RenameRevision{RevisionBase: base, NewName: newName, OldName: oldName, PhysicalName: physical}, nil
	case ActionMoveFrom, ActionMoveTo:
		target, err := payload.ReadString(revProjectPathSize)
		if err != nil {
			return nil, err
		}
		source, err := payload.ReadString(revProjectPathSize)
		if err != nil {
			return nil, err
		}
		name, physical, err := readNameAndPhysical(payload)
		if err != nil {
			return nil, err
		}
		return &MoveRevision{RevisionBase: base, TargetPath: target, SourcePath: source, Name: name, PhysicalName: physical}, nil
	case ActionShareFile, ActionPinFile, ActionUnpinFile, ActionBranchFile:
		share, err := readShare(base, payload)
		if err != nil {
			return nil, err
		}
		return share, nil
	case ActionCreateBranch:
		share, err := readShare(base, payload)
		if err != nil {
			return nil, err
		}
		branchPhysical, err := ParsePhysicalName(payload)
		if err != nil {
			return nil, err
		}
		return &BranchRevision{ShareRevision: *share, BranchFilePhysicalName: branchPhysical}, nil
	case ActionCheckinFile:
		prevDelta, err := payload.ReadUint32(true)
		if err != nil {
			return nil, err
		}
		flags, err := payload.ReadUint16(true)
		if err != nil {
			return nil, err
		}
		path, err := payload.ReadString(revProjectPathSize)
		if err != nil {
			return nil, err
		}
		return &CheckinRevision{RevisionBase: base, PrevDeltaOffset: prevDelta, Flags: flags, ProjectPath: path}, nil
	case ActionArchiveProject, ActionArchiveFile, ActionRestoreProject, ActionRestoreFile:
		archiveName, err := payload.ReadString(revProjectPathSize)
		if err != nil {
			return nil, err
		}
		parent, err := ParsePhysicalName(payload)
		if err != nil {
			return nil, err
		}
		return &ArchiveRestoreRevision{RevisionBase: base, ArchiveFileName: archiveName, ParentPhysicalName: parent}, nil
	default:
		if lenient {
			return &base, nil
		}
		return nil, ErrUnknownRevisionAction
	}
}

// RevisionBaseOf extracts the common RevisionBase from any revision
// variant returned by DecodeRevision, so callers walking a mixed
// sequence of variants can read RevNum/PrevRevOffset/etc. without a
// type switch of their own at every call site.
func RevisionBaseOf(v interface{}) RevisionBase {
	switch r := v.(type) {
	case *RevisionBase:
		return *r
	case *LabelRevision:
		return r.RevisionBase
	case *CommonRevision:
		return r.RevisionBase
	case *DestroyRevision:
		return r.RevisionBase
	case *RenameRevision:
		return r.RevisionBase
	case *MoveRevision:
		return r.RevisionBase
	case *ShareRevision:
		return r.RevisionBase
	case *BranchRevision:
		return r.RevisionBase
	case *CheckinRevision:
		return r.RevisionBase
	case *ArchiveRestoreRevision:
		return r.RevisionBase
	default:
		return RevisionBase{}
	}
}

func readNameAndPhysical(payload *reader.Reader) (VssName, PhysicalName, error) {
	name, err := ParseVssName(payload)
	if err != nil {
		return VssName{}, "", err
	}
	physical, err := ParsePhysicalName(payload)
	if err != nil {
		return VssName{}, "", err
	}
	return name, physical, nil
}

func readShare(base RevisionBase, payload *reader.Reader) (*ShareRevision, error) {
	path, err := payload.ReadString(revProjectPathSize)
	if err != nil {
		return nil, err
	}
	name, physical, err := readNameAndPhysical(payload)
	if err != nil {
		return nil, err
	}
	flags, err := payload.ReadUint16(true)
	if err != nil {
		return nil, err
	}
	pinned, err := payload.ReadInt32(true)
	if err != nil {
		return nil, err
	}
	return &ShareRevision{
		RevisionBase:  base,
		ProjectPath:   path,
		Name:          name,
		PhysicalName:  physical,
		Flags:         flags,
		PinnedVersion: pinned,
	}, nil
}
