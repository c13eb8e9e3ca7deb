package itemfile

import (
	"golang.org/x/text/encoding"

	"github.com/vsscue/vsscue/delta"
	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/vssdb"
)

// FileItem is a file's item file: its header, ordered revision log,
// and the per-revision content produced by walking checkins backward
// from the latest data-file bytes (spec.md §4.9).
type FileItem struct {
	Physical  record.PhysicalName
	Header    *record.ItemHeaderRecord
	Revisions []RevisionEntry

	db       *vssdb.Database
	cp       encoding.Encoding
	contents map[int32][]byte

	earliestLocalRevNum int32
	branchParent         *FileItem
}

// OpenFile loads physical's item file, reconstructs its latest content
// from the sibling data file, and walks the revision log backward,
// applying each checkin's delta record to recover every prior
// revision's bytes.
func OpenFile(db *vssdb.Database, physical record.PhysicalName, cp encoding.Encoding) (*FileItem, error) {
	rf, err := db.OpenRecordsFile(physical)
	if err != nil {
		return nil, err
	}
	headerClass := record.ClassItemHeader
	headerRec, err := rf.GetRecord(0, &headerClass)
	if err != nil {
		return nil, err
	}
	header := headerRec.Value.(*record.ItemHeaderRecord)

	latest, err := db.OpenDataFile(physical, header.DataFileExtension)
	if err != nil {
		return nil, err
	}

	revClass := record.ClassRevision
	raw, err := rf.ReadAllRecords(int(header.FirstRevOffset), -1, db.IgnoreUnknown)
	if err != nil {
		return nil, err
	}

	item := &FileItem{
		Physical: physical,
		Header:   header,
		db:       db,
		cp:       cp,
		contents: make(map[int32][]byte),
	}

	var revisions []RevisionEntry
	for _, rec := range raw {
		if rec.Class != revClass {
			continue
		}
		revisions = append(revisions, RevisionEntry{Value: rec.Value, ResolvedIndex: -1})
	}
	item.Revisions = revisions

	current := latest
	for i := len(revisions) - 1; i >= 0; i-- {
		base := record.RevisionBaseOf(revisions[i].Value)
		item.contents[base.RevNum] = current
		if base.RevNum < item.earliestLocalRevNum || i == len(revisions)-1 {
			item.earliestLocalRevNum = base.RevNum
		}
		if ci, ok := revisions[i].Value.(*record.CheckinRevision); ok {
			deltaClass := record.ClassDelta
			deltaRec, err := rf.GetRecord(int(ci.PrevDeltaOffset), &deltaClass)
			if err != nil {
				revisions[i].Warning = err.Error()
				continue
			}
			prior, err := delta.Apply(deltaRec.Value.(*record.DeltaRecord), current)
			if err != nil {
				revisions[i].Warning = err.Error()
				continue
			}
			current = prior
		}
	}
	if len(revisions) > 0 {
		item.earliestLocalRevNum = record.RevisionBaseOf(revisions[0].Value).RevNum
	}
	return item, nil
}

// Flags mirror the header: locked, binary, latest-only, shared, checked-out.
func (f *FileItem) Flags() record.ItemTypeFlags { return f.Header.Flags }

// Revision returns the reconstructed content for version, delegating
// to the branch-parent file when version predates this file's own
// earliest local revision (§4.4's branch-point traversal, scenario S4).
func (f *FileItem) Revision(version int32) ([]byte, error) {
	if c, ok := f.contents[version]; ok {
		return c, nil
	}
	if version < f.earliestLocalRevNum && f.Header.BranchParentPhysicalName != "" {
		parent, err := f.openBranchParent()
		if err != nil {
			return nil, err
		}
		return parent.Revision(version)
	}
	return nil, ErrArgumentOutOfRange
}

func (f *FileItem) openBranchParent() (*FileItem, error) {
	if f.branchParent != nil {
		return f.branchParent, nil
	}
	parent, err := OpenFile(f.db, f.Header.BranchParentPhysicalName, f.cp)
	if err != nil {
		return nil, err
	}
	f.branchParent = parent
	return parent, nil
}
