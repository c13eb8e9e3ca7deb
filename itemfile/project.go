package itemfile

import (
	"golang.org/x/text/encoding"

	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/vssdb"
)

// RevisionEntry pairs one decoded revision record with the
// directory-state index it resolved to at the time it was folded (-1 if
// it located nothing, or if the fold does not place revisions of its
// kind, such as labels and every file-item revision). Offset is not
// filled in by OpenProject or OpenFile and stays zero.
type RevisionEntry struct {
	Offset        int
	Value         interface{}
	ResolvedIndex int
	Warning       string
}

// ProjectItem is a project's item file: its header plus the directory
// state produced by forward-folding every revision in its log.
type ProjectItem struct {
	Physical  record.PhysicalName
	Header    *record.ItemHeaderRecord
	State     *DirectoryState
	Revisions []RevisionEntry
}

// OpenProject loads physical's item file from db, verifies it is a
// project header, and folds its revision log forward into a
// DirectoryState.
func OpenProject(db *vssdb.Database, physical record.PhysicalName, cp encoding.Encoding) (*ProjectItem, error) {
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

	revClass := record.ClassRevision
	raw, err := rf.ReadAllRecords(int(header.FirstRevOffset), -1, db.IgnoreUnknown)
	if err != nil {
		return nil, err
	}

	item := &ProjectItem{Physical: physical, Header: header, State: &DirectoryState{}}
	for _, rec := range raw {
		if rec.Class != revClass {
			continue
		}
		entry := RevisionEntry{Value: rec.Value, ResolvedIndex: -1}
		if err := item.fold(db, cp, rec.Value, &entry); err != nil {
			entry.Warning = err.Error()
		}
		item.Revisions = append(item.Revisions, entry)
	}
	return item, nil
}

// fold applies one revision's effect to the project's directory state,
// per spec.md §4.8. Delete is folded as removal from the live array
// (not just a located index): scenario S2 requires find_item(B) == -1
// immediately after a Delete, which only holds if Delete actually
// removes the entry; Destroy then differs from Delete only in that its
// removed entry can never be reinserted by a later Recover, which is a
// downstream concern of the revision/action layer, not of this fold.
func (p *ProjectItem) fold(db *vssdb.Database, cp encoding.Encoding, v interface{}, entry *RevisionEntry) error {
	switch r := v.(type) {
	case *record.CommonRevision:
		switch r.Action {
		case record.ActionCreate, record.ActionAdd, record.ActionRecover:
			full, err := p.fullNameOf(db, cp, r.LogicalName, r.PhysicalName)
			if err != nil {
				return err
			}
			entry.ResolvedIndex = p.State.Insert(full)
		case record.ActionDelete:
			indexing, err := p.indexingNameOf(db, cp, r.LogicalName)
			if err != nil {
				return err
			}
			idx := p.State.FindItem(indexing, r.PhysicalName)
			p.State.RemoveAt(idx)
			entry.ResolvedIndex = idx
		}
	case *record.DestroyRevision:
		indexing, err := p.indexingNameOf(db, cp, r.LogicalName)
		if err != nil {
			return err
		}
		idx := p.State.FindItem(indexing, r.PhysicalName)
		p.State.RemoveAt(idx)
		entry.ResolvedIndex = idx
	case *record.RenameRevision:
		oldIndexing, err := p.indexingNameOf(db, cp, r.OldName)
		if err != nil {
			return err
		}
		idx := p.State.FindItem(oldIndexing, r.PhysicalName)
		p.State.RemoveAt(idx)
		full, err := p.fullNameOf(db, cp, r.NewName, r.PhysicalName)
		if err != nil {
			return err
		}
		entry.ResolvedIndex = p.State.Insert(full)
	case *record.MoveRevision:
		switch r.Action {
		case record.ActionMoveTo:
			full, err := p.fullNameOf(db, cp, r.Name, r.PhysicalName)
			if err != nil {
				return err
			}
			entry.ResolvedIndex = p.State.Insert(full)
		case record.ActionMoveFrom:
			indexing, err := p.indexingNameOf(db, cp, r.Name)
			if err != nil {
				return err
			}
			idx := p.State.FindItem(indexing, r.PhysicalName)
			p.State.RemoveAt(idx)
			entry.ResolvedIndex = idx
		}
	case *record.BranchRevision:
		indexing, err := p.indexingNameOf(db, cp, r.Name)
		if err != nil {
			return err
		}
		entry.ResolvedIndex = p.State.FindItem(indexing, r.PhysicalName)
	case *record.ShareRevision:
		indexing, err := p.indexingNameOf(db, cp, r.Name)
		if err != nil {
			return err
		}
		entry.ResolvedIndex = p.State.FindItem(indexing, r.PhysicalName)
	}
	return nil
}

func (p *ProjectItem) indexingNameOf(db *vssdb.Database, cp encoding.Encoding, name record.VssName) (string, error) {
	long, err := db.LongName(name)
	if err != nil {
		return "", err
	}
	return ComputeIndexingName(long, cp)
}

func (p *ProjectItem) fullNameOf(db *vssdb.Database, cp encoding.Encoding, name record.VssName, physical record.PhysicalName) (FullName, error) {
	long, err := db.LongName(name)
	if err != nil {
		return FullName{}, err
	}
	indexing, err := ComputeIndexingName(long, cp)
	if err != nil {
		return FullName{}, err
	}
	return FullName{LogicalName: name, PhysicalName: physical, IndexingName: indexing, LongName: long}, nil
}
