// Package walk implements the tree walker (component design §4's
// component J): a recursive descent over a project's live children,
// building an Action per revision for both projects and files and
// merging the whole subtree's history into chronological order.
package walk

import (
	"sort"

	"golang.org/x/text/encoding"

	"github.com/vsscue/vsscue/itemfile"
	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/revision"
	"github.com/vsscue/vsscue/vssdb"
)

// Walk opens root as a project and recursively walks its live
// children, returning every Action in the subtree ordered by
// timestamp (ties keep each item's own revision order, since actions
// from the same item are already chronological).
func Walk(db *vssdb.Database, root record.PhysicalName, cp encoding.Encoding) ([]*revision.Action, error) {
	actions, err := walkProject(db, root, cp)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Timestamp < actions[j].Timestamp
	})
	return actions, nil
}

func walkProject(db *vssdb.Database, physical record.PhysicalName, cp encoding.Encoding) ([]*revision.Action, error) {
	proj, err := itemfile.OpenProject(db, physical, cp)
	if err != nil {
		return nil, err
	}
	rf, err := db.OpenRecordsFile(physical)
	if err != nil {
		return nil, err
	}

	var actions []*revision.Action
	for _, entry := range proj.Revisions {
		a, err := revision.NewProjectAction(db, rf, entry)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}

	for _, child := range proj.State.Entries() {
		isProject, err := isProjectItem(db, child.PhysicalName)
		if err != nil {
			a := &revision.Action{Name: child.LongName, Warnings: []string{err.Error()}}
			actions = append(actions, a)
			continue
		}
		var childActions []*revision.Action
		if isProject {
			childActions, err = walkProject(db, child.PhysicalName, cp)
		} else {
			childActions, err = walkFile(db, child.PhysicalName, cp)
		}
		if err != nil {
			return nil, err
		}
		actions = append(actions, childActions...)
	}
	return actions, nil
}

func walkFile(db *vssdb.Database, physical record.PhysicalName, cp encoding.Encoding) ([]*revision.Action, error) {
	fi, err := itemfile.OpenFile(db, physical, cp)
	if err != nil {
		return nil, err
	}
	rf, err := db.OpenRecordsFile(physical)
	if err != nil {
		return nil, err
	}
	var actions []*revision.Action
	for _, entry := range fi.Revisions {
		a, err := revision.NewFileAction(db, rf, fi, entry)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func isProjectItem(db *vssdb.Database, physical record.PhysicalName) (bool, error) {
	rf, err := db.OpenRecordsFile(physical)
	if err != nil {
		return false, err
	}
	class := record.ClassItemHeader
	rec, err := rf.GetRecord(0, &class)
	if err != nil {
		return false, err
	}
	return rec.Value.(*record.ItemHeaderRecord).Flags.IsProject(), nil
}
