// Package revision implements the revision & action layer (component
// design §4.10): it lifts the raw revision records threaded together
// by itemfile into a typed, exportable Action per revision, resolving
// comment text and -- for file items -- the reconstructed content.
package revision

import (
	"fmt"

	"github.com/h2non/filetype"

	"github.com/vsscue/vsscue/itemfile"
	"github.com/vsscue/vsscue/recfile"
	"github.com/vsscue/vsscue/record"
	"github.com/vsscue/vsscue/vssdb"
)

// Action is the exportable projection of one revision, carrying
// everything a downstream migration pipeline needs without reaching
// back into the VSS record layer.
type Action struct {
	Timestamp   uint32
	User        string
	BasePath    string
	Name        string
	Comment     string
	Version     int32
	Extra       string
	Description string

	// Content holds reconstructed bytes for file create/add/checkin
	// actions only; nil otherwise.
	Content []byte

	// IsBinary reflects the item's binary flag, falling back to content
	// sniffing when the flag itself looks unreliable (§4.13).
	IsBinary bool

	// Warnings collects non-fatal reconstruction errors (dangling
	// offsets, missing branch parents) per spec.md §7 -- the walk
	// continues rather than aborting.
	Warnings []string
}

func (a *Action) warn(err error) {
	if err != nil {
		a.Warnings = append(a.Warnings, err.Error())
	}
}

// resolveComment reads the comment text at offset from rf, when
// offset is non-zero. A missing or wrongly-typed comment record is
// captured as a warning rather than aborting the action.
func resolveComment(rf *recfile.File, offset uint32) (string, error) {
	if offset == 0 {
		return "", nil
	}
	class := record.ClassComment
	rec, err := rf.GetRecord(int(offset), &class)
	if err != nil {
		return "", err
	}
	return rec.Value.(*record.CommentRecord).Text, nil
}

// classifyBinary trusts flagBinary unless content sniffing positively
// identifies a known binary type the flag disagrees with -- a
// defensive fallback for legacy-era items predating VSS's own binary
// flag (spec.md §3, SPEC_FULL.md §4.13).
func classifyBinary(content []byte, flagBinary bool) bool {
	if flagBinary || len(content) == 0 {
		return flagBinary
	}
	kind, err := filetype.Match(content)
	if err != nil || kind == filetype.Unknown {
		return flagBinary
	}
	return true
}

// NewFileAction builds the Action for one file-item revision. fi is
// used to fetch reconstructed content for Create/Add/Checkin actions;
// version is the revision's own number.
func NewFileAction(db *vssdb.Database, rf *recfile.File, fi *itemfile.FileItem, entry itemfile.RevisionEntry) (*Action, error) {
	base := record.RevisionBaseOf(entry.Value)
	a := &Action{
		Timestamp: base.Timestamp,
		User:      base.User,
		Version:   base.RevNum,
		IsBinary:  fi.Flags().IsBinary(),
	}
	if entry.Warning != "" {
		a.Warnings = append(a.Warnings, entry.Warning)
	}
	comment, err := resolveComment(rf, base.CommentOffset)
	a.warn(err)
	a.Comment = comment

	switch r := entry.Value.(type) {
	case *record.CommonRevision:
		name, err := db.LongName(r.LogicalName)
		a.warn(err)
		a.Name = name
		a.Extra = actionName(r.Action)
	case *record.RenameRevision:
		name, err := db.LongName(r.NewName)
		a.warn(err)
		a.Name = name
		a.Extra = actionName(base.Action)
	case *record.DestroyRevision:
		name, err := db.LongName(r.LogicalName)
		a.warn(err)
		a.Name = name
		a.Extra = actionName(r.Action)
	case *record.ShareRevision:
		name, err := db.LongName(r.Name)
		a.warn(err)
		a.Name = name
		a.BasePath = r.ProjectPath
		a.Extra = actionName(base.Action)
	case *record.BranchRevision:
		name, err := db.LongName(r.Name)
		a.warn(err)
		a.Name = name
		a.BasePath = r.ProjectPath
		a.Extra = actionName(base.Action)
	case *record.CheckinRevision:
		a.BasePath = r.ProjectPath
		a.Extra = actionName(base.Action)
	case *record.LabelRevision:
		a.Name = r.Label
		a.Extra = actionName(base.Action)
	}

	switch base.Action {
	case record.ActionCreate, record.ActionAdd, record.ActionCheckinFile:
		content, err := fi.Revision(base.RevNum)
		if err != nil {
			a.warn(err)
		} else {
			a.Content = content
			a.IsBinary = classifyBinary(content, fi.Flags().IsBinary())
		}
	}

	a.Description = describe(a)
	return a, nil
}

// NewProjectAction builds the Action for one project-item revision.
// entry carries the resolved directory-state index recorded during the
// forward fold in itemfile, which Extra exposes as "index=N" for
// callers that want to cross-reference the sorted child array.
func NewProjectAction(db *vssdb.Database, rf *recfile.File, entry itemfile.RevisionEntry) (*Action, error) {
	base := record.RevisionBaseOf(entry.Value)
	a := &Action{
		Timestamp: base.Timestamp,
		User:      base.User,
		Version:   base.RevNum,
	}
	if entry.Warning != "" {
		a.Warnings = append(a.Warnings, entry.Warning)
	}
	comment, err := resolveComment(rf, base.CommentOffset)
	a.warn(err)
	a.Comment = comment

	switch r := entry.Value.(type) {
	case *record.CommonRevision:
		name, err := db.LongName(r.LogicalName)
		a.warn(err)
		a.Name = name
		a.Extra = actionName(r.Action)
	case *record.DestroyRevision:
		name, err := db.LongName(r.LogicalName)
		a.warn(err)
		a.Name = name
		a.Extra = actionName(r.Action)
	case *record.RenameRevision:
		name, err := db.LongName(r.NewName)
		a.warn(err)
		a.Name = name
		a.Extra = actionName(base.Action)
	case *record.MoveRevision:
		name, err := db.LongName(r.Name)
		a.warn(err)
		a.Name = name
		a.BasePath = r.TargetPath
		a.Extra = actionName(base.Action)
	case *record.ShareRevision:
		name, err := db.LongName(r.Name)
		a.warn(err)
		a.Name = name
		a.BasePath = r.ProjectPath
		a.Extra = actionName(base.Action)
	case *record.BranchRevision:
		name, err := db.LongName(r.Name)
		a.warn(err)
		a.Name = name
		a.Extra = actionName(base.Action)
	case *record.LabelRevision:
		a.Name = r.Label
		a.Extra = actionName(base.Action)
	}
	a.Extra = fmt.Sprintf("%s index=%d", a.Extra, entry.ResolvedIndex)
	a.Description = describe(a)
	return a, nil
}
