package revision

import (
	"fmt"

	"github.com/vsscue/vsscue/record"
)

// actionName returns the stable, lowercase-with-hyphens token used in
// Action.Extra and in description strings, independent of the raw
// ActionCode's internal numbering.
func actionName(a record.ActionCode) string {
	switch a {
	case record.ActionLabel:
		return "label"
	case record.ActionCreate:
		return "create"
	case record.ActionAdd:
		return "add"
	case record.ActionDelete:
		return "delete"
	case record.ActionRecover:
		return "recover"
	case record.ActionDestroyProject, record.ActionDestroyFile:
		return "destroy"
	case record.ActionRenameProject, record.ActionRenameFile:
		return "rename"
	case record.ActionMoveFrom:
		return "move-from"
	case record.ActionMoveTo:
		return "move-to"
	case record.ActionShareFile:
		return "share"
	case record.ActionPinFile:
		return "pin"
	case record.ActionUnpinFile:
		return "unpin"
	case record.ActionBranchFile:
		return "branch-file"
	case record.ActionCreateBranch:
		return "create-branch"
	case record.ActionCheckinFile:
		return "checkin"
	case record.ActionArchiveProject, record.ActionArchiveFile:
		return "archive"
	case record.ActionRestoreProject, record.ActionRestoreFile:
		return "restore"
	default:
		return "unknown"
	}
}

// describe builds the stable, human-readable one-line description
// printed by the dumper and stored alongside the Action for export.
func describe(a *Action) string {
	switch {
	case a.Name != "" && a.BasePath != "":
		return fmt.Sprintf("%s %s (%s) by %s v%d", a.Extra, a.Name, a.BasePath, a.User, a.Version)
	case a.Name != "":
		return fmt.Sprintf("%s %s by %s v%d", a.Extra, a.Name, a.User, a.Version)
	default:
		return fmt.Sprintf("%s by %s v%d", a.Extra, a.User, a.Version)
	}
}
