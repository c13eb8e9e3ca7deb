package itemfile

import "github.com/pkg/errors"

// ErrArgumentOutOfRange is returned by FileItem.Revision when asked for
// a version number outside the range this file (and its branch-parent
// chain) knows about.
var ErrArgumentOutOfRange = errors.New("itemfile: version number outside known range")
