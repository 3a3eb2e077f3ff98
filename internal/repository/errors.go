package repository

import "errors"

// ErrVersionConflict signals a lost-update race: the row changed between the
// caller's read and its conditional write.
var ErrVersionConflict = errors.New("version conflict")
