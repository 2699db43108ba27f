package repositories

import "errors"

// ErrNotFound is returned (wrapped) by repository implementations when the
// requested record does not exist. Services translate it into their own
// domain errors.
var ErrNotFound = errors.New("record not found")
