package persistence

import "errors"

// ErrArchiveNotFound is returned when an archived snapshot does not exist.
var ErrArchiveNotFound = errors.New("persistence: archived snapshot not found")
