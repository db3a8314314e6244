package engine

import "errors"

// ErrNilDocument is returned when an insert is attempted with a nil document.
//
// This is an engine-layer sentinel; the xdb package translates it into its
// public error contract.
var ErrNilDocument = errors.New("nil document")
