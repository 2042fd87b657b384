package csvindex

import "errors"

// Sentinel errors returned by [Parser] and [CellReader].
var (
	ErrClosed    = errors.New("parser is closed")
	ErrNoIndex   = errors.New("file has not been parsed")
	ErrCellRange = errors.New("cell out of range")
)
