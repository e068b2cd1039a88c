package combograph

import "errors"

// Authoring errors. Runtime paths never return errors; they report outcomes.
var (
	ErrNodeOutOfRange = errors.New("node index out of range")
	ErrDuplicateName  = errors.New("duplicate node name")
	ErrEmptyGraph     = errors.New("graph has no nodes")
	ErrInvalidGraph   = errors.New("invalid graph")
)
