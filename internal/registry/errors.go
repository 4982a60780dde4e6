package registry

import "errors"

var (
	ErrConfig         = errors.New("invalid target configuration")
	ErrDuplicateAsset = errors.New("duplicate asset name")
	ErrInvalidTriple  = errors.New("invalid target triple")
)
