package store

import "errors"

var (
	ErrStore             = errors.New("artifact store error")
	ErrDuplicateArtifact = errors.New("duplicate artifact")
)
