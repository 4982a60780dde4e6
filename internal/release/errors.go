package release

import "errors"

var (
	ErrMissingAssets = errors.New("missing release assets")
	ErrReleaseCreate = errors.New("release creation failed")
	ErrUpload        = errors.New("asset upload failed")
)
