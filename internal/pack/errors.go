package pack

import "errors"

var ErrPackage = errors.New("packaging failed")
