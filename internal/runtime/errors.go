package runtime

import "errors"

var ErrRuntime = errors.New("runtime error")
