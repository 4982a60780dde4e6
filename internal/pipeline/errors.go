package pipeline

import "errors"

var ErrJobs = errors.New("build jobs failed")
