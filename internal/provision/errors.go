package provision

import "errors"

var ErrProvision = errors.New("provisioning failed")
