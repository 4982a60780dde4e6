package config

import "errors"

var ErrConfigFile = errors.New("invalid config file")
