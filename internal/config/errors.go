package config

import "errors"

var (
	ErrParse         = errors.New("config: cannot parse")
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrBadColor      = errors.New("config: bad color")
)
