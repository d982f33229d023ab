package model

import "errors"

// ErrBlockNotFound is returned by stores when a requested block is absent.
var ErrBlockNotFound = errors.New("block not found")
