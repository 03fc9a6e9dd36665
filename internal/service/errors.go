package service

import "errors"

// ErrNotFound is returned when a lookup names an item that does not exist.
var ErrNotFound = errors.New("not found")
