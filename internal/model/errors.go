package model

import "errors"

// ErrNotFound is returned by stores when no identity matches the identifier.
var ErrNotFound = errors.New("not found")

// ErrAlreadyConnected is returned when a username already has a live session
// in the presence registry.
var ErrAlreadyConnected = errors.New("user already connected")
