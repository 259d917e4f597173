package model

import "errors"

// ErrMalformedProduct marks a catalog item that could not be decoded.
var ErrMalformedProduct = errors.New("malformed product")
