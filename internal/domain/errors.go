package domain

import "errors"

var (
	ErrInvalidStatus = errors.New("invalid invoice status")
	ErrInvalidTheme  = errors.New("theme must be dark or light")
)
