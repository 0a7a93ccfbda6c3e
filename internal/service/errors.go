package service

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidBackup = errors.New("invalid backup file")
	ErrNotSignedIn   = errors.New("no profile found, sign in first")
	ErrNotAnImage    = errors.New("logo must be an image file")
)
