package data

import "errors"

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrUnreadableFile = errors.New("unable to read file")
	ErrInvalidLabel   = errors.New("invalid label configuration")
)
