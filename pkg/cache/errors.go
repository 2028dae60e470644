package cache

import "errors"

var (
	ErrNotFound = errors.New("cache: key not found")
	ErrEmptyKey = errors.New("cache: key cannot be empty")
)
