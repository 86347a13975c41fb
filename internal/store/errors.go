package store

import "errors"

var (
	ErrTableNotFound = errors.New("table not found")
	ErrEmptyTable    = errors.New("table has no columns")
)
