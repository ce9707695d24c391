package service

import "errors"

var (
	ErrMissingField   = errors.New("missing required field")
	ErrUserExists     = errors.New("user already exists")
	ErrBadCredentials = errors.New("bad credentials")
	ErrNotFound       = errors.New("not found")
	ErrDuplicateValue = errors.New("session type value already exists")
	ErrExportDisabled = errors.New("export storage not configured")
)
