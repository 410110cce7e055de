package service

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidMarkdown    = errors.New("invalid markdown")
)
