package service

import "errors"

var (
	// ErrDuplicateRateName is returned when a rate card name is already taken.
	ErrDuplicateRateName = errors.New("rate card name already exists")
	// ErrInvalidRate is returned for blank names and non-positive rates.
	ErrInvalidRate = errors.New("invalid rate card entry")
	// ErrEmptyMessage is returned when a conversation message is blank.
	ErrEmptyMessage = errors.New("message must not be empty")
)
