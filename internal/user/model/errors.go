package model

import "errors"

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUserID indicates that the provided user ID is invalid (e.g., non-numeric).
	ErrInvalidUserID = errors.New("invalid user ID")
	// ErrEmptyPatch indicates that a PATCH body carried no updatable fields.
	ErrEmptyPatch = errors.New("patch contains no fields")
)
