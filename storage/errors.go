package storage

import "errors"

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrInvalidCID  = errors.New("storage: invalid cid")
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	ErrImmutable   = errors.New("storage: immutable object mismatch")
	// ErrRejected wraps the parser diagnostic of a message refused on Put.
	ErrRejected = errors.New("storage: message rejected")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsRejected(err error) bool { return errors.Is(err, ErrRejected) }
