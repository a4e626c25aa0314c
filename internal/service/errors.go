package service

import "errors"

var (
	ErrAdNotFound      = errors.New("ad not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrImageNotFound   = errors.New("image not found")

	ErrForbidden = errors.New("user not authorized to perform this action")

	// ErrAdNotPublished rejects new requests against ads that already left
	// the PUBLISHED state.
	ErrAdNotPublished = errors.New("ad is not published")

	ErrImageInUse    = errors.New("image is already in use")
	ErrTooManyImages = errors.New("attempted to load too many images")

	// ErrConflict surfaces a lost optimistic-lock race on a status change.
	ErrConflict = errors.New("ad was modified concurrently")

	// ErrStorageUnavailable wraps remote asset store failures, reported after
	// any compensation has run.
	ErrStorageUnavailable = errors.New("asset storage unavailable")
)
