package util

import "errors"

// Domain error kinds. Services recover every storage-level failure into one
// of these before it reaches a controller; no gorm or driver error crosses
// the service boundary.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidFormat       = errors.New("invalid public id format")
	ErrSelfReference       = errors.New("cannot target yourself")
	ErrAlreadyFriends      = errors.New("already friends")
	ErrDuplicatePending    = errors.New("friend request already pending")
	ErrAlreadyShared       = errors.New("file already shared with this student")
	ErrAllocationExhausted = errors.New("no free public id after bounded retries")
	ErrForbidden           = errors.New("permission denied")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidOTP          = errors.New("invalid or expired OTP")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrNotVerified         = errors.New("email not verified")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

// ErrDuplicateKey marks a uniqueness violation detected at commit time.
// Callers retry the enclosing operation (re-allocate an id) or translate it
// into the conflict kind of the operation (duplicate pending, already
// shared) instead of leaking it.
var ErrDuplicateKey = errors.New("duplicate key")
