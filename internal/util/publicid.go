package util

import (
	"regexp"
	"strconv"
)

// Public ids arrive from untrusted input: request bodies and URL path
// segments. They must look like a plain 4-6 digit string before anything
// touches storage; everything else is rejected up front.
var publicIDPattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// ParsePublicID validates and parses a raw public id. Returns
// ErrInvalidFormat for anything that is not a 4-6 digit string.
func ParsePublicID(raw string) (int, error) {
	if !publicIDPattern.MatchString(raw) {
		return 0, ErrInvalidFormat
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return id, nil
}
