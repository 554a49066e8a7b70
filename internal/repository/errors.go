package repository

import (
	"errors"

	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"gorm.io/gorm"
)

// translateDuplicate maps a unique-index violation onto the domain's
// duplicate-key kind. Anything else passes through untouched.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrDuplicateKey
	}
	return err
}
