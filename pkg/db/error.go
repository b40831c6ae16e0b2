package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports unique constraint violations across the supported
// drivers, which do not all surface gorm.ErrDuplicatedKey.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// postgres 23505
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// mysql 1062
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// sqlite 2067
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}
