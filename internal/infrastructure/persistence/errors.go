package persistence

import (
	"errors"
	"strings"

	"github.com/lumio/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors to domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// isUniqueViolation matches postgres 23505 and sqlite UNIQUE failures when
// the dialector does not translate them
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
