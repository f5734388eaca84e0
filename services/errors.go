package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrOrderClosed        = errors.New("order is not open")
	ErrConflict           = errors.New("concurrent update, retry")
	ErrPrintingDisabled   = errors.New("printing disabled")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// lookupErr turns gorm's record-not-found into ErrNotFound for what.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
