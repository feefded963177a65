package errs

import (
	"errors"
	"fmt"
)

// Configuration Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

func NewConfigMissingError(key string) error {
	return fmt.Errorf("%w: %s", ErrConfigMissing, key)
}

func NewConfigInvalidError(key string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrConfigInvalid, key, cause)
}
