package services

import (
	"errors"

	"gorm.io/gorm"
)

// Error taxonomy shared by all services. Controllers map these to HTTP
// status codes; anything that does not match is treated as an internal
// error, logged server-side and never surfaced in detail to the caller.
var (
	// ErrNotFound means a referenced entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique constraint was violated
	ErrConflict = errors.New("already exists")
	// ErrInvalidInput means the input was malformed or violates a foreign key
	ErrInvalidInput = errors.New("invalid input")
)

// TranslateDBError maps GORM errors into the service error taxonomy.
// Unrecognized errors are returned as-is for the controller to log.
func TranslateDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidInput
	default:
		return err
	}
}
