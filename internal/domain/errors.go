package domain

import (
	"errors"
	"fmt"
)

// ErrStorage marks failures of the underlying persistence mechanism. Adapters
// join it with the driver error, so both stay reachable via errors.Is/As.
var ErrStorage = errors.New("storage failure")

// ValidationError reports input that fails a domain constraint. It is raised
// at the boundary, before any repository call.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + " " + e.Msg
}

// StorageError wraps err as a storage failure for operation op.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
