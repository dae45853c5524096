package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrTableNotFound    = fmt.Errorf("table %w", ErrNotFound)
	ErrTableNotOccupied = errors.New("table is not occupied")
	ErrInvalidRecord    = errors.New("invalid session record")
	ErrJournalDisabled  = errors.New("session journal index is disabled")
)
