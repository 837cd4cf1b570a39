package database

import (
	"errors"
	"fmt"
)

// ErrStorage matches every *StorageError via errors.Is.
var ErrStorage = errors.New("local store error")

// StorageError reports a failed local store operation.
type StorageError struct {
	Table string
	Op    string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("local store %s.%s: %v", e.Table, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// WrapError wraps err as a StorageError; nil stays nil.
func WrapError(table, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Table: table, Op: op, Err: err}
}
