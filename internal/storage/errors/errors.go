// Package errors provides typed errors of the storage layer.

package errors

import (
	"fmt"
)

type (
	StatementPSQLError struct {
		Err error
	}
	AlreadyExistsError struct {
		Err error
		ID  string
	}
	ExecutionPSQLError struct {
		Err error
	}
	ContextTimeoutExceededError struct {
		Err error
	}
	NotFoundError struct {
		Err error
		ID  string
	}
	ScanningPSQLError struct {
		Err error
	}
)

func (e *StatementPSQLError) Error() string {
	return fmt.Sprintf("%s: could not compile", e.Err.Error())
}

func (e *StatementPSQLError) Unwrap() error { return e.Err }

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: already exists", e.ID)
}

func (e *AlreadyExistsError) Unwrap() error { return e.Err }

func (e *ExecutionPSQLError) Error() string {
	return fmt.Sprintf("%s: could not execute", e.Err.Error())
}

func (e *ExecutionPSQLError) Unwrap() error { return e.Err }

func (e *ContextTimeoutExceededError) Error() string {
	return fmt.Sprintf("%s: context timeout exceeded", e.Err.Error())
}

func (e *ContextTimeoutExceededError) Unwrap() error { return e.Err }

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return "not found in storage"
	}
	return fmt.Sprintf("%s: not found in storage", e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *ScanningPSQLError) Error() string {
	return fmt.Sprintf("%s: could not scan rows", e.Err.Error())
}

func (e *ScanningPSQLError) Unwrap() error { return e.Err }
