// Package errors provides validation error types and string codes for the communication clients.

package errors

import (
	"errors"
	"fmt"
)

const (
	EmptyParameter          = "cannot be None or empty"
	InvalidConnectionString = "Invalid connection string. Should be in the format: endpoint=https://<host>/;accesskey=<KeyValue>"
	InvalidURL              = "invalid URL"
	InvalidAccessKey        = "access key is not valid base64"
	MissingCredential       = "You need to provide either a SAS token or an account shared key to authenticate."
	InvalidValue            = "has an invalid value"
	DotSegment              = "cannot be a relative path segment"
	RequestBuildingError    = "could not build request"
	RequestSendingError     = "could not send request"
	ResponseDecodingError   = "could not decode response body"
)

// ValidationError reports a parameter rejected before any request was sent.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

// NewEmptyError reports an empty required parameter.
func NewEmptyError(param string) *ValidationError {
	return &ValidationError{Param: param, Reason: EmptyParameter}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
