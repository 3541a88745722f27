package models

import (
	"errors"
	"fmt"
)

var (
	ErrComplaintNotFound = errors.New("models: complaint not found")
	ErrCommentNotFound   = errors.New("models: comment not found")
	ErrTagNotFound       = errors.New("models: tag not found")
	ErrReportNotFound    = errors.New("models: report not found")
	ErrUserNotFound      = errors.New("models: user not found")
	ErrSessionNotFound   = errors.New("models: session not found")

	ErrDuplicateReport   = errors.New("models: duplicate report for target")
	ErrDuplicateTagName  = errors.New("models: duplicate tag name")
	ErrDuplicateEmail    = errors.New("models: duplicate email")
	ErrDuplicateNickname = errors.New("models: duplicate nickname")

	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrPermissionDenied   = errors.New("models: permission denied")
	ErrReportResolved     = errors.New("models: report already resolved")
	ErrCodeInvalid        = errors.New("models: verification code invalid or expired")
)

// ValidationError carries a client-facing message about malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
