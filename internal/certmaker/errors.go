package certmaker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/entity"
)

// ErrSubmissionFailed matches both ServiceError and TransportError.
var ErrSubmissionFailed = errors.New("submission failed")

type ValidationError struct {
	Fields entity.ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid subject fields: %s", strings.Join(e.Fields.Fields(), ", "))
}

// IsValidationError reports whether err was caused by invalid subject data.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ServiceError is returned when the issuance service answers with anything
// but 201 Created.
type ServiceError struct {
	StatusCode int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: expected response status %d, got %d", ErrSubmissionFailed, 201, e.StatusCode)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrSubmissionFailed
}

type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ErrSubmissionFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSubmissionFailed, e.Err.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrSubmissionFailed
}
