package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	FieldEmail = "email"
	FieldPhone = "phone"

	InvalidEmailMessage = "Please enter a valid email address."
	InvalidPhoneMessage = "Please enter a valid phone number."
)

// Lead is the email/phone pair captured by the landing form. It only lives
// until it has been relayed.
type Lead struct {
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`
}

// Validate checks the email first, then the phone, and stops at the first
// failing field.
func (l Lead) Validate() error {
	if !strings.Contains(l.Email, "@") {
		return &ValidationError{Field: FieldEmail, Message: InvalidEmailMessage}
	}
	if l.Phone == "" {
		return &ValidationError{Field: FieldPhone, Message: InvalidPhoneMessage}
	}
	return nil
}

// Submission is a validated lead on its way to the form backend.
type Submission struct {
	ID          uuid.UUID `json:"id"`
	Lead        Lead      `json:"lead"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func NewSubmission(lead Lead) *Submission {
	return &Submission{
		ID:          uuid.New(),
		Lead:        lead,
		SubmittedAt: time.Now(),
	}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransportError means the relay request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("form relay transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}
