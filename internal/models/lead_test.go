package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadValidate(t *testing.T) {
	tests := []struct {
		name  string
		lead  Lead
		field string
	}{
		{"valid", Lead{Email: "a@b.com", Phone: "12345"}, ""},
		{"bare at is enough", Lead{Email: "@", Phone: "1"}, ""},
		{"missing at", Lead{Email: "nouser", Phone: "12345"}, FieldEmail},
		{"empty email", Lead{Phone: "12345"}, FieldEmail},
		{"email checked first", Lead{Email: "nouser"}, FieldEmail},
		{"empty phone", Lead{Email: "a@b.com"}, FieldPhone},
		{"whitespace phone is not empty", Lead{Email: "a@b.com", Phone: " "}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lead.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.True(t, IsValidationError(err))
			assert.False(t, IsTransportError(err))
		})
	}
}

func TestValidationMessages(t *testing.T) {
	var verr *ValidationError

	require.ErrorAs(t, Lead{}.Validate(), &verr)
	assert.Equal(t, InvalidEmailMessage, verr.Message)

	require.ErrorAs(t, Lead{Email: "a@b"}.Validate(), &verr)
	assert.Equal(t, InvalidPhoneMessage, verr.Message)
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("subscribe: %w", &TransportError{Err: cause})

	assert.True(t, IsTransportError(err))
	assert.ErrorIs(t, err, cause)
}

func TestNewSubmission(t *testing.T) {
	a := NewSubmission(Lead{Email: "a@b.com", Phone: "1"})
	b := NewSubmission(Lead{Email: "a@b.com", Phone: "1"})

	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.SubmittedAt.IsZero())
	assert.True(t, CountdownState{}.IsZero())
	assert.False(t, CountdownState{Seconds: 1}.IsZero())
}
