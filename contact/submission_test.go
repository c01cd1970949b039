package contact

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := Submission{Name: "Ada", Email: "ada@example.com", Message: "Hello"}

	tests := []struct {
		name   string
		mutate func(*Submission)
		fields []string
	}{
		{"valid", func(*Submission) {}, nil},
		{"valid with phone", func(s *Submission) { s.Phone = "+1 (555) 010-9999" }, nil},
		{"missing name", func(s *Submission) { s.Name = "" }, []string{"name"}},
		{"missing email", func(s *Submission) { s.Email = "" }, []string{"email"}},
		{"bad email", func(s *Submission) { s.Email = "not-an-email" }, []string{"email"}},
		{"missing message", func(s *Submission) { s.Message = "" }, []string{"message"}},
		{"short phone", func(s *Submission) { s.Phone = "123" }, []string{"phone"}},
		{"letters in phone", func(s *Submission) { s.Phone = "call me maybe" }, []string{"phone"}},
		{"long message", func(s *Submission) { s.Message = strings.Repeat("x", maxMessageLen+1) }, []string{"message"}},
		{"everything missing", func(s *Submission) { *s = Submission{} }, []string{"email", "message", "name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			var got []string
			for f := range ve.Fields {
				got = append(got, f)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestNormalizeTrims(t *testing.T) {
	s := Submission{Name: "  Ada ", Email: " ada@example.com\n", Phone: " ", Message: "\tHi\t"}.Normalize()

	assert.Equal(t, Submission{Name: "Ada", Email: "ada@example.com", Message: "Hi"}, s)
	assert.NoError(t, s.Validate())
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"message": "x", "email": "y", "name": "z"}}
	assert.Equal(t, "invalid submission: email, message, name", err.Error())
}
