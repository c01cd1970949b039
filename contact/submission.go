// Package contact validates contact-form submissions and relays them to the
// configured form endpoint, queueing the ones that fail for a later retry.
package contact

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNameLen    = 200
	maxEmailLen   = 320
	maxPhoneLen   = 40
	maxMessageLen = 5000
)

var (
	reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	rePhone = regexp.MustCompile(`^[0-9\s\-()+]{6,}$`)
)

// Submission is one contact-form entry. Only the four form fields are sent
// to the endpoint.
type Submission struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"-"`
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Message = strings.TrimSpace(s.Message)
	return s
}

// Validate reports every invalid field at once. Name, email and message are
// required; phone is optional but must look like a phone number when given.
func (s Submission) Validate() error {
	fields := map[string]string{}
	switch {
	case s.Name == "":
		fields["name"] = "Please enter your name."
	case utf8.RuneCountInString(s.Name) > maxNameLen:
		fields["name"] = "Name is too long."
	}
	switch {
	case s.Email == "":
		fields["email"] = "Please enter your email address."
	case len(s.Email) > maxEmailLen || !reEmail.MatchString(s.Email):
		fields["email"] = "Please enter a valid email address."
	}
	if s.Phone != "" && (len(s.Phone) > maxPhoneLen || !rePhone.MatchString(s.Phone)) {
		fields["phone"] = "Please enter a valid phone number."
	}
	switch {
	case s.Message == "":
		fields["message"] = "Please enter a message."
	case utf8.RuneCountInString(s.Message) > maxMessageLen:
		fields["message"] = "Message is too long."
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
