package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		form   signupForm
		fields []string
	}{
		{"valid", signupForm{Username: "u", Email: "u@example.com", Password: "secret"}, nil},
		{"missing username", signupForm{Email: "u@example.com", Password: "secret"}, []string{"username"}},
		{"bad email", signupForm{Username: "u", Email: "nope", Password: "secret"}, []string{"email"}},
		{"short password", signupForm{Username: "u", Email: "u@example.com", Password: "12345"}, []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.validate()
			assert.Len(t, errs, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestValidateMessageText(t *testing.T) {
	assert.True(t, validateMessageText("hello").ok())
	assert.True(t, validateMessageText(strings.Repeat("é", maxMessageLength)).ok())
	assert.Equal(t, []string{"Message text is required."}, validateMessageText("   ").list("text"))
	assert.Equal(t, []string{"Messages are limited to 140 characters."},
		validateMessageText(strings.Repeat("a", maxMessageLength+1)).list("text"))
}

func TestFormErrorsKeepFirst(t *testing.T) {
	errs := formErrors{}
	errs.add("email", "first")
	errs.add("email", "second")
	errs.add("username", "name")
	assert.Equal(t, []string{"name", "first"}, errs.list("username", "email", "password"))
}
