package service

import (
	"context"
	"errors"
	"testing"
)

// Validation runs before any database access, so a nil pool is fine here.
func TestRegisterValidation(t *testing.T) {
	s := NewAuthService(nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Username: "u1", Email: "u@x.com", Password: "secret1"}},
		{"missing username", RegisterInput{Name: "U", Email: "u@x.com", Password: "secret1"}},
		{"missing email", RegisterInput{Name: "U", Username: "u1", Password: "secret1"}},
		{"missing password", RegisterInput{Name: "U", Username: "u1", Email: "u@x.com"}},
		{"bad username chars", RegisterInput{Name: "U", Username: "bad name!", Email: "u@x.com", Password: "secret1"}},
		{"short password", RegisterInput{Name: "U", Username: "u1", Email: "u@x.com", Password: "abc"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := s.Register(ctx, c.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}
