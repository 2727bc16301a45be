package api

import (
	"net/http"

	"github.com/andrebq/bookshelf/internal/apierror"
	"github.com/andrebq/bookshelf/realm"
)

type (
	SecurityRealm struct {
		validator *realm.Validator
		name      string
	}
)

// NewRealm returns a filter that only lets authenticated requests through.
// name is sent in the WWW-Authenticate challenge.
func NewRealm(validator *realm.Validator, name string) *SecurityRealm {
	if name == "" {
		name = apierror.DefaultRealm
	}
	return &SecurityRealm{
		validator: validator,
		name:      name,
	}
}

func (s *SecurityRealm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, ok := s.validator.Validate(r)
		if !ok {
			apierror.Unauthorized(w, s.name)
			return
		}
		sensitive.ServeHTTP(w, authed)
	})
}

func (s *SecurityRealm) Name() string { return s.name }
