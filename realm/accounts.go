package realm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andrebq/bookshelf/credential"
)

type (
	PasswordStore interface {
		SetPasswordHash(ctx context.Context, principal, hash string) error
		DeleteUser(ctx context.Context, principal string) error
	}

	Revoker interface {
		Revoke(principal string)
	}

	// HashPolicy controls how new passwords are stored
	HashPolicy struct {
		Method     string
		SaltLength int
		MinScore   int
		// Rand is used to generate salts, nil means crypto/rand
		Rand io.Reader
	}

	// Accounts changes stored passwords and keeps the cache in sync
	Accounts struct {
		store   PasswordStore
		revoker Revoker
		policy  HashPolicy
	}
)

func DefaultHashPolicy() HashPolicy {
	return HashPolicy{
		Method:     credential.DefaultMethod,
		SaltLength: credential.DefaultSaltLength,
		MinScore:   2,
	}
}

// NewAccounts validates policy before anything is stored with it. revoker
// may be nil when no validator is running in this process.
func NewAccounts(store PasswordStore, revoker Revoker, policy HashPolicy) (*Accounts, error) {
	if _, err := credential.ParseMethod(policy.Method); err != nil {
		return nil, err
	}
	if policy.SaltLength <= 0 {
		return nil, credential.InvalidSaltLength{Length: policy.SaltLength}
	}
	return &Accounts{store: store, revoker: revoker, policy: policy}, nil
}

func (a *Accounts) SetPassword(ctx context.Context, principal, secret string) error {
	if err := ValidPrincipal(principal); err != nil {
		return err
	}
	if err := credential.CheckStrength(principal, secret, a.policy.MinScore); err != nil {
		return err
	}
	hash, err := credential.Generate(secret, a.policy.Method, a.policy.SaltLength, a.policy.Rand)
	if err != nil {
		return fmt.Errorf("unable to hash password for %v, cause %w", principal, err)
	}
	if err := a.store.SetPasswordHash(ctx, principal, hash); err != nil {
		return err
	}
	a.revoke(principal)
	return nil
}

func (a *Accounts) Remove(ctx context.Context, principal string) error {
	if err := a.store.DeleteUser(ctx, principal); err != nil {
		return err
	}
	a.revoke(principal)
	return nil
}

func (a *Accounts) revoke(principal string) {
	if a.revoker != nil {
		a.revoker.Revoke(principal)
	}
}

// ValidPrincipal rejects names that could not be sent with Basic auth.
func ValidPrincipal(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return InvalidPrincipal{Name: name}
	}
	return nil
}
