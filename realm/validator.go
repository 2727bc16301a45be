package realm

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/andrebq/bookshelf/credential"
	"github.com/andrebq/bookshelf/internal/logutil"
	"github.com/andrebq/bookshelf/userdb"
	"github.com/rs/zerolog"
)

type (
	// CredentialStore returns the stored hash for the given principal.
	// Unknown principals must be reported as userdb.UserNotFound.
	CredentialStore interface {
		LookupPasswordHash(ctx context.Context, principal string) (string, error)
	}

	// Path tells how an authentication attempt was resolved
	Path byte

	Outcome struct {
		Principal string
		Verified  bool
		Path      Path
	}

	Validator struct {
		store CredentialStore
		cache Cache

		// revocations is bumped on every Revoke so a slow path that read the
		// store before a password change can drop what it just cached.
		revocations atomic.Uint64

		outage zerolog.Sampler
	}
)

const (
	NoPath Path = iota
	FastPath
	SlowPath
)

func (p Path) String() string {
	switch p {
	case FastPath:
		return "fast"
	case SlowPath:
		return "slow"
	default:
		return "none"
	}
}

// New builds a Validator that remembers verified secrets for DefaultTTL.
func New(store CredentialStore, cache Cache) *Validator {
	return &Validator{
		store:  store,
		cache:  cache,
		outage: &zerolog.BurstSampler{Burst: 5, Period: time.Minute},
	}
}

// Authenticate decides if creds are valid. The error explains a rejection and
// must never reach the client.
func (v *Validator) Authenticate(ctx context.Context, creds Credentials) (Outcome, error) {
	out := Outcome{Principal: creds.Principal}
	if cached, ok := v.cache.Get(creds.Principal); ok && sameSecret(cached, creds.Secret) {
		out.Verified = true
		out.Path = FastPath
		return out, nil
	}

	out.Path = SlowPath
	generation := v.revocations.Load()
	stored, err := v.store.LookupPasswordHash(ctx, creds.Principal)
	if err != nil {
		return out, StepFailed{Step: StepLookup, Principal: creds.Principal, Cause: err}
	}
	if !credential.Check(stored, creds.Secret) {
		return out, StepFailed{Step: StepVerify, Principal: creds.Principal, Cause: errSecretMismatch}
	}
	if err := ctx.Err(); err != nil {
		return out, StepFailed{Step: StepVerify, Principal: creds.Principal, Cause: err}
	}

	if err := v.cache.Put(creds.Principal, creds.Secret, DefaultTTL); err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Str("principal", creds.Principal).Msg("Unable to cache verified credentials")
	} else if v.revocations.Load() != generation {
		v.cache.Evict(creds.Principal)
	}
	out.Verified = true
	return out, nil
}

// Validate authenticates r, on success the returned request carries the
// principal in its context.
func (v *Validator) Validate(r *http.Request) (*http.Request, bool) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	creds, ok := Extract(r)
	if !ok {
		log.Debug().Str("auth.step", string(StepExtract)).Msg("Request without usable credentials")
		return r, false
	}
	out, err := v.Authenticate(ctx, creds)
	if err != nil {
		v.logFailure(log, err)
		return r, false
	}
	log.Debug().Str("principal", out.Principal).Str("auth.path", out.Path.String()).Msg("Request authenticated")
	return r.WithContext(WithPrincipal(ctx, out.Principal)), true
}

// Revoke forgets any cached secret for principal. It must be called after
// the stored hash changes or the user is removed.
func (v *Validator) Revoke(principal string) {
	v.revocations.Add(1)
	v.cache.Evict(principal)
}

func (v *Validator) logFailure(log zerolog.Logger, err error) {
	var sf StepFailed
	if !errors.As(err, &sf) {
		log.Error().Err(err).Msg("Unexpected authentication failure")
		return
	}
	var notFound userdb.UserNotFound
	switch {
	case sf.Step != StepLookup, errors.As(sf.Cause, &notFound):
		log.Debug().Str("auth.step", string(sf.Step)).Str("principal", sf.Principal).Msg("Authentication rejected")
	case errors.Is(sf.Cause, context.Canceled), errors.Is(sf.Cause, context.DeadlineExceeded):
		log.Debug().Str("auth.step", string(sf.Step)).Str("principal", sf.Principal).Err(sf.Cause).Msg("Authentication abandoned")
	default:
		sampled := log.Sample(v.outage)
		sampled.Warn().Str("auth.step", string(sf.Step)).Str("principal", sf.Principal).Err(sf.Cause).Msg("Credential store lookup failed")
	}
}

func sameSecret(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (o Outcome) String() string {
	if o.Verified {
		return fmt.Sprintf("%v verified (%v path)", o.Principal, o.Path)
	}
	return fmt.Sprintf("%v rejected (%v path)", o.Principal, o.Path)
}
