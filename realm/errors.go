package realm

import (
	"errors"
	"fmt"
)

type (
	// Step names the authentication step that failed, it is only used for logs.
	Step string

	StepFailed struct {
		Step      Step
		Principal string
		Cause     error
	}

	InvalidPrincipal struct {
		Name string
	}
)

const (
	StepExtract = Step("extract")
	StepLookup  = Step("lookup")
	StepVerify  = Step("verify")
)

var (
	errSecretMismatch = errors.New("secret does not match the stored hash")
)

func (s StepFailed) Error() string {
	return fmt.Sprintf("authentication of %q failed at %v, cause %v", s.Principal, s.Step, s.Cause)
}

func (s StepFailed) Unwrap() error {
	return s.Cause
}

func (i InvalidPrincipal) Error() string {
	return fmt.Sprintf("%q is not a valid user name, it must be non-empty and cannot contain ':'", i.Name)
}
