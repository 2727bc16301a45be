package credential

import "fmt"

type (
	InvalidMethod struct {
		Method string
		Reason string
	}

	InvalidSaltLength struct {
		Length int
	}

	WeakPassword struct {
		Score    int
		MinScore int
	}
)

func (i InvalidMethod) Error() string {
	return fmt.Sprintf("invalid hash method %q: %v", i.Method, i.Reason)
}

func (i InvalidSaltLength) Error() string {
	return fmt.Sprintf("salt length must be positive, got %v", i.Length)
}

func (w WeakPassword) Error() string {
	return fmt.Sprintf("password is too weak, scored %v out of 4 but at least %v is required", w.Score, w.MinScore)
}
