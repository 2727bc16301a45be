package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 600000
	DefaultMethod     = "pbkdf2:sha256"

	keyLength = 32
)

type (
	// Method is the parsed form of the first field of a stored hash
	Method struct {
		Algorithm  string
		Iterations int
	}
)

var (
	prfs = map[string]func() hash.Hash{
		"sha256": sha256.New,
	}
)

// ParseMethod validates a method string of the form pbkdf2:<algorithm>[:<iterations>].
//
// An iteration field that is not a number, or does not fit in 32 bits, falls
// back to DefaultIterations, hashes written that way by older tools keep working.
func ParseMethod(method string) (Method, error) {
	parts := strings.Split(method, ":")
	if parts[0] != "pbkdf2" {
		return Method{}, InvalidMethod{Method: method, Reason: "only pbkdf2 is supported"}
	}
	if len(parts) < 2 || len(parts) > 3 {
		return Method{}, InvalidMethod{Method: method, Reason: "expecting pbkdf2:<algorithm>[:<iterations>]"}
	}
	m := Method{Algorithm: parts[1], Iterations: DefaultIterations}
	if _, ok := prfs[m.Algorithm]; !ok {
		return Method{}, InvalidMethod{Method: method, Reason: fmt.Sprintf("unsupported algorithm %v", m.Algorithm)}
	}
	if len(parts) == 3 {
		if n, err := strconv.ParseUint(parts[2], 10, 32); err == nil {
			m.Iterations = int(n)
		}
	}
	if m.Iterations <= 0 {
		return Method{}, InvalidMethod{Method: method, Reason: "iteration count must be positive"}
	}
	return m, nil
}

func (m Method) String() string {
	return fmt.Sprintf("pbkdf2:%v:%v", m.Algorithm, m.Iterations)
}

func (m Method) digest(secret, salt string) string {
	key := pbkdf2.Key([]byte(secret), []byte(salt), m.Iterations, keyLength, prfs[m.Algorithm])
	return hex.EncodeToString(key)
}

// Hash derives the stored representation of secret. The salt is used as-is,
// so the same inputs always produce the same output.
func Hash(secret, salt, method string) (string, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{m.String(), salt, m.digest(secret, salt)}, "$"), nil
}

// MustHash is like Hash but panics when method is invalid.
func MustHash(secret, salt, method string) string {
	h, err := Hash(secret, salt, method)
	if err != nil {
		panic(err)
	}
	return h
}

// Check reports whether secret matches storedHash. Any malformed input
// is a mismatch.
func Check(storedHash, secret string) bool {
	fields := strings.Split(storedHash, "$")
	if len(fields) != 3 {
		return false
	}
	m, err := ParseMethod(fields[0])
	if err != nil {
		return false
	}
	actual := m.digest(secret, fields[1])
	return subtle.ConstantTimeCompare([]byte(actual), []byte(fields[2])) == 1
}
