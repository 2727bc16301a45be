package credential

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	DefaultSaltLength = 16

	saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateSalt reads one byte from rnd for each salt character.
// A nil rnd uses crypto/rand.
func GenerateSalt(length int, rnd io.Reader) (string, error) {
	if length <= 0 {
		return "", InvalidSaltLength{Length: length}
	}
	if rnd == nil {
		rnd = rand.Reader
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return "", fmt.Errorf("unable to read random bytes for salt, cause %w", err)
	}
	for i, b := range buf {
		buf[i] = saltChars[int(b)%len(saltChars)]
	}
	return string(buf), nil
}

// Generate returns a new stored hash for secret using a fresh random salt.
func Generate(secret, method string, saltLength int, rnd io.Reader) (string, error) {
	if _, err := ParseMethod(method); err != nil {
		return "", err
	}
	salt, err := GenerateSalt(saltLength, rnd)
	if err != nil {
		return "", err
	}
	return Hash(secret, salt, method)
}
