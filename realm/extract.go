package realm

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	TokenParam = "token"
)

type (
	Credentials struct {
		Principal string
		Secret    string
	}
)

// Extract reads credentials from the Basic Authorization header, falling back
// to the token query parameter. The two are never merged.
func Extract(r *http.Request) (Credentials, bool) {
	if user, passwd, ok := r.BasicAuth(); ok {
		return Credentials{Principal: user, Secret: passwd}, true
	}
	return fromToken(r.URL.RawQuery)
}

func fromToken(rawQuery string) (Credentials, bool) {
	var token string
	found := false
	for _, param := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(param, TokenParam+"=") {
			token = param[len(TokenParam)+1:]
			found = true
			break
		}
	}
	if !found {
		return Credentials{}, false
	}
	// base64 padding is often percent-encoded by clients, '+' must survive
	if unescaped, err := url.PathUnescape(token); err == nil {
		token = unescaped
	}
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil || !utf8.Valid(decoded) {
		return Credentials{}, false
	}
	principal, secret, _ := strings.Cut(string(decoded), ":")
	return Credentials{Principal: principal, Secret: secret}, true
}

// EncodeToken builds the value expected in the token query parameter.
func EncodeToken(principal, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(principal + ":" + secret))
}
