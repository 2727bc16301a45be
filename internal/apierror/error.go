// Package apierror writes the JSON error document shared by every endpoint.
package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const (
	// Code is the value of the code field in every error document
	Code = -1

	DefaultRealm = "Secure Area"
)

type (
	Body struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
)

func Write(w http.ResponseWriter, status int, msg string) {
	buf, _ := json.Marshal(Body{Error: msg, Code: Code})
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}

// Unauthorized writes the only response a client gets when authentication
// fails, regardless of the reason.
func Unauthorized(w http.ResponseWriter, realm string) {
	if realm == "" {
		realm = DefaultRealm
	}
	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	Write(w, http.StatusUnauthorized, "Unauthorized")
}
