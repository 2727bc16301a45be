package render

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/andrebq/bookshelf/internal/apierror"
)

// JSON writes v with the given status, a value that cannot be encoded
// produces a 500 error document instead.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		apierror.Write(w, http.StatusInternalServerError, "unable to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}
