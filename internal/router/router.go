package router

import (
	"context"
	"net/http"

	"github.com/andrebq/bookshelf/internal/apierror"
	"github.com/andrebq/bookshelf/internal/logutil"
	"github.com/andrebq/bookshelf/internal/render"
	"github.com/julienschmidt/httprouter"
)

type (
	welcome struct {
		Message string `json:"message"`
	}
)

// AsHandler answers the welcome route itself and delegates everything else
// to protected, which is expected to enforce authentication.
func AsHandler(ctx context.Context, protected http.Handler) http.Handler {
	log := logutil.GetOrDefault(ctx).With().Str("component", "router").Logger()
	router := httprouter.New()
	router.HandlerFunc("GET", "/", func(w http.ResponseWriter, r *http.Request) {
		log.Debug().Str("remote", r.RemoteAddr).Msg("welcome")
		render.JSON(w, http.StatusOK, welcome{Message: "Welcome to the Book API"})
	})

	// delegate to protected if not found
	router.NotFound = protected
	// otherwise POST / would skip the protected handler
	router.HandleMethodNotAllowed = false

	return router
}

// Mux joins the protected handlers, each one owning a set of path prefixes.
func Mux(routes map[string]http.Handler) http.Handler {
	mux := http.NewServeMux()
	for prefix, h := range routes {
		mux.Handle(prefix, h)
	}
	return mux
}

// NotFound answers with the JSON error document instead of plain text
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apierror.Write(w, http.StatusNotFound, "Not found")
	})
}
