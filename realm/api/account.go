package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrebq/bookshelf/credential"
	"github.com/andrebq/bookshelf/internal/apierror"
	"github.com/andrebq/bookshelf/internal/logutil"
	"github.com/andrebq/bookshelf/internal/render"
	"github.com/andrebq/bookshelf/realm"
	"github.com/julienschmidt/httprouter"
)

const (
	maxPasswordBody = 4 << 10
)

type (
	passwordChange struct {
		Password string `json:"password"`
	}

	whoami struct {
		Username string `json:"username"`
	}
)

// AccountHandler serves the endpoints a user has over their own account.
// It must be wrapped by SecurityRealm.Protect.
func AccountHandler(accounts *realm.Accounts) http.Handler {
	router := httprouter.New()
	router.HandlerFunc("GET", "/account/whoami", whoamiHandler)
	router.HandlerFunc("PUT", "/account/password", changePassword(accounts))
	return router
}

func whoamiHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := realm.PrincipalFrom(r.Context())
	if !ok {
		apierror.Unauthorized(w, "")
		return
	}
	render.JSON(w, http.StatusOK, whoami{Username: principal})
}

func changePassword(accounts *realm.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principal, ok := realm.PrincipalFrom(ctx)
		if !ok {
			apierror.Unauthorized(w, "")
			return
		}
		var body passwordChange
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPasswordBody))
		if err := dec.Decode(&body); err != nil || body.Password == "" {
			apierror.Write(w, http.StatusBadRequest, "missing password")
			return
		}
		err := accounts.SetPassword(ctx, principal, body.Password)
		var weak credential.WeakPassword
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.As(err, &weak):
			apierror.Write(w, http.StatusBadRequest, weak.Error())
		default:
			log := logutil.GetOrDefault(ctx)
			log.Error().Err(err).Str("principal", principal).Msg("Unable to change password")
			apierror.Write(w, http.StatusInternalServerError, "unable to change password")
		}
	}
}
