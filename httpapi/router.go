package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/castlelock/authcore"
	"github.com/castlelock/authcore/middleware"
)

// NewRouter mounts the authentication routes and returns the router.
func NewRouter(engine *authcore.Engine) *mux.Router {
	h := &handlers{engine: engine}

	r := mux.NewRouter()
	r.Use(clientInfo)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/sign-up", h.signUp).Methods(http.MethodPost)
	auth.HandleFunc("/sign-in", h.signIn).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.refreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/sign-out", h.signOut).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", h.forgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password/{token}", h.resetPassword).Methods(http.MethodPut)
	auth.HandleFunc("/verify-email/{token}", h.verifyEmail).Methods(http.MethodGet)

	guarded := auth.NewRoute().Subrouter()
	guarded.Use(middleware.Guard(engine))
	guarded.HandleFunc("/validate-token", h.validateToken).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)

	return r
}
