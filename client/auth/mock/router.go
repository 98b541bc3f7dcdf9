package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const accountKey contextKey = "account"

func (b *Backend) newRouter() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/auth/login", b.loginHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/refresh", b.refreshHandler).Methods(http.MethodPost)

	protected := router.NewRoute().Subrouter()
	protected.Use(b.authenticate)
	protected.HandleFunc("/auth/logout", b.logoutHandler).Methods(http.MethodPost)
	protected.HandleFunc("/user/profile", b.profileHandler).Methods(http.MethodGet)
	protected.HandleFunc("/stores/{storeID}/inventory", b.listInventoryHandler).Methods(http.MethodGet)
	protected.HandleFunc("/stores/{storeID}/inventory", b.createProductHandler).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "not found")
	})
	if b.cors != nil {
		return b.cors.middleware(router)
	}
	return router
}

// authenticate rejects requests without a valid bearer token
func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="webtray"`)
			writeFailure(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		acc, err := b.verifyAccessToken(raw)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="webtray", error="invalid_token"`)
			writeFailure(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey, acc)))
	})
}

func accountFrom(r *http.Request) *account {
	acc, _ := r.Context().Value(accountKey).(*account)
	return acc
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"responseSuccessful": false,
		"responseMessage":    message,
		"responseBody":       nil,
	})
}
