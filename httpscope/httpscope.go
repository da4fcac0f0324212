// Package httpscope ties the scoped lifetime of a crate container to HTTP
// requests.
//
// Scoped instances are shared by every request in flight, since a container
// has a single scope. Use it with servers that handle one request at a time
// per container, or give each worker its own container.
package httpscope

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xraph/crate"
)

// Middleware clears the container's scoped instances once the wrapped handler
// returns, including when it panics.
func Middleware(c *crate.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer c.ClearScoped()
			next.ServeHTTP(w, r)
		})
	}
}

// Mount installs Middleware on r.
func Mount(r chi.Router, c *crate.Container) {
	r.Use(Middleware(c))
}

// Handler adapts a handler that resolves its dependencies from the container
// on every request. Resolution errors are answered with 500.
func Handler(c *crate.Container, fn func(w http.ResponseWriter, r *http.Request, res crate.Resolver) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r, c); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
