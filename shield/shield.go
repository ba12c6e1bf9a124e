// Package shield holds the HTTP middleware in front of the local control
// API. The API hands out profile data, so it answers loopback callers only
// and never lets a browser page frame or sniff its responses.
//
//	r := chi.NewRouter()
//	for _, mw := range shield.Stack() {
//	    r.Use(mw)
//	}
package shield

import (
	"net"
	"net/http"
)

// MaxBody bounds request bodies. Control requests carry at most a few
// query parameters.
const MaxBody = 16 << 10

// Stack returns the default middleware, outermost first.
func Stack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		LoopbackOnly,
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		LimitBody(MaxBody),
	}
}

// LoopbackOnly rejects requests whose peer is not a loopback address.
func LoopbackOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isLoopback(r.RemoteAddr) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isLoopback(remote string) bool {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// HeadToGet lets GET routes answer HEAD; net/http drops the body.
func HeadToGet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			r.Method = http.MethodGet
		}
		next.ServeHTTP(w, r)
	})
}

// LimitBody caps every request body at maxBytes.
func LimitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
