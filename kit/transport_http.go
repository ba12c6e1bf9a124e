package kit

import (
	"encoding/json"
	"errors"
	"net/http"
)

// StatusCoder lets an endpoint error choose its HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is an error carrying an HTTP status.
type HTTPError struct {
	Code int
	Err  error
}

func (e *HTTPError) Error() string   { return e.Err.Error() }
func (e *HTTPError) Unwrap() error   { return e.Err }
func (e *HTTPError) StatusCode() int { return e.Code }

// HTTPHandler exposes an Endpoint over HTTP. decode builds the request
// from r; a decode error answers 400.
func HTTPHandler(endpoint Endpoint, decode func(*http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decode(r)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err)
			return
		}
		ctx := WithTransport(r.Context(), TransportHTTP)
		if id := r.Header.Get("X-Request-Id"); id != "" {
			ctx = WithRequestID(ctx, id)
		}
		resp, err := endpoint(ctx, req)
		if err != nil {
			code := http.StatusInternalServerError
			var sc StatusCoder
			if errors.As(err, &sc) {
				code = sc.StatusCode()
			}
			WriteError(w, code, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// NoRequest is a decode function for endpoints without input.
func NoRequest(*http.Request) (any, error) { return nil, nil }

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, err error) {
	WriteJSON(w, code, map[string]string{"error": err.Error()})
}
