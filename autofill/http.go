package autofill

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/jobfill/kit"
	"github.com/hazyhaar/jobfill/shield"
)

// Handler returns the local control API:
//
//	GET  /health
//	GET  /status
//	POST /trigger
//	GET  /fields
//	GET  /questions
//	GET  /profile
//	GET  /runs?limit=N
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	for _, mw := range shield.Stack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/status", kit.HTTPHandler(s.endpoint("status", s.status), kit.NoRequest))
	r.Post("/trigger", kit.HTTPHandler(s.endpoint("trigger", s.trigger), kit.NoRequest))
	r.Get("/fields", kit.HTTPHandler(s.endpoint("describe_fields", s.fields), kit.NoRequest))
	r.Get("/questions", kit.HTTPHandler(s.endpoint("questions", s.questions), kit.NoRequest))
	r.Get("/profile", kit.HTTPHandler(s.endpoint("profile", s.profile), kit.NoRequest))
	r.Get("/runs", kit.HTTPHandler(s.endpoint("runs", s.listRuns), decodeRuns))
	return r
}

func decodeRuns(r *http.Request) (any, error) {
	req := &runsRequest{}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid limit %q", v)
		}
		req.Limit = n
	}
	return req, nil
}
