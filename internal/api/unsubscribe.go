package api

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailout/pkg/unsubtoken"
)

const unsubscribedPage = "<html><body><h3>You are unsubscribed.</h3></body></html>"

// unsubscribe verifies the signed token from a footer link and suppresses
// the embedded address. The response is a tiny static HTML page because the
// link lands in a recipient's browser, not an API client.
func (s *Server) unsubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}
	if s.cfg.UnsubscribeSecret == "" {
		http.Error(w, "Unsubscribe not configured", http.StatusInternalServerError)
		return
	}

	email, err := unsubtoken.Verify(token, s.cfg.UnsubscribeSecret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusBadRequest)
		return
	}

	if s.subs == nil {
		http.Error(w, "Subscriber store not configured", http.StatusInternalServerError)
		return
	}

	if err := s.subs.Unsubscribe(r.Context(), email); err != nil {
		s.log.Error("unsubscribe failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(unsubscribedPage))
}
