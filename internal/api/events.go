package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailout/internal/feedback"
)

const maxEventBody = 1 << 20

// sesEvents accepts delivery-feedback envelopes. The body is parsed as JSON
// regardless of the declared content type; the notification service commonly
// posts envelopes as text/plain.
func (s *Server) sesEvents(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	var env feedback.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if s.feedback == nil {
		writeError(w, http.StatusInternalServerError, "feedback_not_configured")
		return
	}

	result, err := s.feedback.Process(r.Context(), &env)
	if err != nil {
		s.respondFeedbackError(w, err)
		return
	}

	if result.Confirmed {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "confirmed": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) respondFeedbackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feedback.ErrInvalidSignature), errors.Is(err, feedback.ErrUntrustedURL):
		writeError(w, http.StatusUnauthorized, "invalid_sns_signature")
	case errors.Is(err, feedback.ErrTopicNotAllowed):
		writeError(w, http.StatusForbidden, "sns_topic_not_allowed")
	case errors.Is(err, feedback.ErrAllowlistRequired):
		writeError(w, http.StatusBadRequest, "sns_allowlist_required")
	case errors.Is(err, feedback.ErrInvalidMessage):
		writeError(w, http.StatusBadRequest, "invalid_sns_message")
	case errors.Is(err, feedback.ErrStoreFailed):
		writeError(w, http.StatusInternalServerError, "subscriber_update_failed")
	default:
		s.log.Error("feedback processing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
