package api

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailout/internal/errlog"
	"github.com/dmitrymomot/mailout/internal/notion"
	"github.com/dmitrymomot/mailout/internal/pipeline"
)

const maxTriggerBody = 1 << 20

// sendMailout handles the trigger surface: shared-secret auth, webhook
// signature validation, the verification_token echo handshake, id
// extraction, and the pipeline run itself.
func (s *Server) sendMailout(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTriggerBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	payload, err := parseTriggerPayload(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if !s.authorized(r, payload) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if sig := r.Header.Get("X-Notion-Signature"); sig != "" && s.cfg.WebhookSecret != "" {
		if !notion.VerifySignature(raw, sig, s.cfg.WebhookSecret) {
			writeError(w, http.StatusUnauthorized, "invalid_notion_signature")
			return
		}
	}

	// Webhook registration handshake: echo the token back, no side effects.
	if payload.VerificationToken != "" {
		writeJSON(w, http.StatusOK, map[string]string{"verification_token": payload.VerificationToken})
		return
	}

	mailoutID := payload.mailoutID()
	if mailoutID == "" {
		writeError(w, http.StatusBadRequest, "mailout_id_missing")
		return
	}

	if s.runner == nil {
		writeError(w, http.StatusInternalServerError, "pipeline_not_configured")
		return
	}

	result, err := s.runner.Run(r.Context(), mailoutID)
	if err != nil {
		s.respondRunError(w, r, mailoutID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"mailout_id": result.MailoutID,
		"sent":       result.Sent,
		"failed":     result.Failed,
		"dry_run":    result.DryRun,
	})
}

func (s *Server) authorized(r *http.Request, payload *triggerPayload) bool {
	if s.cfg.SharedSecret == "" {
		return true
	}
	token := r.Header.Get("X-Auth-Token")
	if token == "" {
		token = payload.AuthToken
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.SharedSecret)) == 1
}

func (s *Server) respondRunError(w http.ResponseWriter, r *http.Request, mailoutID string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrSubjectRequired):
		writeError(w, http.StatusBadRequest, "subject_required")
	case errors.Is(err, pipeline.ErrEmptyBody):
		writeError(w, http.StatusBadRequest, "empty_body")
	case errors.Is(err, pipeline.ErrTestEmailsEmpty):
		writeError(w, http.StatusBadRequest, "test_emails_empty")
	case errors.Is(err, pipeline.ErrAlreadySent):
		writeError(w, http.StatusConflict, "mailout_already_sent")
	case errors.Is(err, pipeline.ErrSendInProgress):
		writeError(w, http.StatusConflict, "send_in_progress")
	case errors.Is(err, pipeline.ErrDocStoreNotConfigured):
		writeError(w, http.StatusInternalServerError, "notion_not_configured")
	case errors.Is(err, pipeline.ErrSubscribersNotConfigured):
		writeError(w, http.StatusInternalServerError, "postgres_not_configured")
	case errors.Is(err, pipeline.ErrProviderNotConfigured):
		writeError(w, http.StatusInternalServerError, "provider_not_configured")
	case errors.Is(err, pipeline.ErrFooterNotConfigured):
		writeError(w, http.StatusInternalServerError, "footer_env_missing")
	case errors.Is(err, pipeline.ErrFromEmailMissing):
		writeError(w, http.StatusInternalServerError, "from_email_missing")
	default:
		s.log.Error("send pipeline failed",
			slog.String("mailout_id", mailoutID),
			slog.String("error", err.Error()),
		)
		s.sink.Log(r.Context(), errlog.Entry{
			MailoutID: mailoutID,
			Provider:  errlog.ProviderExecutor, Stage: errlog.StageSend,
			Code: "unhandled", Message: err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
