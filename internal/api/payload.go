package api

import "encoding/json"

// triggerPayload is the set of accepted /send-mailout body shapes. The
// mailout id is taken from an explicit allowlist of key paths; arbitrary
// nested id-shaped strings are not accepted.
type triggerPayload struct {
	AuthToken         string `json:"auth_token"`
	VerificationToken string `json:"verification_token"`

	MailoutID string       `json:"mailout_id"`
	PageID    string       `json:"page_id"`
	Data      *dataWrapper `json:"data"`
}

type dataWrapper struct {
	ID     string         `json:"id"`
	PageID string         `json:"page_id"`
	Entity *entityWrapper `json:"entity"`
}

type entityWrapper struct {
	ID string `json:"id"`
}

func parseTriggerPayload(raw []byte) (*triggerPayload, error) {
	var payload triggerPayload
	if len(raw) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// mailoutID resolves the identifier from the accepted shapes, most specific
// first.
func (p *triggerPayload) mailoutID() string {
	if p.MailoutID != "" {
		return p.MailoutID
	}
	if p.PageID != "" {
		return p.PageID
	}
	if p.Data != nil {
		if p.Data.ID != "" {
			return p.Data.ID
		}
		if p.Data.PageID != "" {
			return p.Data.PageID
		}
		if p.Data.Entity != nil && p.Data.Entity.ID != "" {
			return p.Data.Entity.ID
		}
	}
	return ""
}
