package feedback

// Envelope types.
const (
	TypeNotification             = "Notification"
	TypeSubscriptionConfirmation = "SubscriptionConfirmation"
	TypeUnsubscribeConfirmation  = "UnsubscribeConfirmation"
)

// Envelope is the pub/sub message wrapper posted to the feedback endpoint.
type Envelope struct {
	Type             string `json:"Type"`
	MessageID        string `json:"MessageId"`
	TopicArn         string `json:"TopicArn"`
	Subject          string `json:"Subject,omitempty"`
	Message          string `json:"Message"`
	Timestamp        string `json:"Timestamp"`
	Token            string `json:"Token,omitempty"`
	SignatureVersion string `json:"SignatureVersion"`
	Signature        string `json:"Signature"`
	SigningCertURL   string `json:"SigningCertURL"`
	SubscribeURL     string `json:"SubscribeURL,omitempty"`
}

// event is the provider notification nested inside Envelope.Message.
type event struct {
	NotificationType string `json:"notificationType"`
	EventType        string `json:"eventType"`
	Mail             struct {
		Destination []string `json:"destination"`
	} `json:"mail"`
	Bounce *struct {
		BounceType        string `json:"bounceType"`
		BounceSubType     string `json:"bounceSubType"`
		BouncedRecipients []struct {
			EmailAddress string `json:"emailAddress"`
		} `json:"bouncedRecipients"`
	} `json:"bounce"`
	Complaint *struct {
		ComplainedRecipients []struct {
			EmailAddress string `json:"emailAddress"`
		} `json:"complainedRecipients"`
	} `json:"complaint"`
}

// kind returns the event kind, tolerating both field spellings the provider
// has used over time.
func (e event) kind() string {
	if e.NotificationType != "" {
		return e.NotificationType
	}
	return e.EventType
}

// bouncedEmails prefers the per-bounce recipient list over the broad
// destination list, which may include addresses that did not bounce.
func (e event) bouncedEmails() []string {
	if e.Bounce != nil && len(e.Bounce.BouncedRecipients) > 0 {
		emails := make([]string, 0, len(e.Bounce.BouncedRecipients))
		for _, r := range e.Bounce.BouncedRecipients {
			emails = append(emails, r.EmailAddress)
		}
		return emails
	}
	return e.Mail.Destination
}

func (e event) complainedEmails() []string {
	if e.Complaint != nil && len(e.Complaint.ComplainedRecipients) > 0 {
		emails := make([]string, 0, len(e.Complaint.ComplainedRecipients))
		for _, r := range e.Complaint.ComplainedRecipients {
			emails = append(emails, r.EmailAddress)
		}
		return emails
	}
	return e.Mail.Destination
}
