package action

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// emailPattern is a syntax check, not full RFC validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailReceipt is the transport's record of a sent message.
type EmailReceipt struct {
	ID        string `json:"id"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	SentAt    string `json:"sent_at"`
	MessageID string `json:"message_id"`
	Provider  string `json:"provider"`
}

// EmailTransport delivers a message. Implementations: Gmail API and a
// simulated transport for when no credentials are configured.
type EmailTransport interface {
	Send(ctx context.Context, to, subject, body string) (EmailReceipt, error)
	Provider() string
}

// EmailProvider answers send_email through an injected transport.
type EmailProvider struct {
	transport EmailTransport
}

// NewEmailProvider creates the send_email capability.
func NewEmailProvider(transport EmailTransport) *EmailProvider {
	return &EmailProvider{transport: transport}
}

func (p *EmailProvider) Name() string { return "send_email" }

func (p *EmailProvider) Validate(params map[string]any) error {
	if stringParam(params, "to") == "" || stringParam(params, "subject") == "" {
		return missingParam("send_email", "'to' and 'subject'")
	}
	return nil
}

func (p *EmailProvider) Invoke(ctx context.Context, params map[string]any) (any, error) {
	to := stringParam(params, "to")
	subject := stringParam(params, "subject")
	body := stringParam(params, "body")

	if !emailPattern.MatchString(to) {
		return nil, fmt.Errorf("invalid email address: %s", to)
	}

	receipt, err := p.transport.Send(ctx, to, subject, body)
	if err != nil {
		return nil, fmt.Errorf("sending email: %w", err)
	}

	return map[string]any{
		"success": true,
		"message": fmt.Sprintf("Email sent successfully (%s)", p.transport.Provider()),
		"email": map[string]any{
			"id":         receipt.ID,
			"to":         receipt.To,
			"subject":    receipt.Subject,
			"status":     receipt.Status,
			"sent_at":    receipt.SentAt,
			"message_id": receipt.MessageID,
			"provider":   receipt.Provider,
		},
	}, nil
}

// Format falls back to the generic template; the payload is
// self-describing.
func (p *EmailProvider) Format(any) (string, bool) { return "", false }

// SimulatedEmailTransport records the send without delivering anything.
// Used when no mail credentials are configured.
type SimulatedEmailTransport struct{}

func (SimulatedEmailTransport) Provider() string { return "simulated" }

func (SimulatedEmailTransport) Send(_ context.Context, to, subject, _ string) (EmailReceipt, error) {
	now := time.Now()
	return EmailReceipt{
		ID:        fmt.Sprintf("email_%d", now.UnixMilli()),
		To:        to,
		Subject:   subject,
		Status:    "sent",
		SentAt:    now.UTC().Format(time.RFC3339),
		MessageID: "msg_" + uuid.New().String(),
		Provider:  "simulation",
	}, nil
}
