package action

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailTransport delivers send_email through the Gmail API using OAuth
// credentials cached on disk (credentials.json + a saved token).
type GmailTransport struct {
	service *gmail.Service
}

// NewGmailTransport builds a Gmail transport from the OAuth client
// credentials and cached token at the given paths. Returns an error when
// either file is missing so callers can fall back to the simulated
// transport.
func NewGmailTransport(ctx context.Context, credentialsPath, tokenPath string) (*GmailTransport, error) {
	creds, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading gmail credentials: %w", err)
	}

	config, err := google.ConfigFromJSON(creds, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parsing gmail credentials: %w", err)
	}

	token, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("no gmail auth token at %s: %w", tokenPath, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &GmailTransport{service: svc}, nil
}

func (t *GmailTransport) Provider() string { return "gmail" }

func (t *GmailTransport) Send(_ context.Context, to, subject, body string) (EmailReceipt, error) {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	sent, err := t.service.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(msg.String())),
	}).Do()
	if err != nil {
		return EmailReceipt{}, fmt.Errorf("gmail send: %w", err)
	}

	return EmailReceipt{
		ID:        sent.Id,
		To:        to,
		Subject:   subject,
		Status:    "sent",
		SentAt:    time.Now().UTC().Format(time.RFC3339),
		MessageID: sent.Id,
		Provider:  "gmail",
	}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	return tok, json.NewDecoder(f).Decode(tok)
}
