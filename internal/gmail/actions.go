package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	gmailv1 "google.golang.org/api/gmail/v1"

	"mailpilot/internal/model"
)

// MarkRead removes the UNREAD label from one message.
func (b *Backend) MarkRead(ctx context.Context, id string) error {
	req := &gmailv1.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}
	if _, err := b.svc.Users.Messages.Modify("me", id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("mark read %s: %w", id, err)
	}
	return nil
}

// Send delivers one message and returns it as it will appear in the sent
// folder. The From header is left to Gmail, which fills in the account
// address.
func (b *Backend) Send(ctx context.Context, to, subject, body string) (model.Email, error) {
	raw := buildRawMessage(to, subject, body)
	msg := &gmailv1.Message{
		Raw: base64.RawURLEncoding.EncodeToString([]byte(raw)),
	}
	sent, err := b.svc.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return model.Email{}, fmt.Errorf("send message: %w", err)
	}
	return model.Email{
		ID:       sent.Id,
		ThreadID: sent.ThreadId,
		From:     "me",
		To:       to,
		Subject:  subject,
		Body:     body,
		Snippet:  snippetOf(body),
		Date:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// buildRawMessage assembles the RFC 822 text for one outgoing message.
func buildRawMessage(to, subject, body string) string {
	var sb strings.Builder
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return sb.String()
}

func snippetOf(body string) string {
	s := strings.Join(strings.Fields(body), " ")
	const max = 100
	if len(s) > max {
		return s[:max]
	}
	return s
}
