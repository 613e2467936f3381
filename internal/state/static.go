package state

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mailpilot/internal/model"
)

// StaticBackend serves a fixed mailbox from memory. It stands in for Gmail
// when no credentials are configured, and is what the demo mode runs on.
type StaticBackend struct {
	mu      sync.Mutex
	inbox   []model.Email
	sent    []model.Email
	sendSeq int
}

// NewStaticBackend returns a backend over the given folders.
func NewStaticBackend(inbox, sent []model.Email) *StaticBackend {
	return &StaticBackend{inbox: inbox, sent: sent}
}

func (b *StaticBackend) Inbox(context.Context) ([]model.Email, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyEmails(b.inbox), nil
}

func (b *StaticBackend) Sent(context.Context) ([]model.Email, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyEmails(b.sent), nil
}

// Search matches the query against sender, subject and body. "from:x" terms
// constrain the sender; remaining terms must all appear somewhere.
func (b *StaticBackend) Search(_ context.Context, query string) ([]model.Email, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var from string
	var terms []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if rest, ok := strings.CutPrefix(tok, "from:"); ok {
			from = rest
			continue
		}
		terms = append(terms, strings.TrimPrefix(tok, "subject:"))
	}

	var out []model.Email
	for _, e := range append(copyEmails(b.inbox), b.sent...) {
		if from != "" && !strings.Contains(strings.ToLower(e.From), from) {
			continue
		}
		haystack := strings.ToLower(e.From + " " + e.Subject + " " + e.Body)
		matched := true
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, e)
		}
	}
	return out, nil
}

func (b *StaticBackend) Send(_ context.Context, to, subject, body string) (model.Email, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendSeq++
	e := model.Email{
		ID:      fmt.Sprintf("local-%d", b.sendSeq),
		From:    "me",
		To:      to,
		Subject: subject,
		Body:    body,
		Date:    time.Now().UTC().Format(time.RFC3339),
	}
	b.sent = append([]model.Email{e}, b.sent...)
	return e, nil
}

func (b *StaticBackend) MarkRead(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.inbox {
		if b.inbox[i].ID == id {
			b.inbox[i].Unread = false
		}
	}
	return nil
}

// SampleEmails returns the demo inbox used when no mail backend is configured.
func SampleEmails() []model.Email {
	now := time.Now().UTC()
	date := func(age time.Duration) string {
		return now.Add(-age).Format(time.RFC3339)
	}
	return []model.Email{
		{
			ID: "1", ThreadID: "t1",
			From: "Sarah Chen <sarah@acme.dev>", To: "me",
			Subject: "Project update - Q3 milestones",
			Body:    "Hi,\n\nQuick update on the Q3 milestones. The data pipeline migration finished ahead of schedule and the dashboard rollout starts next week.\n\nSarah",
			Snippet: "Quick update on the Q3 milestones.",
			Date:    date(2 * time.Hour), Unread: true,
		},
		{
			ID: "2", ThreadID: "t2",
			From: "GitHub <notifications@github.com>", To: "me",
			Subject: "[acme/pipeline] PR #214: Fix retry backoff",
			Body:    "A new pull request needs your review.",
			Snippet: "A new pull request needs your review.",
			Date:    date(5 * time.Hour), Unread: true,
		},
		{
			ID: "3", ThreadID: "t3",
			From: "Marcus Webb <marcus@acme.dev>", To: "me",
			Subject: "Lunch Thursday?",
			Body:    "Free Thursday? The new ramen place opened around the corner.",
			Snippet: "Free Thursday? The new ramen place opened.",
			Date:    date(26 * time.Hour),
		},
		{
			ID: "4", ThreadID: "t4",
			From: "Billing <billing@cloudhost.io>", To: "me",
			Subject: "Your August invoice is ready",
			Body:    "Your invoice for August is attached. Total: $42.17.",
			Snippet: "Your invoice for August is attached.",
			Date:    date(3 * 24 * time.Hour),
		},
		{
			ID: "5", ThreadID: "t5",
			From: "Priya Patel <priya@acme.dev>", To: "me",
			Subject: "Re: Design review notes",
			Body:    "Thanks for the notes. I folded the feedback on the empty states into the new mocks, link in the doc.",
			Snippet: "Thanks for the notes. I folded the feedback in.",
			Date:    date(9 * 24 * time.Hour),
		},
	}
}
