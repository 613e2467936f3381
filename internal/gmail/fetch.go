// Package gmail is the Gmail-backed mail backend: OAuth setup, folder and
// search fetches, send, and the read-flag mirror.
package gmail

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gmailv1 "google.golang.org/api/gmail/v1"

	"mailpilot/internal/model"
)

const (
	defaultMaxResults = 50
	fetchWorkers      = 8
)

// Backend serves mail through the Gmail API. It implements the backend
// contract the mail store consumes.
type Backend struct {
	svc        *gmailv1.Service
	maxResults int64
}

// NewBackend wraps an authenticated Gmail service.
func NewBackend(svc *gmailv1.Service) *Backend {
	return &Backend{svc: svc, maxResults: defaultMaxResults}
}

// Inbox returns the most recent inbox messages, newest first.
func (b *Backend) Inbox(ctx context.Context) ([]model.Email, error) {
	return b.fetchByLabel(ctx, "INBOX")
}

// Sent returns the most recent sent messages, newest first.
func (b *Backend) Sent(ctx context.Context) ([]model.Email, error) {
	return b.fetchByLabel(ctx, "SENT")
}

// Search runs a Gmail query (e.g. "from:sarah subject:project").
func (b *Backend) Search(ctx context.Context, query string) ([]model.Email, error) {
	list, err := b.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(b.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	return b.fetchFull(ctx, list.Messages)
}

// ThreadEmails returns every message of one conversation, oldest first.
func (b *Backend) ThreadEmails(ctx context.Context, threadID string) ([]model.Email, error) {
	thread, err := b.svc.Users.Threads.Get("me", threadID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get thread %s: %w", threadID, err)
	}
	emails := make([]model.Email, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		emails = append(emails, emailFromMessage(msg))
	}
	return emails, nil
}

func (b *Backend) fetchByLabel(ctx context.Context, label string) ([]model.Email, error) {
	list, err := b.svc.Users.Messages.List("me").
		LabelIds(label).
		MaxResults(b.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return b.fetchFull(ctx, list.Messages)
}

// fetchFull downloads the listed messages concurrently with a bounded worker
// pool, preserving Gmail's list order (newest first).
func (b *Backend) fetchFull(ctx context.Context, refs []*gmailv1.Message) ([]model.Email, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	type job struct {
		idx int
		id  string
	}
	type result struct {
		idx   int
		email model.Email
		err   error
	}

	jobs := make(chan job, len(refs))
	results := make(chan result, len(refs))

	workers := fetchWorkers
	if workers > len(refs) {
		workers = len(refs)
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					results <- result{idx: j.idx, err: ctx.Err()}
					continue
				default:
				}
				msg, err := b.svc.Users.Messages.Get("me", j.id).
					Format("full").
					Context(ctx).
					Do()
				if err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				results <- result{idx: j.idx, email: emailFromMessage(msg)}
			}
		}()
	}

	for i, ref := range refs {
		jobs <- job{idx: i, id: ref.Id}
	}
	close(jobs)
	wg.Wait()
	close(results)

	emails := make([]model.Email, len(refs))
	present := make([]bool, len(refs))
	var firstErr error
	for r := range results {
		if r.err != nil {
			// Keep the first error but return what we got.
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		emails[r.idx] = r.email
		present[r.idx] = true
	}

	out := make([]model.Email, 0, len(refs))
	for i, ok := range present {
		if ok {
			out = append(out, emails[i])
		}
	}
	if len(out) == 0 && firstErr != nil {
		return nil, fmt.Errorf("fetch messages: %w", firstErr)
	}
	return out, nil
}

// emailFromMessage converts one fully fetched Gmail message.
func emailFromMessage(msg *gmailv1.Message) model.Email {
	e := model.Email{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
	}

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "from":
				e.From = h.Value
			case "to":
				e.To = h.Value
			case "subject":
				e.Subject = h.Value
			case "date":
				e.Date = parseDateRFC3339(h.Value)
			}
		}
	}
	e.Body = bodyText(msg)

	if e.Date == "" && msg.InternalDate > 0 {
		e.Date = time.UnixMilli(msg.InternalDate).UTC().Format(time.RFC3339)
	}

	for _, label := range msg.LabelIds {
		if label == "UNREAD" {
			e.Unread = true
			break
		}
	}
	return e
}

func parseDateRFC3339(h string) string {
	if h == "" {
		return ""
	}
	// Try common formats Gmail uses in Date header.
	layouts := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		time.RFC850,
		time.RFC3339,
		"Mon, 2 Jan 2006 15:04:05 -0700",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, h); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}
