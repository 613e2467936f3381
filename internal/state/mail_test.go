package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mailpilot/internal/model"
)

type fakeBackend struct {
	mu      sync.Mutex
	inbox   []model.Email
	sent    []model.Email
	results []model.Email
	err     error
	marked  []string
	sendSeq int
}

func (b *fakeBackend) Inbox(context.Context) ([]model.Email, error) {
	return b.inbox, b.err
}

func (b *fakeBackend) Sent(context.Context) ([]model.Email, error) {
	return b.sent, b.err
}

func (b *fakeBackend) Search(_ context.Context, query string) ([]model.Email, error) {
	return b.results, b.err
}

func (b *fakeBackend) Send(_ context.Context, to, subject, body string) (model.Email, error) {
	if b.err != nil {
		return model.Email{}, b.err
	}
	b.sendSeq++
	return model.Email{
		ID:      fmt.Sprintf("sent-%d", b.sendSeq),
		To:      to,
		Subject: subject,
		Body:    body,
		Date:    time.Now().Format(time.RFC3339),
	}, nil
}

func (b *fakeBackend) MarkRead(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.marked = append(b.marked, id)
	return nil
}

func email(id, from, subject string, unread bool, age time.Duration) model.Email {
	return model.Email{
		ID:      id,
		From:    from,
		Subject: subject,
		Unread:  unread,
		Date:    time.Now().Add(-age).Format(time.RFC3339),
	}
}

func TestFetchInboxReplacesList(t *testing.T) {
	b := &fakeBackend{inbox: []model.Email{email("1", "a@x.com", "s1", true, time.Hour)}}
	m := NewMail(b, nil)
	m.SetInbox([]model.Email{email("stale", "old@x.com", "old", false, 48*time.Hour)})

	if err := m.FetchInbox(context.Background()); err != nil {
		t.Fatalf("FetchInbox: %v", err)
	}
	got := m.Inbox()
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("inbox = %+v", got)
	}
	if m.Err() != nil {
		t.Fatalf("err = %v, want nil after success", m.Err())
	}
}

func TestFetchInboxErrorKeepsOldList(t *testing.T) {
	b := &fakeBackend{err: errors.New("offline")}
	m := NewMail(b, nil)
	m.SetInbox([]model.Email{email("1", "a@x.com", "s1", true, time.Hour)})

	if err := m.FetchInbox(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(m.Inbox()) != 1 {
		t.Fatal("a failed fetch must keep the previous list")
	}
	if m.Err() == nil {
		t.Fatal("failure must be recorded on the error channel")
	}
}

func TestSearchEmailsRecordsQueryAndResults(t *testing.T) {
	b := &fakeBackend{results: []model.Email{email("9", "sarah@x.com", "project", false, time.Hour)}}
	m := NewMail(b, nil)

	if err := m.SearchEmails(context.Background(), "from:sarah project"); err != nil {
		t.Fatalf("SearchEmails: %v", err)
	}
	results, query := m.SearchResults()
	if query != "from:sarah project" || len(results) != 1 {
		t.Fatalf("results=%+v query=%q", results, query)
	}

	m.ClearSearch()
	results, query = m.SearchResults()
	if query != "" || len(results) != 0 {
		t.Fatal("ClearSearch must drop both results and query")
	}
}

func TestSendEmailPrependsToSent(t *testing.T) {
	b := &fakeBackend{}
	m := NewMail(b, nil)
	m.SetSent([]model.Email{email("old", "me", "earlier", false, time.Hour)})

	if !m.SendEmail(context.Background(), "bob@x.com", "Hi", "Hello") {
		t.Fatal("send should succeed")
	}
	sent := m.Sent()
	if len(sent) != 2 || sent[0].To != "bob@x.com" {
		t.Fatalf("sent = %+v", sent)
	}
}

func TestSendEmailFailureReturnsFalse(t *testing.T) {
	b := &fakeBackend{err: errors.New("smtp refused")}
	m := NewMail(b, nil)
	if m.SendEmail(context.Background(), "bob@x.com", "Hi", "Hello") {
		t.Fatal("send should report failure")
	}
	if len(m.Sent()) != 0 {
		t.Fatal("failed send must not touch the sent list")
	}
	if m.Err() == nil {
		t.Fatal("underlying error must stay readable")
	}
}

func TestGetEmailByIDChecksInboxThenSent(t *testing.T) {
	m := NewMail(&fakeBackend{}, nil)
	m.SetInbox([]model.Email{email("in", "a@x.com", "inbox mail", true, time.Hour)})
	m.SetSent([]model.Email{email("out", "me", "sent mail", false, time.Hour)})

	if e, ok := m.GetEmailByID("in"); !ok || e.Subject != "inbox mail" {
		t.Fatalf("inbox lookup: %+v %v", e, ok)
	}
	if e, ok := m.GetEmailByID("out"); !ok || e.Subject != "sent mail" {
		t.Fatalf("sent lookup: %+v %v", e, ok)
	}
	if _, ok := m.GetEmailByID("missing"); ok {
		t.Fatal("unknown id must report not found")
	}
}

func TestMarkAsReadUpdatesLocalState(t *testing.T) {
	b := &fakeBackend{}
	m := NewMail(b, nil)
	m.SetInbox([]model.Email{email("1", "a@x.com", "s", true, time.Hour)})

	m.MarkAsRead("1")
	if m.Inbox()[0].Unread {
		t.Fatal("local unread flag must clear immediately")
	}
}

func TestFilteredInbox(t *testing.T) {
	unread := true
	read := false
	m := NewMail(&fakeBackend{}, nil)
	m.SetInbox([]model.Email{
		email("1", "Alice <alice@x.com>", "a", true, 2*time.Hour),
		email("2", "bob@x.com", "b", false, 3*24*time.Hour),
		email("3", "alice@x.com", "c", false, 10*24*time.Hour),
	})

	if got := m.FilteredInbox(model.ActiveFilters{}); len(got) != 3 {
		t.Fatalf("empty filters: %d emails, want 3", len(got))
	}
	if got := m.FilteredInbox(model.ActiveFilters{From: "ALICE"}); len(got) != 2 {
		t.Fatalf("from filter is case-insensitive substring: got %d, want 2", len(got))
	}
	if got := m.FilteredInbox(model.ActiveFilters{Unread: &unread}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unread filter: %+v", got)
	}
	if got := m.FilteredInbox(model.ActiveFilters{Unread: &read}); len(got) != 2 {
		t.Fatalf("unread=false is a constraint, not absence: got %d, want 2", len(got))
	}
	if got := m.FilteredInbox(model.ActiveFilters{Days: 7}); len(got) != 2 {
		t.Fatalf("days filter: got %d, want 2", len(got))
	}
	if got := m.FilteredInbox(model.ActiveFilters{From: "alice", Days: 7}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("combined filters: %+v", got)
	}
}

func TestFilteredInboxNormalizesSenderAddress(t *testing.T) {
	m := NewMail(&fakeBackend{}, nil)
	m.SetInbox([]model.Email{
		email("1", "Alice <alice+news@X.com>", "a", true, time.Hour),
		email("2", "Bob Park <bob@x.com>", "b", false, time.Hour),
	})

	// The raw header never contains "alice@x.com" (the +alias and the
	// uppercase domain are in the way); the normalized address does.
	if got := m.FilteredInbox(model.ActiveFilters{From: "alice@x.com"}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("normalized address match: %+v", got)
	}
	// Display-name matching still works on the raw header.
	if got := m.FilteredInbox(model.ActiveFilters{From: "bob park"}); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("display name match: %+v", got)
	}
	if got := m.FilteredInbox(model.ActiveFilters{From: "carol@x.com"}); len(got) != 0 {
		t.Fatalf("no match expected: %+v", got)
	}
}

func TestInboxIDsPreserveOrder(t *testing.T) {
	m := NewMail(&fakeBackend{}, nil)
	m.SetInbox([]model.Email{
		email("b", "x", "1", false, time.Hour),
		email("a", "y", "2", false, time.Hour),
	})
	ids := m.InboxIDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("ids = %v", ids)
	}
}
