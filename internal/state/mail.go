package state

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mailpilot/internal/model"
	"mailpilot/internal/util"
)

// Backend is the mail system behind the store: list, search, send, and the
// read-flag mirror. The Gmail implementation lives in internal/gmail; tests
// use an in-memory fake.
type Backend interface {
	Inbox(ctx context.Context) ([]model.Email, error)
	Sent(ctx context.Context) ([]model.Email, error)
	Search(ctx context.Context, query string) ([]model.Email, error)
	Send(ctx context.Context, to, subject, body string) (model.Email, error)
	MarkRead(ctx context.Context, id string) error
}

// ThreadLister is the optional backend capability for loading a whole
// conversation. The Gmail backend has it; the static backend does not.
type ThreadLister interface {
	ThreadEmails(ctx context.Context, threadID string) ([]model.Email, error)
}

// Cache persists fetched mail locally so the next session starts warm.
// Implemented by the sqlite store; nil disables caching.
type Cache interface {
	SaveEmails(ctx context.Context, folder string, emails []model.Email) error
	MarkRead(ctx context.Context, id string) error
}

// Mail owns the in-memory mail lists. All mutation goes through its methods;
// the dispatcher never touches the internals.
type Mail struct {
	mu            sync.RWMutex
	backend       Backend
	cache         Cache
	inbox         []model.Email
	sent          []model.Email
	searchResults []model.Email
	searchQuery   string
	loading       bool
	lastErr       error
}

// NewMail returns a store over the given backend. cache may be nil.
func NewMail(backend Backend, cache Cache) *Mail {
	return &Mail{backend: backend, cache: cache}
}

// SetInbox seeds the inbox list, e.g. from the local cache at startup.
func (m *Mail) SetInbox(emails []model.Email) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = emails
}

// SetSent seeds the sent list.
func (m *Mail) SetSent(emails []model.Email) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = emails
}

func (m *Mail) Inbox() []model.Email {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyEmails(m.inbox)
}

func (m *Mail) Sent() []model.Email {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyEmails(m.sent)
}

func (m *Mail) SearchResults() ([]model.Email, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyEmails(m.searchResults), m.searchQuery
}

func (m *Mail) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Err returns the last backend failure, cleared by the next successful call.
func (m *Mail) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// FetchInbox refetches the inbox from the backend. The failure is recorded
// on the store's own error channel; navigation deliberately does not block
// on it.
func (m *Mail) FetchInbox(ctx context.Context) error {
	m.setLoading(true)
	emails, err := m.backend.Inbox(ctx)
	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.lastErr = err
		m.mu.Unlock()
		return err
	}
	m.inbox = emails
	m.lastErr = nil
	m.mu.Unlock()
	m.saveToCache(ctx, "inbox", emails)
	return nil
}

// FetchSent refetches the sent folder.
func (m *Mail) FetchSent(ctx context.Context) error {
	m.setLoading(true)
	emails, err := m.backend.Sent(ctx)
	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.lastErr = err
		m.mu.Unlock()
		return err
	}
	m.sent = emails
	m.lastErr = nil
	m.mu.Unlock()
	m.saveToCache(ctx, "sent", emails)
	return nil
}

// SearchEmails runs a backend search and records results plus the query.
func (m *Mail) SearchEmails(ctx context.Context, query string) error {
	m.setLoading(true)
	emails, err := m.backend.Search(ctx, query)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.lastErr = err
		return err
	}
	m.searchResults = emails
	m.searchQuery = query
	m.lastErr = nil
	return nil
}

// ClearSearch drops the current search results and query.
func (m *Mail) ClearSearch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchResults = nil
	m.searchQuery = ""
}

// SendEmail sends through the backend and, on success, prepends the sent
// message to the sent list. The boolean is the collaborator contract the
// dispatcher consumes; the underlying error stays readable via Err.
func (m *Mail) SendEmail(ctx context.Context, to, subject, body string) bool {
	m.setLoading(true)
	email, err := m.backend.Send(ctx, to, subject, body)
	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.lastErr = err
		m.mu.Unlock()
		return false
	}
	m.sent = append([]model.Email{email}, m.sent...)
	m.lastErr = nil
	sent := copyEmails(m.sent)
	m.mu.Unlock()
	m.saveToCache(ctx, "sent", sent)
	return true
}

// GetEmailByID looks up an email in the inbox, then in sent.
func (m *Mail) GetEmailByID(id string) (model.Email, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.inbox {
		if e.ID == id {
			return e, true
		}
	}
	for _, e := range m.sent {
		if e.ID == id {
			return e, true
		}
	}
	return model.Email{}, false
}

// MarkAsRead clears the unread flag locally and mirrors the change to the
// cache and backend best-effort; the local state is the source of truth for
// the current session.
func (m *Mail) MarkAsRead(id string) {
	m.mu.Lock()
	for i := range m.inbox {
		if m.inbox[i].ID == id {
			m.inbox[i].Unread = false
		}
	}
	backend := m.backend
	cache := m.cache
	m.mu.Unlock()

	if cache != nil {
		_ = cache.MarkRead(context.Background(), id)
	}
	if backend != nil {
		go func() { _ = backend.MarkRead(context.Background(), id) }()
	}
}

// FilteredInbox applies the active filters: sender match (case-insensitive,
// against the raw header and the normalized address), unread flag when
// constrained, and a last-N-days window.
func (m *Mail) FilteredInbox(f model.ActiveFilters) []model.Email {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var cutoff time.Time
	if f.Days > 0 {
		cutoff = time.Now().AddDate(0, 0, -f.Days)
	}

	var out []model.Email
	for _, e := range m.inbox {
		if f.From != "" && !matchesSender(e.From, f.From) {
			continue
		}
		if f.Unread != nil && e.Unread != *f.Unread {
			continue
		}
		if f.Days > 0 && e.Time().Before(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ThreadEmails loads one conversation, oldest first. Backends without thread
// support fall back to the in-memory lists filtered by thread id.
func (m *Mail) ThreadEmails(ctx context.Context, threadID string) ([]model.Email, error) {
	if tl, ok := m.backend.(ThreadLister); ok {
		return tl.ThreadEmails(ctx, threadID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Email
	for _, e := range append(copyEmails(m.inbox), m.sent...) {
		if e.ThreadID == threadID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// InboxIDs returns the inbox ids in display order, for the prompt context.
func (m *Mail) InboxIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, len(m.inbox))
	for i, e := range m.inbox {
		ids[i] = e.ID
	}
	return ids
}

func (m *Mail) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func (m *Mail) saveToCache(ctx context.Context, folder string, emails []model.Email) {
	if m.cache == nil {
		return
	}
	_ = m.cache.SaveEmails(ctx, folder, emails)
}

// matchesSender reports whether the from filter hits the raw header or the
// normalized sender address, so "alice@x.com" matches "Alice <alice+news@X.com>".
func matchesSender(fromHeader, filter string) bool {
	needle := strings.ToLower(filter)
	if strings.Contains(strings.ToLower(fromHeader), needle) {
		return true
	}
	return strings.Contains(util.NormalizeSender(fromHeader), needle)
}

func copyEmails(in []model.Email) []model.Email {
	out := make([]model.Email, len(in))
	copy(out, in)
	return out
}
