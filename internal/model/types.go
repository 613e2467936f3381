package model

import "time"

// Email is a single message as the client sees it. ID is the stable lookup
// key; Unread is the only flag the client itself mutates.
type Email struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date"` // RFC3339
	Unread   bool   `json:"unread"`
}

// Time parses the RFC3339 date, returning the zero time if it is missing or
// malformed.
func (e Email) Time() time.Time {
	t, err := time.Parse(time.RFC3339, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ComposeDraft is an in-progress, unsent message.
type ComposeDraft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ActiveFilters narrows the inbox view. A missing field means "no constraint
// on that dimension", so Unread must be a pointer: unread=false is a real
// constraint, distinct from absent.
type ActiveFilters struct {
	From   string `json:"from,omitempty"`
	Unread *bool  `json:"unread,omitempty"`
	Days   int    `json:"days,omitempty"`
}

// Empty reports whether no dimension is constrained.
func (f ActiveFilters) Empty() bool {
	return f.From == "" && f.Unread == nil && f.Days == 0
}

// ViewType names the screens the client can show.
type ViewType string

const (
	ViewInbox   ViewType = "inbox"
	ViewSent    ViewType = "sent"
	ViewCompose ViewType = "compose"
	ViewDetail  ViewType = "detail"
	ViewThread  ViewType = "thread"
)

// ChatMessage is one entry in the assistant transcript for the current
// session. The transcript is never persisted.
type ChatMessage struct {
	Role    string // "user" or "assistant"
	Content string
}
