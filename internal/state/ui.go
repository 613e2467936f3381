// Package state holds the two mutable single-owner stores the dispatcher
// acts on: UI state (view, draft, filters, transcript) and mail state
// (inbox, sent, search results). The stores are injected into the dispatcher
// rather than reached as globals, so tests can substitute fakes.
package state

import (
	"sync"

	"mailpilot/internal/model"
)

// UI is the client-side view state.
type UI struct {
	mu              sync.RWMutex
	currentView     model.ViewType
	selectedEmailID string
	composeDraft    *model.ComposeDraft
	activeFilters   model.ActiveFilters
	confirmation    string
	transcript      []model.ChatMessage
}

// NewUI returns a UI store showing the inbox with nothing selected.
func NewUI() *UI {
	return &UI{currentView: model.ViewInbox}
}

func (u *UI) CurrentView() model.ViewType {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.currentView
}

// SetView switches the visible screen. Leaving the detail view drops the
// selection so stale ids can never be replied to.
func (u *UI) SetView(v model.ViewType) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.currentView = v
	if v != model.ViewDetail && v != model.ViewThread {
		u.selectedEmailID = ""
	}
}

// OpenEmail switches to the detail view with the given email selected.
func (u *UI) OpenEmail(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.currentView = model.ViewDetail
	u.selectedEmailID = id
}

func (u *UI) SelectedEmailID() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.selectedEmailID
}

// OpenCompose opens an empty draft.
func (u *UI) OpenCompose() {
	u.OpenComposeWithDraft(model.ComposeDraft{})
}

// OpenComposeWithDraft opens the compose view prefilled.
func (u *UI) OpenComposeWithDraft(d model.ComposeDraft) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.currentView = model.ViewCompose
	u.composeDraft = &d
}

// UpdateDraft replaces the draft contents without changing the view. Used by
// the compose form as the user types.
func (u *UI) UpdateDraft(d model.ComposeDraft) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.composeDraft = &d
}

func (u *UI) ClearDraft() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.composeDraft = nil
}

// ComposeDraft returns a copy of the current draft, or nil if none is open.
func (u *UI) ComposeDraft() *model.ComposeDraft {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.composeDraft == nil {
		return nil
	}
	d := *u.composeDraft
	return &d
}

// SetFilters replaces the active filter set verbatim and jumps to the inbox,
// where filters apply. Replacement, not merge: a bare unread filter clears a
// previously set sender filter.
func (u *UI) SetFilters(f model.ActiveFilters) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.activeFilters = f
	u.currentView = model.ViewInbox
	u.selectedEmailID = ""
}

func (u *UI) ClearFilters() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.activeFilters = model.ActiveFilters{}
}

func (u *UI) ActiveFilters() model.ActiveFilters {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.activeFilters
}

// SetConfirmation records a pending question for the user. An empty message
// clears it.
func (u *UI) SetConfirmation(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.confirmation = message
}

func (u *UI) Confirmation() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.confirmation
}

// AddMessage appends one transcript entry. Role is "user" or "assistant".
func (u *UI) AddMessage(role, content string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.transcript = append(u.transcript, model.ChatMessage{Role: role, Content: content})
}

// Transcript returns a copy of the session transcript.
func (u *UI) Transcript() []model.ChatMessage {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]model.ChatMessage, len(u.transcript))
	copy(out, u.transcript)
	return out
}

func (u *UI) ClearTranscript() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.transcript = nil
}
