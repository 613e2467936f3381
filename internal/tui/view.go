package tui

import (
	"strings"

	"mailpilot/internal/model"
)

// View renders the screen for the current UI state: the active view on top,
// then the assistant transcript, input bar, and footer.
func (m *AppModel) View() string {
	var b strings.Builder

	switch m.ui.CurrentView() {
	case model.ViewInbox:
		b.WriteString(m.inboxList.View())
	case model.ViewSent:
		b.WriteString(m.sentList.View())
	case model.ViewDetail, model.ViewThread:
		b.WriteString(m.bodyViewport.View())
	case model.ViewCompose:
		b.WriteString(m.composeView())
	}
	b.WriteString("\n")

	if conf := m.ui.Confirmation(); conf != "" {
		b.WriteString(filterBadgeStyle.Render("? "+conf) + "\n")
	}

	if t := renderTranscript(m.ui.Transcript(), 4); t != "" {
		b.WriteString("\n")
		b.WriteString(t)
	}

	b.WriteString("\n")
	b.WriteString(m.assistantInput.View())
	b.WriteString("\n")
	b.WriteString(m.footer())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	return b.String()
}

func (m *AppModel) composeView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("New Email"))
	b.WriteString("\n")
	b.WriteString("To:      " + m.composeTo.View() + "\n")
	b.WriteString("Subject: " + m.composeSubject.View() + "\n\n")
	b.WriteString(m.composeBody.View())
	return b.String()
}

func (m *AppModel) footer() string {
	switch m.ui.CurrentView() {
	case model.ViewSent:
		return sentFooter()
	case model.ViewDetail:
		return detailFooter()
	case model.ViewThread:
		return threadFooter()
	case model.ViewCompose:
		return composeFooter()
	default:
		return inboxFooter()
	}
}
