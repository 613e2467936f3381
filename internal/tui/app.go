// Package tui is the terminal front end. All mutation flows through the
// dispatcher, whether a key binding or the assistant triggered it, so both
// paths obey the same preconditions.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"mailpilot/internal/action"
	"mailpilot/internal/assistant"
	"mailpilot/internal/dispatch"
	"mailpilot/internal/model"
	"mailpilot/internal/state"
)

const (
	composeFieldTo = iota
	composeFieldSubject
	composeFieldBody
)

type AppModel struct {
	ui        *state.UI
	mail      *state.Mail
	assistant *assistant.Assistant

	// Sub-models
	inboxList      list.Model
	sentList       list.Model
	bodyViewport   viewport.Model
	assistantInput textinput.Model

	// Compose form
	composeTo      textinput.Model
	composeSubject textinput.Model
	composeBody    textarea.Model
	composeFocus   int
	composeOpen    bool

	// One request in flight at a time; the input stays disabled meanwhile.
	pending bool

	status        string
	width, height int
}

func NewAppModel(ui *state.UI, mail *state.Mail, asst *assistant.Assistant) AppModel {
	inbox := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	inbox.Title = "Inbox"
	inbox.KeyMap.Quit.SetKeys("q")

	sent := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	sent.Title = "Sent"
	sent.KeyMap.Quit.SetKeys("q")

	ai := textinput.New()
	ai.Placeholder = "Ask the assistant (i to focus)"
	ai.CharLimit = 500

	to := textinput.New()
	to.Placeholder = "To"
	subject := textinput.New()
	subject.Placeholder = "Subject"
	body := textarea.New()
	body.Placeholder = "Write your email..."

	return AppModel{
		ui:             ui,
		mail:           mail,
		assistant:      asst,
		inboxList:      inbox,
		sentList:       sent,
		bodyViewport:   viewport.New(0, 0),
		assistantInput: ai,
		composeTo:      to,
		composeSubject: subject,
		composeBody:    body,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadFolderCmd("inbox"),
		m.loadFolderCmd("sent"),
		textinput.Blink,
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listH := msg.Height - 8 // transcript + input bar + footer
		m.inboxList.SetSize(msg.Width, listH)
		m.sentList.SetSize(msg.Width, listH)
		m.bodyViewport.Width = msg.Width
		m.bodyViewport.Height = msg.Height - 10
		m.assistantInput.Width = msg.Width - 4
		m.composeTo.Width = msg.Width - 10
		m.composeSubject.Width = msg.Width - 10
		m.composeBody.SetWidth(msg.Width - 4)
		m.composeBody.SetHeight(msg.Height - 14)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case folderLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to load %s: %v", msg.folder, msg.err)
			return m, clearStatusAfter(3 * time.Second)
		}
		m.refreshLists()
		return m, nil

	case dispatchDoneMsg:
		m.pending = false
		m.assistantInput.Placeholder = "Ask the assistant (i to focus)"
		if msg.result.Message != "" {
			m.status = msg.result.Message
		}
		m.syncFromState()
		return m, clearStatusAfter(4 * time.Second)

	case threadLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to load thread: %v", msg.err)
			return m, clearStatusAfter(3 * time.Second)
		}
		m.bodyViewport.SetContent(threadContent(msg.emails))
		m.bodyViewport.GotoTop()
		m.ui.SetView(model.ViewThread)
		return m, nil

	case statusMsg:
		if string(msg) == "" {
			m.status = ""
		}
		return m, nil
	}

	return m.updateActiveComponent(msg)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// Assistant input owns the keyboard while focused.
	if m.assistantInput.Focused() {
		switch key {
		case "enter":
			text := m.assistantInput.Value()
			if text == "" || m.pending {
				return m, nil
			}
			m.assistantInput.Reset()
			m.assistantInput.Blur()
			m.pending = true
			m.assistantInput.Placeholder = "Thinking..."
			return m, m.assistantCmd(text)
		case "esc":
			m.assistantInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.assistantInput, cmd = m.assistantInput.Update(msg)
		return m, cmd
	}

	switch m.ui.CurrentView() {
	case model.ViewCompose:
		return m.handleComposeKey(msg)

	case model.ViewInbox:
		if m.inboxList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.inboxList, cmd = m.inboxList.Update(msg)
			return m, cmd
		}
		switch key {
		case "q":
			return m, tea.Quit
		case "i":
			return m, m.focusAssistant()
		case "enter":
			if item, ok := m.inboxList.SelectedItem().(emailItem); ok {
				return m, m.dispatchCmd(action.Action{
					Name: action.OpenEmail,
					Args: &action.Args{EmailID: item.ID},
				})
			}
			return m, nil
		case "c":
			return m, m.dispatchCmd(action.Action{Name: action.OpenCompose})
		case "s":
			return m, m.dispatchCmd(action.Action{Name: action.ViewSent})
		case "x":
			return m, m.dispatchCmd(action.Action{Name: action.ClearFilters})
		}
		var cmd tea.Cmd
		m.inboxList, cmd = m.inboxList.Update(msg)
		return m, cmd

	case model.ViewSent:
		switch key {
		case "q":
			return m, tea.Quit
		case "i":
			return m, m.focusAssistant()
		case "enter":
			if item, ok := m.sentList.SelectedItem().(emailItem); ok {
				return m, m.dispatchCmd(action.Action{
					Name: action.OpenEmail,
					Args: &action.Args{EmailID: item.ID},
				})
			}
			return m, nil
		case "c":
			return m, m.dispatchCmd(action.Action{Name: action.OpenCompose})
		case "b":
			return m, m.dispatchCmd(action.Action{Name: action.ViewInbox})
		}
		var cmd tea.Cmd
		m.sentList, cmd = m.sentList.Update(msg)
		return m, cmd

	case model.ViewDetail:
		switch key {
		case "q":
			return m, tea.Quit
		case "i":
			return m, m.focusAssistant()
		case "esc":
			return m, m.dispatchCmd(action.Action{Name: action.ViewInbox})
		case "r":
			return m, m.dispatchCmd(action.Action{
				Name: action.ReplyCurrent,
				Args: &action.Args{Body: ""},
			})
		case "t":
			if e, ok := m.mail.GetEmailByID(m.ui.SelectedEmailID()); ok && e.ThreadID != "" {
				return m, m.loadThreadCmd(e.ThreadID)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.bodyViewport, cmd = m.bodyViewport.Update(msg)
		return m, cmd

	case model.ViewThread:
		switch key {
		case "q":
			return m, tea.Quit
		case "i":
			return m, m.focusAssistant()
		case "esc":
			m.ui.SetView(model.ViewDetail)
			m.syncFromState()
			return m, nil
		}
		var cmd tea.Cmd
		m.bodyViewport, cmd = m.bodyViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *AppModel) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composeOpen = false
		m.ui.ClearDraft()
		m.ui.SetView(model.ViewInbox)
		m.syncFromState()
		return m, nil
	case "tab":
		m.setComposeFocus((m.composeFocus + 1) % 3)
		return m, nil
	case "shift+tab":
		m.setComposeFocus((m.composeFocus + 2) % 3)
		return m, nil
	case "ctrl+s":
		m.ui.UpdateDraft(model.ComposeDraft{
			To:      m.composeTo.Value(),
			Subject: m.composeSubject.Value(),
			Body:    m.composeBody.Value(),
		})
		m.composeOpen = false
		return m, m.dispatchCmd(action.Action{Name: action.SendEmail})
	}

	var cmd tea.Cmd
	switch m.composeFocus {
	case composeFieldTo:
		m.composeTo, cmd = m.composeTo.Update(msg)
	case composeFieldSubject:
		m.composeSubject, cmd = m.composeSubject.Update(msg)
	case composeFieldBody:
		m.composeBody, cmd = m.composeBody.Update(msg)
	}
	m.ui.UpdateDraft(model.ComposeDraft{
		To:      m.composeTo.Value(),
		Subject: m.composeSubject.Value(),
		Body:    m.composeBody.Value(),
	})
	return m, cmd
}

func (m *AppModel) setComposeFocus(field int) {
	m.composeFocus = field
	m.composeTo.Blur()
	m.composeSubject.Blur()
	m.composeBody.Blur()
	switch field {
	case composeFieldTo:
		m.composeTo.Focus()
	case composeFieldSubject:
		m.composeSubject.Focus()
	case composeFieldBody:
		m.composeBody.Focus()
	}
}

func (m *AppModel) focusAssistant() tea.Cmd {
	if m.pending {
		return nil
	}
	m.assistantInput.Focus()
	return textinput.Blink
}

func (m *AppModel) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.ui.CurrentView() {
	case model.ViewInbox:
		m.inboxList, cmd = m.inboxList.Update(msg)
	case model.ViewSent:
		m.sentList, cmd = m.sentList.Update(msg)
	case model.ViewDetail, model.ViewThread:
		m.bodyViewport, cmd = m.bodyViewport.Update(msg)
	}
	return m, cmd
}

// syncFromState pulls the stores into the sub-models after a dispatch, so the
// rendered frame always reflects what the dispatcher did.
func (m *AppModel) syncFromState() {
	m.refreshLists()

	switch m.ui.CurrentView() {
	case model.ViewDetail:
		if e, ok := m.mail.GetEmailByID(m.ui.SelectedEmailID()); ok {
			m.bodyViewport.SetContent(detailHeader(e) + "\n" + e.Body)
			m.bodyViewport.GotoTop()
		}
	case model.ViewCompose:
		if !m.composeOpen {
			m.composeOpen = true
			draft := m.ui.ComposeDraft()
			if draft == nil {
				draft = &model.ComposeDraft{}
			}
			m.composeTo.SetValue(draft.To)
			m.composeSubject.SetValue(draft.Subject)
			m.composeBody.SetValue(draft.Body)
			m.setComposeFocus(composeFieldTo)
		}
	default:
		m.composeOpen = false
	}
}

func (m *AppModel) refreshLists() {
	filters := m.ui.ActiveFilters()
	results, query := m.mail.SearchResults()
	if query != "" {
		m.inboxList.SetItems(emailsToItems(results))
		m.inboxList.Title = fmt.Sprintf("Search: %q (%d)", query, len(results))
	} else {
		emails := m.mail.FilteredInbox(filters)
		m.inboxList.SetItems(emailsToItems(emails))
		m.inboxList.Title = fmt.Sprintf("Inbox (%d)", len(emails)) + filterBadge(filters)
	}

	sent := m.mail.Sent()
	m.sentList.SetItems(emailsToItems(sent))
	m.sentList.Title = fmt.Sprintf("Sent (%d)", len(sent))
}

// Commands

func (m *AppModel) loadFolderCmd(folder string) tea.Cmd {
	return func() tea.Msg {
		var err error
		if folder == "sent" {
			err = m.mail.FetchSent(context.Background())
		} else {
			err = m.mail.FetchInbox(context.Background())
		}
		return folderLoadedMsg{folder: folder, err: err}
	}
}

func (m *AppModel) assistantCmd(text string) tea.Cmd {
	return func() tea.Msg {
		res := m.assistant.Handle(context.Background(), text)
		return dispatchDoneMsg{result: res}
	}
}

func (m *AppModel) dispatchCmd(act action.Action) tea.Cmd {
	return func() tea.Msg {
		res := dispatch.Dispatch(context.Background(), act, m.ui, m.mail)
		return dispatchDoneMsg{result: res}
	}
}

func (m *AppModel) loadThreadCmd(threadID string) tea.Cmd {
	return func() tea.Msg {
		emails, err := m.mail.ThreadEmails(context.Background(), threadID)
		return threadLoadedMsg{emails: emails, err: err}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusMsg("")
	})
}
