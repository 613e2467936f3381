package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"mailpilot/internal/model"
	"mailpilot/internal/util"
)

// emailItem wraps Email to customize list display.
type emailItem struct {
	model.Email
}

func (e emailItem) FilterValue() string { return e.From + " " + e.Subject }

func (e emailItem) Title() string {
	indicator := "  "
	if e.Unread {
		indicator = "* "
	}
	return indicator + util.DisplayName(e.From)
}

func (e emailItem) Description() string {
	if e.Date != "" {
		return fmt.Sprintf("%s  %s", e.Subject, trimDate(e.Date))
	}
	return e.Subject
}

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	PaddingTop(1)

func inboxFooter() string {
	return footerStyle.Render("enter: open  c: compose  s: sent  x: clear filters  i: assistant  q: quit")
}

func sentFooter() string {
	return footerStyle.Render("enter: open  c: compose  b: inbox  i: assistant  q: quit")
}

func detailFooter() string {
	return footerStyle.Render("r: reply  t: thread  esc: back  i: assistant  q: quit")
}

func threadFooter() string {
	return footerStyle.Render("esc: back  i: assistant  q: quit")
}

func composeFooter() string {
	return footerStyle.Render("tab: next field  ctrl+s: send  esc: cancel")
}

func emailsToItems(emails []model.Email) []list.Item {
	items := make([]list.Item, len(emails))
	for i, e := range emails {
		items[i] = emailItem{e}
	}
	return items
}

// trimDate converts an RFC3339 timestamp to a short date string.
func trimDate(rfc3339 string) string {
	if rfc3339 == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, rfc3339); err == nil {
		return t.Format("Jan 2, 2006")
	}
	return rfc3339
}
