package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mailpilot/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			PaddingBottom(1)

	transcriptUserStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205"))

	transcriptAssistantStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("36"))

	filterBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))
)

func detailHeader(e model.Email) string {
	return headerStyle.Render(fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\nDate: %s",
		e.From, e.To, e.Subject, trimDate(e.Date)))
}

func threadContent(emails []model.Email) string {
	var b strings.Builder
	for i, e := range emails {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("─", 40) + "\n\n")
		}
		b.WriteString(detailHeader(e))
		b.WriteString("\n")
		b.WriteString(e.Body)
		b.WriteString("\n")
	}
	return b.String()
}

// filterBadge summarizes the active filters for the inbox title line.
func filterBadge(f model.ActiveFilters) string {
	if f.Empty() {
		return ""
	}
	var parts []string
	if f.Unread != nil && *f.Unread {
		parts = append(parts, "unread")
	}
	if f.From != "" {
		parts = append(parts, "from:"+f.From)
	}
	if f.Days > 0 {
		parts = append(parts, fmt.Sprintf("last %dd", f.Days))
	}
	return filterBadgeStyle.Render(" [" + strings.Join(parts, " ") + "]")
}

// renderTranscript shows the last few assistant exchanges above the input bar.
func renderTranscript(msgs []model.ChatMessage, max int) string {
	if len(msgs) == 0 {
		return ""
	}
	if len(msgs) > max {
		msgs = msgs[len(msgs)-max:]
	}
	var b strings.Builder
	for _, m := range msgs {
		switch m.Role {
		case "user":
			b.WriteString(transcriptUserStyle.Render("you> ") + m.Content)
		default:
			b.WriteString(transcriptAssistantStyle.Render("ai>  ") + m.Content)
		}
		b.WriteString("\n")
	}
	return b.String()
}
