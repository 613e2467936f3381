// Package dispatch executes exactly one validated action against the UI and
// mail stores. It is a pure switch over the action tag: no state of its own,
// no retries, and every path ends in a Result the transcript can show.
package dispatch

import (
	"context"
	"fmt"

	"mailpilot/internal/action"
	"mailpilot/internal/model"
)

// UI is the view-state capability set the dispatcher needs.
type UI interface {
	OpenCompose()
	OpenComposeWithDraft(d model.ComposeDraft)
	ClearDraft()
	OpenEmail(id string)
	SetView(v model.ViewType)
	SetFilters(f model.ActiveFilters)
	ClearFilters()
	SetConfirmation(message string)
	SelectedEmailID() string
	ComposeDraft() *model.ComposeDraft
}

// Mail is the mail-state capability set the dispatcher needs.
type Mail interface {
	GetEmailByID(id string) (model.Email, bool)
	MarkAsRead(id string)
	SendEmail(ctx context.Context, to, subject, body string) bool
	FetchInbox(ctx context.Context) error
	FetchSent(ctx context.Context) error
	SearchEmails(ctx context.Context, query string) error
}

// Result is the outcome of one dispatched action.
type Result struct {
	Success              bool
	Message              string
	RequiresConfirmation bool
}

// Dispatch runs one action to completion. Mutating effects happen only after
// every precondition check has passed, so a failed action leaves no partial
// state. One action is in flight at a time; the caller enforces that.
func Dispatch(ctx context.Context, act action.Action, ui UI, mail Mail) Result {
	args := argsOf(act)

	switch act.Name {
	case action.OpenCompose:
		ui.OpenCompose()
		return Result{Success: true, Message: "Compose opened"}

	case action.FillCompose:
		ui.OpenComposeWithDraft(model.ComposeDraft{
			To:      args.To,
			Subject: args.Subject,
			Body:    args.Body,
		})
		return Result{Success: true, Message: fmt.Sprintf("Compose opened with draft to %s", args.To)}

	case action.SendEmail:
		draft := ui.ComposeDraft()
		if draft == nil || draft.To == "" || draft.Subject == "" {
			return Result{Message: "No email draft to send. Please compose an email first."}
		}
		if !mail.SendEmail(ctx, draft.To, draft.Subject, draft.Body) {
			// The draft survives a failed send so the user can retry.
			return Result{Message: "Failed to send email"}
		}
		ui.ClearDraft()
		ui.SetView(model.ViewSent)
		return Result{Success: true, Message: fmt.Sprintf("Email sent to %s", draft.To)}

	case action.FilterInbox:
		filters := act.Filters()
		ui.SetFilters(filters)
		return Result{Success: true, Message: filterMessage(filters)}

	case action.ClearFilters:
		ui.ClearFilters()
		return Result{Success: true, Message: "All filters cleared"}

	case action.OpenEmail:
		email, ok := mail.GetEmailByID(args.EmailID)
		if !ok {
			return Result{Message: "Email not found"}
		}
		ui.OpenEmail(args.EmailID)
		mail.MarkAsRead(args.EmailID)
		return Result{Success: true, Message: fmt.Sprintf("Opened: %s", email.Subject)}

	case action.ReplyCurrent:
		selectedID := ui.SelectedEmailID()
		if selectedID == "" {
			return Result{Message: "No email selected to reply to"}
		}
		selected, ok := mail.GetEmailByID(selectedID)
		if !ok {
			return Result{Message: "Selected email not found"}
		}
		// Recipient and subject derive from the selected email, never from
		// model-supplied args, so the reply target cannot be spoofed.
		ui.OpenComposeWithDraft(model.ComposeDraft{
			To:      selected.From,
			Subject: "Re: " + selected.Subject,
			Body:    args.Body,
		})
		return Result{Success: true, Message: fmt.Sprintf("Replying to %s", selected.From)}

	case action.AskConfirmation:
		ui.SetConfirmation(args.Message)
		return Result{Success: true, Message: args.Message, RequiresConfirmation: true}

	case action.ViewInbox:
		// Refetch failure surfaces on the mail store's own error channel;
		// navigation stays non-blocking on data issues.
		_ = mail.FetchInbox(ctx)
		ui.SetView(model.ViewInbox)
		return Result{Success: true, Message: "Viewing inbox"}

	case action.ViewSent:
		_ = mail.FetchSent(ctx)
		ui.SetView(model.ViewSent)
		return Result{Success: true, Message: "Viewing sent mail"}

	case action.SearchEmails:
		_ = mail.SearchEmails(ctx, args.Query)
		ui.SetView(model.ViewInbox)
		return Result{Success: true, Message: fmt.Sprintf("Searching for: %q", args.Query)}

	default:
		// The parser should have rejected this already; defend independently.
		return Result{Message: "Unknown action"}
	}
}

func argsOf(act action.Action) action.Args {
	if act.Args == nil {
		return action.Args{}
	}
	return *act.Args
}

func filterMessage(f model.ActiveFilters) string {
	msg := "Inbox filtered"
	if f.Unread != nil && *f.Unread {
		msg += " (unread only)"
	}
	if f.From != "" {
		msg += fmt.Sprintf(" from %s", f.From)
	}
	if f.Days > 0 {
		msg += fmt.Sprintf(" (last %d days)", f.Days)
	}
	return msg
}
