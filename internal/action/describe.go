package action

import (
	"fmt"
	"strings"
)

// Describe renders an action for the assistant transcript. It mirrors the
// per-action argument contract in Schemas.
func Describe(a Action) string {
	args := a.args()
	switch a.Name {
	case OpenCompose:
		return "Opening compose email..."
	case FillCompose:
		return fmt.Sprintf("Composing email to %s: %q", args.To, args.Subject)
	case SendEmail:
		return "Sending email..."
	case FilterInbox:
		var parts []string
		if args.From != "" {
			parts = append(parts, "from: "+args.From)
		}
		if args.Unread != nil && *args.Unread {
			parts = append(parts, "unread only")
		}
		if args.Days > 0 {
			parts = append(parts, fmt.Sprintf("last %d days", args.Days))
		}
		if len(parts) == 0 {
			return "Filtering inbox (all)"
		}
		return fmt.Sprintf("Filtering inbox (%s)", strings.Join(parts, ", "))
	case OpenEmail:
		return "Opening email..."
	case ReplyCurrent:
		return "Preparing reply..."
	case AskConfirmation:
		return args.Message
	case ViewInbox:
		return "Navigating to inbox..."
	case ViewSent:
		return "Navigating to sent mail..."
	case ClearFilters:
		return "Clearing all filters..."
	case SearchEmails:
		return fmt.Sprintf("Searching: %q", args.Query)
	default:
		return "Processing..."
	}
}
