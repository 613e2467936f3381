// Package action defines the contract between model output and UI updates:
// the closed set of commands the assistant may emit, and the parser that
// turns raw model text into a validated command.
package action

import (
	"fmt"

	"mailpilot/internal/model"
)

// Name is the tag of an assistant command.
type Name string

const (
	OpenCompose     Name = "OPEN_COMPOSE"
	FillCompose     Name = "FILL_COMPOSE"
	SendEmail       Name = "SEND_EMAIL"
	FilterInbox     Name = "FILTER_INBOX"
	OpenEmail       Name = "OPEN_EMAIL"
	ReplyCurrent    Name = "REPLY_CURRENT"
	AskConfirmation Name = "ASK_CONFIRMATION"
	ViewInbox       Name = "VIEW_INBOX"
	ViewSent        Name = "VIEW_SENT"
	ClearFilters    Name = "CLEAR_FILTERS"
	SearchEmails    Name = "SEARCH_EMAILS"
)

// ValidNames lists every recognized action tag.
var ValidNames = []Name{
	OpenCompose,
	FillCompose,
	SendEmail,
	FilterInbox,
	OpenEmail,
	ReplyCurrent,
	AskConfirmation,
	ViewInbox,
	ViewSent,
	ClearFilters,
	SearchEmails,
}

// Action is one validated assistant command. It is constructed only by Parse
// and is immutable afterwards.
type Action struct {
	Name Name  `json:"action"`
	Args *Args `json:"args,omitempty"`
}

// Args carries every argument any action can take. Which fields are required
// is defined per action in Schemas. Unread is a pointer because a filter may
// legitimately ask for unread=false, distinct from "no unread constraint".
type Args struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
	From    string `json:"from,omitempty"`
	Unread  *bool  `json:"unread,omitempty"`
	Days    int    `json:"days,omitempty"`
	EmailID string `json:"emailId,omitempty"`
	Message string `json:"message,omitempty"`
	Query   string `json:"query,omitempty"`
}

// args returns the argument record, zero-valued when absent, so callers never
// dereference nil.
func (a Action) args() Args {
	if a.Args == nil {
		return Args{}
	}
	return *a.Args
}

// Filters converts FILTER_INBOX arguments into the filter record verbatim.
// Absent fields stay absent: replacement semantics are the caller's concern.
func (a Action) Filters() model.ActiveFilters {
	args := a.args()
	return model.ActiveFilters{
		From:   args.From,
		Unread: args.Unread,
		Days:   args.Days,
	}
}

// FieldType is the primitive type an argument field must decode to.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeBoolean FieldType = "boolean"
	TypeNumber  FieldType = "number"
)

// Schema declares the argument contract of one action.
type Schema struct {
	NeedsArgs bool
	Required  []string
	Optional  []string
	Types     map[string]FieldType
}

// Schemas is the single source of truth for what counts as a valid command.
// Describe and the dispatcher must stay in sync with this table.
var Schemas = map[Name]Schema{
	OpenCompose: {},
	FillCompose: {
		NeedsArgs: true,
		Required:  []string{"to", "subject", "body"},
		Types:     map[string]FieldType{"to": TypeString, "subject": TypeString, "body": TypeString},
	},
	SendEmail: {},
	FilterInbox: {
		NeedsArgs: true,
		Optional:  []string{"from", "unread", "days"},
		Types:     map[string]FieldType{"from": TypeString, "unread": TypeBoolean, "days": TypeNumber},
	},
	OpenEmail: {
		NeedsArgs: true,
		Required:  []string{"emailId"},
		Types:     map[string]FieldType{"emailId": TypeString},
	},
	ReplyCurrent: {
		NeedsArgs: true,
		Required:  []string{"body"},
		Types:     map[string]FieldType{"body": TypeString},
	},
	AskConfirmation: {
		NeedsArgs: true,
		Required:  []string{"message"},
		Types:     map[string]FieldType{"message": TypeString},
	},
	ViewInbox:    {},
	ViewSent:     {},
	ClearFilters: {},
	SearchEmails: {
		NeedsArgs: true,
		Required:  []string{"query"},
		Types:     map[string]FieldType{"query": TypeString},
	},
}

// IsValidAction reports whether a decoded value is a structured object whose
// "action" tag is one of the recognized names. It deliberately checks only
// the tag; argument shapes are validated separately by ValidateArgs, which
// Parse layers on top.
func IsValidAction(v any) bool {
	switch val := v.(type) {
	case Action:
		return validName(val.Name)
	case map[string]any:
		tag, ok := val["action"].(string)
		return ok && validName(Name(tag))
	default:
		return false
	}
}

func validName(n Name) bool {
	_, ok := Schemas[n]
	return ok
}

// ValidateArgs checks the argument object of a decoded command against the
// schema table: required fields must be present with the declared primitive
// type, optional fields are type-checked only when present.
func ValidateArgs(name Name, args map[string]any) error {
	schema, ok := Schemas[name]
	if !ok {
		return fmt.Errorf("no schema for action %q", name)
	}
	if !schema.NeedsArgs {
		return nil
	}
	if args == nil && len(schema.Required) > 0 {
		return fmt.Errorf("action %s requires args %v", name, schema.Required)
	}
	for _, field := range schema.Required {
		v, present := args[field]
		if !present {
			return fmt.Errorf("action %s missing required arg %q", name, field)
		}
		if err := checkType(v, schema.Types[field]); err != nil {
			return fmt.Errorf("action %s arg %q: %w", name, field, err)
		}
	}
	for _, field := range schema.Optional {
		v, present := args[field]
		if !present {
			continue
		}
		if err := checkType(v, schema.Types[field]); err != nil {
			return fmt.Errorf("action %s arg %q: %w", name, field, err)
		}
	}
	return nil
}

func checkType(v any, want FieldType) error {
	var got FieldType
	switch v.(type) {
	case string:
		got = TypeString
	case bool:
		got = TypeBoolean
	case float64: // encoding/json decodes every JSON number to float64
		got = TypeNumber
	default:
		return fmt.Errorf("expected %s, got %T", want, v)
	}
	if got != want {
		return fmt.Errorf("expected %s, got %s", want, got)
	}
	return nil
}
