package action

import (
	"strings"
	"testing"
)

func TestIsValidAction_AllNames(t *testing.T) {
	if len(ValidNames) != 11 {
		t.Fatalf("expected 11 action names, got %d", len(ValidNames))
	}
	for _, n := range ValidNames {
		v := map[string]any{"action": string(n)}
		if !IsValidAction(v) {
			t.Errorf("IsValidAction(%s) = false, want true", n)
		}
	}
}

func TestIsValidAction_Rejections(t *testing.T) {
	cases := []struct {
		name string
		in   any
	}{
		{"unknown tag", map[string]any{"action": "DELETE_EVERYTHING"}},
		{"nil", nil},
		{"bare string", "OPEN_COMPOSE"},
		{"number", 42.0},
		{"missing action field", map[string]any{"type": "OPEN_COMPOSE"}},
		{"non-string tag", map[string]any{"action": 7.0}},
	}
	for _, tc := range cases {
		if IsValidAction(tc.in) {
			t.Errorf("%s: IsValidAction = true, want false", tc.name)
		}
	}
}

func TestValidateArgs_Required(t *testing.T) {
	err := ValidateArgs(FillCompose, map[string]any{
		"to": "a@b.com", "subject": "hi", "body": "hello",
	})
	if err != nil {
		t.Fatalf("complete FILL_COMPOSE args rejected: %v", err)
	}

	err = ValidateArgs(FillCompose, map[string]any{"to": "a@b.com", "subject": "hi"})
	if err == nil {
		t.Fatal("missing body accepted")
	}
	if !strings.Contains(err.Error(), "body") {
		t.Fatalf("error does not name the missing field: %v", err)
	}

	if err := ValidateArgs(FillCompose, nil); err == nil {
		t.Fatal("nil args accepted for FILL_COMPOSE")
	}
}

func TestValidateArgs_Types(t *testing.T) {
	if err := ValidateArgs(OpenEmail, map[string]any{"emailId": 5.0}); err == nil {
		t.Fatal("numeric emailId accepted")
	}
	if err := ValidateArgs(SearchEmails, map[string]any{"query": true}); err == nil {
		t.Fatal("boolean query accepted")
	}
}

func TestValidateArgs_OptionalFilters(t *testing.T) {
	// All filter dimensions are optional; an empty args object is valid.
	if err := ValidateArgs(FilterInbox, map[string]any{}); err != nil {
		t.Fatalf("empty filter args rejected: %v", err)
	}
	if err := ValidateArgs(FilterInbox, nil); err != nil {
		t.Fatalf("absent filter args rejected: %v", err)
	}
	if err := ValidateArgs(FilterInbox, map[string]any{"unread": true, "days": 7.0}); err != nil {
		t.Fatalf("valid filters rejected: %v", err)
	}
	// Present optional fields are still type-checked.
	if err := ValidateArgs(FilterInbox, map[string]any{"unread": "yes"}); err == nil {
		t.Fatal("string unread accepted")
	}
	if err := ValidateArgs(FilterInbox, map[string]any{"days": "7"}); err == nil {
		t.Fatal("string days accepted")
	}
}

func TestValidateArgs_NoArgActions(t *testing.T) {
	for _, n := range []Name{OpenCompose, SendEmail, ViewInbox, ViewSent, ClearFilters} {
		if err := ValidateArgs(n, nil); err != nil {
			t.Errorf("%s with nil args rejected: %v", n, err)
		}
	}
}

func TestDescribe(t *testing.T) {
	unread := true
	cases := []struct {
		act  Action
		want string
	}{
		{Action{Name: OpenCompose}, "Opening compose email..."},
		{Action{Name: FillCompose, Args: &Args{To: "a@b.com", Subject: "Lunch"}}, `Composing email to a@b.com: "Lunch"`},
		{Action{Name: FilterInbox, Args: &Args{Unread: &unread, Days: 7}}, "Filtering inbox (unread only, last 7 days)"},
		{Action{Name: FilterInbox, Args: &Args{}}, "Filtering inbox (all)"},
		{Action{Name: FilterInbox}, "Filtering inbox (all)"},
		{Action{Name: AskConfirmation, Args: &Args{Message: "Which email?"}}, "Which email?"},
		{Action{Name: SearchEmails, Args: &Args{Query: "from:alice"}}, `Searching: "from:alice"`},
		{Action{Name: ViewSent}, "Navigating to sent mail..."},
		{Action{Name: "BOGUS"}, "Processing..."},
	}
	for _, tc := range cases {
		if got := Describe(tc.act); got != tc.want {
			t.Errorf("Describe(%s) = %q, want %q", tc.act.Name, got, tc.want)
		}
	}
}
