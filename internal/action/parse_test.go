package action

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse_PlainJSON(t *testing.T) {
	act, err := Parse(`{"action":"OPEN_COMPOSE"}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if act.Name != OpenCompose {
		t.Fatalf("got %s, want OPEN_COMPOSE", act.Name)
	}
	if act.Args != nil {
		t.Fatalf("expected nil args, got %+v", act.Args)
	}
}

func TestParse_FenceStripping(t *testing.T) {
	const body = `{"action":"SEARCH_EMAILS","args":{"query":"from:alice"}}`
	want, err := Parse(body)
	if err != nil {
		t.Fatalf("unwrapped: %v", err)
	}

	variants := []string{
		"```json\n" + body + "\n```",
		"```\n" + body + "\n```",
		"  ```json\n" + body + "\n```  ",
		"```json\n" + body, // leading fence, no trailing one
		body,
	}
	for _, raw := range variants {
		got, err := Parse(raw)
		if err != nil {
			t.Errorf("Parse(%q): %v", raw, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Parse(%q) = %+v, want %+v", raw, got, want)
		}
	}
}

func TestParse_RoundTripAllVariants(t *testing.T) {
	unread := true
	actions := []Action{
		{Name: OpenCompose},
		{Name: FillCompose, Args: &Args{To: "a@b.com", Subject: "Hi", Body: "Hello there"}},
		{Name: SendEmail},
		{Name: FilterInbox, Args: &Args{From: "alice", Unread: &unread, Days: 7}},
		{Name: OpenEmail, Args: &Args{EmailID: "42"}},
		{Name: ReplyCurrent, Args: &Args{Body: "Sounds good."}},
		{Name: AskConfirmation, Args: &Args{Message: "Send to whom?"}},
		{Name: ViewInbox},
		{Name: ViewSent},
		{Name: ClearFilters},
		{Name: SearchEmails, Args: &Args{Query: "subject:invoice"}},
	}
	for _, want := range actions {
		raw, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %s: %v", want.Name, err)
		}
		got, err := Parse("```json\n" + string(raw) + "\n```")
		if err != nil {
			t.Fatalf("Parse(%s): %v", want.Name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s round trip: got %+v, want %+v", want.Name, got, want)
		}
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	for _, raw := range []string{
		`{"action":`,
		``,
		"```json\n{\"action\"\n```",
		`not json at all`,
	} {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q): expected error", raw)
			continue
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Parse(%q): expected DecodeError, got %T: %v", raw, err, err)
		}
	}
}

func TestParse_UnknownTag(t *testing.T) {
	_, err := Parse(`{"action":"LAUNCH_MISSILES"}`)
	if err == nil {
		t.Fatal("expected error")
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %T", err)
	}
	if se.Tag != "LAUNCH_MISSILES" {
		t.Fatalf("error tag = %q", se.Tag)
	}
	// The message names the offending tag and enumerates the whole vocabulary.
	for _, n := range ValidNames {
		if !strings.Contains(se.Reason, string(n)) {
			t.Errorf("error message missing %s: %q", n, se.Reason)
		}
	}
}

func TestParse_ArgValidationEnforced(t *testing.T) {
	_, err := Parse(`{"action":"FILL_COMPOSE","args":{"to":"a@b.com","subject":"Hi"}}`)
	if err == nil {
		t.Fatal("FILL_COMPOSE without body accepted")
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %T: %v", err, err)
	}
	if !strings.Contains(se.Reason, "body") {
		t.Fatalf("error does not name missing field: %v", se.Reason)
	}
}

func TestParse_ProseNotRecovered(t *testing.T) {
	// Fence stripping is the only cleanup this stage does; surrounding prose
	// must surface as a decode error, not a guess.
	_, err := Parse(`Sure! Here is the action: {"action":"VIEW_INBOX"}`)
	if err == nil {
		t.Fatal("expected decode error for prose-wrapped JSON")
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
}

func TestParse_NullAndNonObject(t *testing.T) {
	for _, raw := range []string{`null`, `[1,2,3]`, `"OPEN_COMPOSE"`, `true`} {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q): expected error", raw)
			continue
		}
		var se *SchemaError
		if !errors.As(err, &se) {
			t.Errorf("Parse(%q): expected SchemaError, got %T", raw, err)
		}
	}
}
