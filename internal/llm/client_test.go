package llm

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `{"action": "VIEW_INBOX"}`,
			want: `{"action": "VIEW_INBOX"}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"action\": \"VIEW_INBOX\"}\n```",
			want: `{"action": "VIEW_INBOX"}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"action\": \"VIEW_SENT\"}\n```",
			want: `{"action": "VIEW_SENT"}`,
		},
		{
			name: "prose before and after",
			in:   `Sure! Here is the action: {"action": "OPEN_COMPOSE"} Hope that helps.`,
			want: `{"action": "OPEN_COMPOSE"}`,
		},
		{
			name: "fence plus prose",
			in:   "Here you go:\n```json\n{\"action\": \"CLEAR_FILTERS\"}\n```\nDone!",
			want: `{"action": "CLEAR_FILTERS"}`,
		},
		{
			name: "nested braces survive",
			in:   `note {"action": "FILL_COMPOSE", "args": {"to": "a@x.com", "subject": "s", "body": "b"}} trailing`,
			want: `{"action": "FILL_COMPOSE", "args": {"to": "a@x.com", "subject": "s", "body": "b"}}`,
		},
		{
			name: "no braces passes through",
			in:   "I cannot do that.",
			want: "I cannot do that.",
		},
		{
			name: "whitespace trimmed",
			in:   "  \n {\"action\": \"VIEW_INBOX\"} \n ",
			want: `{"action": "VIEW_INBOX"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in); got != tt.want {
				t.Fatalf("Clamp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
