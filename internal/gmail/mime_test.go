package gmail

import (
	"encoding/base64"
	"testing"

	gmailv1 "google.golang.org/api/gmail/v1"
)

func TestBodyText_SnippetFallback(t *testing.T) {
	// Attachment-only message: no text part anywhere, so the snippet wins.
	msg := &gmailv1.Message{
		Snippet: "Quarterly report attached",
		Payload: &gmailv1.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmailv1.MessagePart{
				{MimeType: "application/pdf", Body: &gmailv1.MessagePartBody{Data: b64("%PDF")}},
			},
		},
	}
	if got := bodyText(msg); got != "Quarterly report attached" {
		t.Fatalf("bodyText = %q, want snippet", got)
	}
}

func TestBodyText_NilPayload(t *testing.T) {
	msg := &gmailv1.Message{Snippet: "metadata only"}
	if got := bodyText(msg); got != "metadata only" {
		t.Fatalf("bodyText = %q, want snippet", got)
	}
}

func TestTextPart_NestedAlternative(t *testing.T) {
	// multipart/mixed wrapping multipart/alternative; the plain part sits one
	// level down and must still beat the top-level html sibling.
	payload := &gmailv1.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailv1.MessagePart{
			{MimeType: "text/html", Body: &gmailv1.MessagePartBody{Data: b64("<p>html</p>")}},
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailv1.MessagePart{
					{MimeType: "text/plain", Body: &gmailv1.MessagePartBody{Data: b64("nested plain")}},
				},
			},
		},
	}
	if got := textPart(payload, "text/plain"); got != "nested plain" {
		t.Fatalf("textPart = %q", got)
	}
}

func TestDecodeBody_PaddedAndUnpadded(t *testing.T) {
	if got := decodeBody(base64.RawURLEncoding.EncodeToString([]byte("hello"))); got != "hello" {
		t.Fatalf("unpadded: %q", got)
	}
	if got := decodeBody(base64.URLEncoding.EncodeToString([]byte("hello!"))); got != "hello!" {
		t.Fatalf("padded: %q", got)
	}
	if got := decodeBody("!!not base64!!"); got != "" {
		t.Fatalf("garbage: %q", got)
	}
}

func TestStripHTMLTags(t *testing.T) {
	in := "<div>Hello &amp; welcome</div><p>Second &lt;line&gt;</p>"
	want := "Hello & welcome\nSecond <line>"
	if got := stripHTMLTags(in); got != want {
		t.Fatalf("stripHTMLTags = %q, want %q", got, want)
	}
}
