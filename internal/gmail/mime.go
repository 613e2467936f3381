package gmail

import (
	"encoding/base64"
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// bodyText picks the display body for a message: the first text/plain part,
// else the first text/html part flattened to text, else the snippet Gmail
// already computed for the list view.
func bodyText(msg *gmailv1.Message) string {
	if body := textPart(msg.Payload, "text/plain"); body != "" {
		return body
	}
	if html := textPart(msg.Payload, "text/html"); html != "" {
		return stripHTMLTags(html)
	}
	return msg.Snippet
}

// textPart walks the MIME tree for the first decodable part of the wanted
// type. Direct children are checked before recursing so multipart/alternative
// resolves to the wanted type even when a sibling nests deeper.
func textPart(part *gmailv1.MessagePart, want string) string {
	if part == nil {
		return ""
	}
	if strings.EqualFold(part.MimeType, want) && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, sub := range part.Parts {
		if strings.EqualFold(sub.MimeType, want) && sub.Body != nil && sub.Body.Data != "" {
			if body := decodeBody(sub.Body.Data); body != "" {
				return body
			}
		}
	}
	for _, sub := range part.Parts {
		if body := textPart(sub, want); body != "" {
			return body
		}
	}
	return ""
}

// blockCloses are the tags that end a visual line; they become newlines so a
// stripped HTML body still reads as paragraphs.
var blockCloses = []string{
	"<br>", "<br/>", "<br />",
	"</p>", "</div>", "</tr>", "</li>",
	"</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>",
}

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
)

// stripHTMLTags flattens an HTML body to plain text: block boundaries become
// newlines, remaining tags are dropped, and common entities are decoded.
func stripHTMLTags(html string) string {
	for _, tag := range blockCloses {
		html = strings.ReplaceAll(html, tag, "\n")
		html = strings.ReplaceAll(html, strings.ToUpper(tag), "\n")
	}

	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := htmlEntities.Replace(b.String())

	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

func decodeBody(data string) string {
	// Gmail emits unpadded base64url; padded data shows up from some relays.
	b, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(b)
}
