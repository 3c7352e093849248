// Package whatsapp builds wa.me deep links for the "reply to card owner"
// action. Pure string construction; opening the link is the host's job.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultGreeting is the message template pre-filled in the chat, with the
// card owner's display name substituted in.
const DefaultGreeting = "Hi %s, I just scanned your card and saw your story!"

// ReplyLink builds a wa.me deep link for the given raw phone number,
// pre-filled with the default greeting addressed to ownerName.
func ReplyLink(phone, ownerName string) string {
	return ReplyLinkWithGreeting(phone, fmt.Sprintf(DefaultGreeting, ownerName))
}

// ReplyLinkWithGreeting is ReplyLink with a caller-supplied message, for
// hosts that configure their own greeting template.
func ReplyLinkWithGreeting(phone, greeting string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizeNumber(phone), url.QueryEscape(greeting))
}

// NormalizeNumber strips everything but digits from a raw phone number.
// A leading + is dropped as well: wa.me expects the bare country-prefixed
// digits ("+212 6 12-34-56-78" -> "212612345678").
func NormalizeNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return strings.TrimPrefix(b.String(), "+")
}
