package sessionize

import (
	"regexp"
	"strings"
)

// TicketUnknown is the sentinel for events whose ticket reference is empty
// or unparseable.
const TicketUnknown = "UNKNOWN"

// ticketPrefixRE strips the helpdesk reference prefixes users type in front
// of ticket numbers.
var ticketPrefixRE = regexp.MustCompile(`^(SR-|CR-|SR|CR|#)`)

// StandardizeTicket canonicalizes a raw helpdesk ticket reference: leading
// "#" and "SR-"/"CR-" prefixes are stripped, thousands separators removed,
// and the result uppercased. Empty or null-ish values map to TicketUnknown.
// The function is idempotent: prefixes are stripped to a fixpoint.
func StandardizeTicket(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "", "NAN", "NONE", "NULL":
		return TicketUnknown
	}

	for {
		next := ticketPrefixRE.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return TicketUnknown
	}
	return s
}
