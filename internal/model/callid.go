package model

import (
	"fmt"
	"strings"
)

// CallIDSeparator splits the initiator's username from the unique suffix in
// a call identifier. The token format is a wire contract: CALL_RESPONSE can
// only route back to the initiator by parsing it.
const CallIDSeparator = "_"

// CallID is a call identifier decoded into its structured parts.
type CallID struct {
	Initiator string
	Suffix    string
}

// ParseCallID decodes a raw call identifier of the form
// <initiatorUsername>_<uniqueSuffix>. The initiator is everything before the
// first separator, so usernames containing the separator cannot be recovered
// and call initiation validates against that upfront.
func ParseCallID(raw string) (CallID, error) {
	initiator, suffix, found := strings.Cut(raw, CallIDSeparator)
	if !found || initiator == "" {
		return CallID{}, fmt.Errorf("malformed call id %q", raw)
	}
	return CallID{Initiator: initiator, Suffix: suffix}, nil
}

// String reassembles the wire form of the identifier.
func (c CallID) String() string {
	return c.Initiator + CallIDSeparator + c.Suffix
}
