// Package party defines the identity space shared by the trusted
// initializer and the data parties in an inner-product secret-sharing
// round.
package party

import "fmt"

// ID identifies one participant in a round. Party 0 is always the trusted
// initializer; data parties are numbered 1..NumParties-1. This is the one
// numbering used everywhere in this repository — the reference protocol
// this was distilled from additionally offsets a human-facing "party id" by
// one (so the first data party is id 2 there), a well-known source of bugs
// that this implementation deliberately does not carry over (see DESIGN.md).
type ID int

// TI is the trusted initializer's identity. It never owns a row and never
// appears as a GetOwner result.
const TI ID = 0

// IsTI reports whether id identifies the trusted initializer.
func (id ID) IsTI() bool { return id == TI }

func (id ID) String() string {
	if id.IsTI() {
		return "ti"
	}
	return fmt.Sprintf("party-%d", int(id))
}
