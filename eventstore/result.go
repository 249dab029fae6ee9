package eventstore

// Result is the outcome of admitting an event. Admission never fails with an error, these are all expected outcomes.
type Result uint8

const (
	Saved Result = iota
	Duplicate
	Ephemeral
	Superseded
	Malformed
)

// Stored is true only when the event was newly persisted.
func (r Result) Stored() bool { return r == Saved }

// Broadcast tells if live subscribers should receive the event.
func (r Result) Broadcast() bool { return r == Saved || r == Ephemeral }

// Message is the human-readable part of an OK reply, prefixed the way NIP-01 machine-readable prefixes go.
func (r Result) Message() string {
	switch r {
	case Duplicate:
		return "duplicate: already have this event"
	case Superseded:
		return "duplicate: a newer version of this event is already stored"
	case Malformed:
		return "invalid: event is missing a well-formed id"
	default:
		return ""
	}
}

func (r Result) String() string {
	switch r {
	case Saved:
		return "saved"
	case Duplicate:
		return "duplicate"
	case Ephemeral:
		return "ephemeral"
	case Superseded:
		return "superseded"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}
