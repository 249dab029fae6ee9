package eventstore

import (
	"github.com/memrelay/nostr"
)

// Store is the in-memory event store consulted by a relay for both replay and broadcast.
type Store interface {
	// Init is called once before the store is used, allowing it to initialize its internal resources.
	// Calling it again drops everything.
	Init() error

	// Close must be called after you're done using the store, to free up resources and so on.
	Close()

	// Admit runs the admission rules for a single event and tells what happened to it.
	// It is atomic: the replaceable check-and-set never races with another Admit.
	Admit(nostr.Event) Result

	// QueryEvents returns the visible events matching any of the filters, newest first.
	// Each filter's limit caps the events collected for that filter only.
	QueryEvents(filters ...nostr.Filter) []nostr.Event

	// CountEvents counts all visible events that match a given filter, ignoring its limit.
	CountEvents(nostr.Filter) uint32

	// GetEvent returns a stored event by id, even when it has been tombstoned.
	GetEvent(nostr.ID) (nostr.Event, bool)

	// Len is the number of events held in memory.
	Len() int
}
