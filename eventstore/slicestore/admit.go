package slicestore

import (
	"github.com/memrelay/nostr"
	"github.com/memrelay/nostr/eventstore"
)

func (b *SliceStore) Admit(evt nostr.Event) eventstore.Result {
	if evt.ID == nostr.ZeroID {
		return eventstore.Malformed
	}

	b.Lock()
	defer b.Unlock()

	if _, exists := b.byID[evt.ID]; exists {
		return eventstore.Duplicate
	}

	if evt.Kind == nostr.KindDeletion {
		for tag := range evt.Tags.FindAll("e") {
			target, err := nostr.IDFromHex(tag[1])
			if err != nil {
				continue
			}
			b.deleted[target] = struct{}{}
		}
		b.insert(evt)
		return eventstore.Saved
	}

	if evt.Kind.IsEphemeral() {
		return eventstore.Ephemeral
	}

	if key, ok := replaceableKey(evt); ok {
		if current, exists := b.replaceable[key]; exists && current.createdAt >= evt.CreatedAt {
			return eventstore.Superseded
		}
		b.replaceable[key] = latest{id: evt.ID, createdAt: evt.CreatedAt}
	}

	b.insert(evt)
	return eventstore.Saved
}
