package slicestore

import (
	"bytes"
	"cmp"
	"strconv"
	"sync"

	"github.com/memrelay/nostr"
	"github.com/memrelay/nostr/eventstore"
	"golang.org/x/exp/slices"
)

var _ eventstore.Store = (*SliceStore)(nil)

// SliceStore keeps every event in a slice sorted newest first.
// Inserting is a binary search plus a copy, so O(n) per event: fine for a single
// development relay, anything bigger wants an ordered tree here.
type SliceStore struct {
	sync.RWMutex
	internal []nostr.Event

	byID        map[nostr.ID]nostr.Event
	deleted     map[nostr.ID]struct{}
	replaceable map[string]latest
}

type latest struct {
	id        nostr.ID
	createdAt nostr.Timestamp
}

// New returns an initialized store holding the given events, admitted in order.
// Events that don't pass admission are dropped silently.
func New(events ...nostr.Event) *SliceStore {
	b := &SliceStore{}
	b.Init()
	for _, evt := range events {
		b.Admit(evt)
	}
	return b
}

func (b *SliceStore) Init() error {
	b.Lock()
	defer b.Unlock()

	b.internal = make([]nostr.Event, 0, 5000)
	b.byID = make(map[nostr.ID]nostr.Event, 5000)
	b.deleted = make(map[nostr.ID]struct{})
	b.replaceable = make(map[string]latest)
	return nil
}

func (b *SliceStore) Close() {}

func (b *SliceStore) Len() int {
	b.RLock()
	defer b.RUnlock()
	return len(b.internal)
}

func (b *SliceStore) GetEvent(id nostr.ID) (nostr.Event, bool) {
	b.RLock()
	defer b.RUnlock()
	evt, ok := b.byID[id]
	return evt, ok
}

// must be called with the lock held
func (b *SliceStore) insert(evt nostr.Event) {
	idx, _ := slices.BinarySearchFunc(b.internal, evt, eventComparator)
	b.internal = append(b.internal, evt) // bogus
	copy(b.internal[idx+1:], b.internal[idx:])
	b.internal[idx] = evt
	b.byID[evt.ID] = evt
}

// must be called with the lock held
func (b *SliceStore) visible(evt nostr.Event) bool {
	if _, isDeleted := b.deleted[evt.ID]; isDeleted {
		return false
	}
	if key, ok := replaceableKey(evt); ok {
		if current, exists := b.replaceable[key]; exists && current.id != evt.ID {
			return false
		}
	}
	return true
}

func replaceableKey(evt nostr.Event) (string, bool) {
	switch {
	case evt.Kind.IsReplaceable():
		return strconv.Itoa(int(evt.Kind)) + ":" + evt.PubKey.Hex(), true
	case evt.Kind.IsAddressable():
		return strconv.Itoa(int(evt.Kind)) + ":" + evt.PubKey.Hex() + ":" + evt.Tags.GetD(), true
	default:
		return "", false
	}
}

func eventTimestampComparator(e nostr.Event, t nostr.Timestamp) int {
	return cmp.Compare(t, e.CreatedAt)
}

func eventComparator(a nostr.Event, b nostr.Event) int {
	c := cmp.Compare(b.CreatedAt, a.CreatedAt)
	if c != 0 {
		return c
	}
	return bytes.Compare(b.ID[:], a.ID[:])
}
