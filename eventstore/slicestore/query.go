package slicestore

import (
	"iter"
	"math"

	"github.com/memrelay/nostr"
	"golang.org/x/exp/slices"
)

func (b *SliceStore) QueryEvents(filters ...nostr.Filter) []nostr.Event {
	b.RLock()
	defer b.RUnlock()

	results := make([]nostr.Event, 0, 32)
	collected := make(map[nostr.ID]struct{})

	for _, filter := range filters {
		if filter.LimitZero {
			continue
		}

		count := 0
		for evt := range b.candidates(filter) {
			if filter.Limit > 0 && count == filter.Limit {
				break
			}
			count++

			if _, already := collected[evt.ID]; already {
				continue
			}
			collected[evt.ID] = struct{}{}
			results = append(results, evt)
		}
	}

	slices.SortFunc(results, eventComparator)
	return results
}

func (b *SliceStore) CountEvents(filter nostr.Filter) uint32 {
	b.RLock()
	defer b.RUnlock()

	var val uint32
	for range b.candidates(filter) {
		val++
	}
	return val
}

// candidates yields the visible events matching the filter, newest first.
// must be called with the lock held
func (b *SliceStore) candidates(filter nostr.Filter) iter.Seq[nostr.Event] {
	return func(yield func(nostr.Event) bool) {
		if filter.IDs != nil {
			byIDs := make([]nostr.Event, 0, len(filter.IDs))
			for _, id := range filter.IDs {
				if evt, ok := b.byID[id]; ok && !slices.ContainsFunc(byIDs, func(e nostr.Event) bool { return e.ID == id }) {
					byIDs = append(byIDs, evt)
				}
			}
			slices.SortFunc(byIDs, eventComparator)
			for _, evt := range byIDs {
				if b.visible(evt) && filter.Matches(evt) {
					if !yield(evt) {
						return
					}
				}
			}
			return
		}

		// efficiently determine where to start and end
		start := 0
		end := len(b.internal)
		if filter.Until != nil {
			start, _ = slices.BinarySearchFunc(b.internal, *filter.Until, eventTimestampComparator)
		}
		if filter.Since != nil && *filter.Since != math.MinInt64 {
			// since is inclusive, so stop right after the last event at that second
			end, _ = slices.BinarySearchFunc(b.internal, *filter.Since-1, eventTimestampComparator)
		}

		// ham
		if end < start {
			return
		}

		for _, evt := range b.internal[start:end] {
			if b.visible(evt) && filter.MatchesIgnoringTimestampConstraints(evt) {
				if !yield(evt) {
					return
				}
			}
		}
	}
}
