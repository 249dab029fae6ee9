package relay

import (
	"github.com/memrelay/nostr"
)

func (rl *Relay) handleRequest(ws *WebSocket, id string, filters []nostr.Filter) {
	rl.mu.Lock()
	sub := rl.openSubscription(ws, id, filters)
	if sub == nil {
		rl.mu.Unlock()
		return
	}
	events := rl.store.QueryEvents(sub.filters...)
	for _, evt := range events {
		sub.delivered[evt.ID] = struct{}{}
	}
	rl.mu.Unlock()

	rl.metrics.subscriptions.Inc()
	ws.log.Debug().Str("sub", id).Int("filters", len(sub.filters)).Int("stored", len(events)).Msg("subscription opened")

	for _, evt := range events {
		if err := ws.WriteEnvelope(nostr.EventEnvelope{SubscriptionID: &id, Event: evt}); err != nil {
			return
		}
	}
	ws.WriteEnvelope(nostr.EOSEEnvelope(id))
}

func (rl *Relay) handleCountRequest(ws *WebSocket, id string, filter nostr.Filter) {
	count := rl.store.CountEvents(filter)
	ws.WriteEnvelope(nostr.CountEnvelope{SubscriptionID: id, Count: &count})
}
