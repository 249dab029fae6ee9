package relay

import (
	"github.com/memrelay/nostr"
)

type subscription struct {
	filters   []nostr.Filter
	delivered map[nostr.ID]struct{}
}

func (sub *subscription) matches(evt nostr.Event) bool {
	for _, filter := range sub.filters {
		if filter.Matches(evt) {
			return true
		}
	}
	return false
}

type delivery struct {
	ws  *WebSocket
	id  string
	sub *subscription
}

// openSubscription registers or replaces the subscription id on this connection.
// Returns nil if the connection is already gone.
// must be called with rl.mu held
func (rl *Relay) openSubscription(ws *WebSocket, id string, filters []nostr.Filter) *subscription {
	subs, ok := rl.clients[ws]
	if !ok {
		return nil
	}

	if len(filters) == 0 {
		filters = []nostr.Filter{{}}
	}

	sub := &subscription{
		filters:   filters,
		delivered: make(map[nostr.ID]struct{}),
	}
	subs[id] = sub
	return sub
}

func (rl *Relay) closeSubscription(ws *WebSocket, id string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if subs, ok := rl.clients[ws]; ok {
		delete(subs, id)
	}
}

func (rl *Relay) addClient(ws *WebSocket) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.clients[ws] = make(map[string]*subscription, 2)
}

func (rl *Relay) removeClient(ws *WebSocket) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.clients, ws)
}

// selectListeners finds every subscription that should get this event and marks it delivered there.
// must be called with rl.mu held
func (rl *Relay) selectListeners(evt nostr.Event) []delivery {
	var deliveries []delivery
	for ws, subs := range rl.clients {
		for id, sub := range subs {
			if _, already := sub.delivered[evt.ID]; already {
				continue
			}
			if sub.matches(evt) {
				sub.delivered[evt.ID] = struct{}{}
				deliveries = append(deliveries, delivery{ws: ws, id: id, sub: sub})
			}
		}
	}
	return deliveries
}

// broadcast writes what selectListeners picked, skipping subscriptions that were closed or
// replaced in the meantime.
func (rl *Relay) broadcast(evt nostr.Event, deliveries []delivery) {
	for _, d := range deliveries {
		id := d.id
		written, _ := d.ws.writeEnvelopeIf(func() bool { return rl.isCurrent(d) },
			nostr.EventEnvelope{SubscriptionID: &id, Event: evt})
		if written {
			rl.metrics.deliveries.Inc()
		}
	}
}

func (rl *Relay) isCurrent(d delivery) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	subs, ok := rl.clients[d.ws]
	return ok && subs[d.id] == d.sub
}

// GetListeningFilters returns every filter of every open subscription.
func (rl *Relay) GetListeningFilters() []nostr.Filter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	respfilters := make([]nostr.Filter, 0, len(rl.clients)*2)
	for _, subs := range rl.clients {
		for _, sub := range subs {
			for _, filter := range sub.filters {
				respfilters = append(respfilters, filter.Clone())
			}
		}
	}
	return respfilters
}

func (rl *Relay) subscriptionCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	total := 0
	for _, subs := range rl.clients {
		total += len(subs)
	}
	return total
}
