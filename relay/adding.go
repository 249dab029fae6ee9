package relay

import (
	"context"

	"github.com/memrelay/nostr"
	"github.com/memrelay/nostr/eventstore"
)

// AddEvent sends an event through the normal add pipeline, as if it was received from a websocket,
// including the broadcast to live subscribers.
func (rl *Relay) AddEvent(ctx context.Context, evt nostr.Event) eventstore.Result {
	res, deliveries := rl.admit(ctx, evt)
	rl.broadcast(evt, deliveries)
	return res
}

func (rl *Relay) admit(ctx context.Context, evt nostr.Event) (eventstore.Result, []delivery) {
	rl.mu.Lock()
	res := rl.store.Admit(evt)
	var deliveries []delivery
	if res.Broadcast() {
		deliveries = rl.selectListeners(evt)
	}
	rl.mu.Unlock()

	rl.metrics.events.WithLabelValues(res.String()).Inc()

	switch {
	case res.Stored():
		if nil != rl.OnEventSaved {
			rl.OnEventSaved(ctx, evt)
		}
		rl.statsChanged()
	case res == eventstore.Ephemeral:
		if nil != rl.OnEphemeralEvent {
			rl.OnEphemeralEvent(ctx, evt)
		}
	}

	return res, deliveries
}

func (rl *Relay) handleEvent(ws *WebSocket, evt nostr.Event) {
	if rl.VerifySignatures {
		if !evt.CheckID() {
			ws.WriteEnvelope(nostr.OKEnvelope{EventID: evt.ID, OK: false, Reason: "invalid: event id is computed incorrectly"})
			return
		}
		if !evt.VerifySignature() {
			ws.WriteEnvelope(nostr.OKEnvelope{EventID: evt.ID, OK: false, Reason: "invalid: signature is invalid"})
			return
		}
	}

	res, deliveries := rl.admit(ws.Context, evt)
	ws.log.Debug().Str("event", evt.ID.Hex()).Stringer("result", res).Msg("event submitted")

	ok := true
	if rl.StrictOK {
		ok = res.Broadcast()
	}
	ws.WriteEnvelope(nostr.OKEnvelope{EventID: evt.ID, OK: ok, Reason: res.Message()})

	rl.broadcast(evt, deliveries)
}
