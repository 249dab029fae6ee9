package relay

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/memrelay/nostr"
	"github.com/rs/cors"
)

// ServeHTTP implements http.Handler interface.
func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		rl.HandleWebsocket(w, r)
	} else if r.Header.Get("Accept") == "application/nostr+json" {
		cors.AllowAll().Handler(http.HandlerFunc(rl.HandleNIP11)).ServeHTTP(w, r)
	} else {
		rl.serveMux.ServeHTTP(w, r)
	}
}

func (rl *Relay) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := rl.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rl.Log.Warn().Err(err).Msg("failed to upgrade websocket")
		return
	}

	ticker := time.NewTicker(rl.PingPeriod)

	serial := rl.serial.Add(1)
	ws := &WebSocket{
		conn:      conn,
		Request:   r,
		serial:    serial,
		writeWait: rl.WriteWait,
		log: rl.Log.With().
			Uint64("conn", serial).
			Str("ip", GetIPFromRequest(r)).
			Logger(),
	}
	ws.Context, ws.cancel = context.WithCancel(context.WithValue(rl.ctx, wsKey, ws))

	rl.addClient(ws)
	rl.connections.Inc()
	rl.metrics.connectionsTotal.Inc()
	ws.log.Debug().Msg("connected")

	if nil != rl.OnConnect {
		rl.OnConnect(ws.Context)
	}

	kill := sync.OnceFunc(func() {
		ticker.Stop()
		ws.cancel()
		ws.conn.Close()

		rl.removeClient(ws)
		rl.connections.Dec()
		ws.log.Debug().Msg("disconnected")

		if nil != rl.OnDisconnect {
			rl.OnDisconnect(ws.Context)
		}
	})

	go func() {
		defer kill()

		ws.conn.SetReadLimit(rl.MaxMessageSize)
		ws.conn.SetReadDeadline(time.Now().Add(rl.PongWait))
		ws.conn.SetPongHandler(func(string) error {
			ws.conn.SetReadDeadline(time.Now().Add(rl.PongWait))
			return nil
		})

		for {
			_, message, err := ws.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseNormalClosure,    // 1000
					websocket.CloseGoingAway,        // 1001
					websocket.CloseNoStatusReceived, // 1005
					websocket.CloseAbnormalClosure,  // 1006
				) {
					ws.log.Debug().Err(err).Msg("unexpected close error")
				}
				return
			}

			// frames from one connection are handled in the order they arrive
			rl.handleMessage(ws, message)
		}
	}()

	go func() {
		defer kill()

		for {
			select {
			case <-ws.Context.Done():
				return
			case <-ticker.C:
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
}

func (rl *Relay) handleMessage(ws *WebSocket, message []byte) {
	envelope, err := nostr.ParseMessage(message)
	if err != nil {
		rl.metrics.frames.WithLabelValues("malformed").Inc()
		ws.log.Debug().Err(err).Msg("malformed frame")
		ws.WriteEnvelope(nostr.NoticeEnvelope("error: " + err.Error()))
		return
	}

	switch env := envelope.(type) {
	case *nostr.EventEnvelope:
		rl.metrics.frames.WithLabelValues("EVENT").Inc()
		rl.handleEvent(ws, env.Event)
	case *nostr.ReqEnvelope:
		rl.metrics.frames.WithLabelValues("REQ").Inc()
		rl.handleRequest(ws, env.SubscriptionID, env.Filters)
	case *nostr.CountEnvelope:
		rl.metrics.frames.WithLabelValues("COUNT").Inc()
		if env.SubscriptionID == "" || env.Filter == nil {
			return
		}
		rl.handleCountRequest(ws, env.SubscriptionID, *env.Filter)
	case *nostr.CloseEnvelope:
		rl.metrics.frames.WithLabelValues("CLOSE").Inc()
		rl.closeSubscription(ws, string(*env))
	default:
		// relay-to-client frames and labels we don't know are ignored
		rl.metrics.frames.WithLabelValues("ignored").Inc()
	}
}
