package relay

import (
	"context"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/fasthttp/websocket"
	"github.com/memrelay/nostr"
	"github.com/memrelay/nostr/eventstore"
	"github.com/memrelay/nostr/eventstore/slicestore"
	"github.com/memrelay/nostr/nip11"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

func NewRelay() *Relay {
	ctx, cancel := context.WithCancelCause(context.Background())

	rl := &Relay{
		ctx:    ctx,
		cancel: cancel,

		Log: zerolog.New(os.Stderr).With().Timestamp().Str("component", "relay").Logger(),

		Info: &nip11.RelayInformationDocument{
			Software:      "https://github.com/memrelay/nostr",
			Version:       "n/a",
			SupportedNIPs: []any{1, 11},
		},

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},

		store:   slicestore.New(),
		clients: make(map[*WebSocket]map[string]*subscription, 100),

		connections: xsync.NewCounter(),
		reportStats: debounce.New(2 * time.Second),

		serveMux: &http.ServeMux{},

		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     30 * time.Second,
		MaxMessageSize: 512000,
	}

	rl.metrics = newMetrics(rl)
	rl.serveMux.Handle("/metrics", rl.metrics.handler())
	rl.serveMux.HandleFunc("/", rl.HandleStatus)

	return rl
}

type Relay struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	// hooks that will be called at various times, all of them outside of the relay lock
	OnConnect        func(ctx context.Context)
	OnDisconnect     func(ctx context.Context)
	OnEventSaved     func(ctx context.Context, event nostr.Event)
	OnEphemeralEvent func(ctx context.Context, event nostr.Event)

	// VerifySignatures makes the relay check ids and signatures before admission.
	VerifySignatures bool

	// StrictOK reports OK false for everything that was not newly stored or broadcast.
	// By default every submission is acknowledged with true.
	StrictOK bool

	// editing info will affect the NIP-11 responses
	Info *nip11.RelayInformationDocument

	// Default logger writes JSON lines to stderr with component=relay.
	Log zerolog.Logger

	// for establishing websockets
	upgrader websocket.Upgrader

	// mu serializes admission with the broadcast selection and subscription changes with the replay query.
	// nothing ever writes to a socket while holding it.
	mu      sync.Mutex
	store   eventstore.Store
	clients map[*WebSocket]map[string]*subscription

	connections *xsync.Counter
	serial      atomic.Uint64
	reportStats func(func())
	metrics     *metrics

	// in case you call Relay.Start
	Addr       string
	serveMux   *http.ServeMux
	httpServer *http.Server

	// websocket options
	WriteWait      time.Duration // Time allowed to write a message to the peer.
	PongWait       time.Duration // Time allowed to read the next pong message from the peer.
	PingPeriod     time.Duration // Send pings to peer with this period. Must be less than pongWait.
	MaxMessageSize int64         // Maximum message size allowed from peer.
}

// UseEventstore replaces the default empty in-memory store. It must be called before serving.
func (rl *Relay) UseEventstore(store eventstore.Store) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.store = store
}

// Store returns the store backing this relay.
func (rl *Relay) Store() eventstore.Store {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.store
}

// Router exposes the relay's fallback HTTP mux so callers can mount extra handlers.
func (rl *Relay) Router() *http.ServeMux {
	return rl.serveMux
}

func (rl *Relay) statsChanged() {
	rl.reportStats(func() {
		rl.Log.Debug().
			Int("events", rl.store.Len()).
			Int64("connections", rl.connections.Value()).
			Msg("relay stats")
	})
}
