package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

// Start listens on host:port and serves until ctx is canceled, then shuts down gracefully.
// A failure to bind is returned right away, the started channels are closed once listening.
func (rl *Relay) Start(ctx context.Context, host string, port int, started ...chan bool) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	rl.Addr = ln.Addr().String()
	rl.httpServer = &http.Server{
		Handler:           cors.Default().Handler(rl),
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	rl.Log.Info().Str("addr", rl.Addr).Msg("relay listening")

	// notify caller that we're starting
	for _, started := range started {
		close(started)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := rl.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rl.Shutdown(shutdownCtx)
		return nil
	})

	return g.Wait()
}

// Shutdown stops the listener, closes every connection and forgets all subscriptions.
func (rl *Relay) Shutdown(ctx context.Context) {
	if rl.httpServer != nil {
		if err := rl.httpServer.Shutdown(ctx); err != nil {
			rl.Log.Warn().Err(err).Msg("http server shutdown")
		}
	}

	rl.mu.Lock()
	clients := make([]*WebSocket, 0, len(rl.clients))
	for ws := range rl.clients {
		clients = append(clients, ws)
	}
	clear(rl.clients)
	rl.mu.Unlock()

	for _, ws := range clients {
		ws.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "relay shutting down"),
			time.Now().Add(time.Second))
		ws.cancel()
		ws.conn.Close()
	}

	rl.cancel(errors.New("relay shut down"))
	rl.Log.Info().Int("connections", len(clients)).Msg("relay stopped")
}
