package relay

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/rs/zerolog"
)

// envelope is anything that encodes itself as a single protocol frame.
type envelope interface {
	MarshalJSON() ([]byte, error)
}

type WebSocket struct {
	conn  *websocket.Conn
	mutex sync.Mutex

	// original request
	Request *http.Request

	// this Context will be canceled whenever the connection is closed from the client side or server-side.
	Context context.Context
	cancel  context.CancelFunc

	serial    uint64
	writeWait time.Duration
	log       zerolog.Logger
}

// WriteEnvelope sends a single frame. A failed write cancels the connection.
func (ws *WebSocket) WriteEnvelope(env envelope) error {
	b, err := env.MarshalJSON()
	if err != nil {
		return err
	}
	return ws.WriteMessage(websocket.TextMessage, b)
}

func (ws *WebSocket) WriteMessage(t int, b []byte) error {
	ws.mutex.Lock()
	err := ws.write(t, b)
	ws.mutex.Unlock()
	return err
}

// writeEnvelopeIf checks cond while holding the write lock and only sends env if it still holds,
// so nothing written after cond turns false can be overtaken by it.
func (ws *WebSocket) writeEnvelopeIf(cond func() bool, env envelope) (bool, error) {
	b, err := env.MarshalJSON()
	if err != nil {
		return false, err
	}

	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !cond() {
		return false, nil
	}
	if err := ws.write(websocket.TextMessage, b); err != nil {
		return false, err
	}
	return true, nil
}

// must be called with ws.mutex held
func (ws *WebSocket) write(t int, b []byte) error {
	if ws.writeWait > 0 {
		ws.conn.SetWriteDeadline(time.Now().Add(ws.writeWait))
	}
	err := ws.conn.WriteMessage(t, b)
	if err != nil {
		ws.log.Debug().Err(err).Msg("write failed")
		ws.cancel()
	}
	return err
}
