package relay

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey int

const (
	wsKey contextKey = iota
)

// GetConnection returns the websocket a hook is running for, or nil when the event didn't come from one.
func GetConnection(ctx context.Context) *WebSocket {
	wsi := ctx.Value(wsKey)
	if wsi != nil {
		return wsi.(*WebSocket)
	}
	return nil
}

func GetIP(ctx context.Context) string {
	conn := GetConnection(ctx)
	if conn == nil {
		return ""
	}

	return GetIPFromRequest(conn.Request)
}

func GetIPFromRequest(r *http.Request) string {
	if xffh := r.Header.Get("X-Forwarded-For"); xffh != "" {
		for _, v := range strings.Split(xffh, ",") {
			if ip := strings.TrimSpace(v); ip != "" {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		return xrip
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
