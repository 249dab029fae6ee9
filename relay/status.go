package relay

import (
	"fmt"
	"net/http"
)

// HandleStatus answers plain HTTP requests with a short liveness page.
func (rl *Relay) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	name := rl.Info.Name
	if name == "" {
		name = "nostr relay"
	}

	fmt.Fprintf(w, "%s is running, connect to it with a nostr client.\n\n", name)
	fmt.Fprintf(w, "events: %d\n", rl.Store().Len())
	fmt.Fprintf(w, "connections: %d\n", rl.connections.Value())
	fmt.Fprintf(w, "subscriptions: %d\n", rl.subscriptionCount())
}
