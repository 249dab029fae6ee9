package relay

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (rl *Relay) HandleNIP11(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/nostr+json")

	info := rl.Info.Clone()
	info.AddSupportedNIP(9)
	info.AddSupportedNIP(45)

	if err := json.NewEncoder(w).Encode(info); err != nil {
		rl.Log.Warn().Err(err).Msg("failed to write relay information document")
	}
}
