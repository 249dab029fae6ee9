package nip11

import (
	"slices"
)

// RelayInformationDocument is what a relay serves to requests carrying "Accept: application/nostr+json".
type RelayInformationDocument struct {
	URL string `json:"-"`

	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	PubKey        string `json:"pubkey,omitempty"`
	Contact       string `json:"contact,omitempty"`
	SupportedNIPs []any  `json:"supported_nips"`
	Software      string `json:"software,omitempty"`
	Version       string `json:"version,omitempty"`

	Limitation *RelayLimitationDocument `json:"limitation,omitempty"`

	Icon   string `json:"icon,omitempty"`
	Banner string `json:"banner,omitempty"`
}

type RelayLimitationDocument struct {
	MaxMessageLength int  `json:"max_message_length,omitempty"`
	MaxSubscriptions int  `json:"max_subscriptions,omitempty"`
	MaxLimit         int  `json:"max_limit,omitempty"`
	AuthRequired     bool `json:"auth_required"`
	PaymentRequired  bool `json:"payment_required"`
	RestrictedWrites bool `json:"restricted_writes"`
}

// AddSupportedNIP adds a number to SupportedNIPs keeping it sorted and without repeats.
func (info *RelayInformationDocument) AddSupportedNIP(number int) {
	idx, exists := slices.BinarySearchFunc(info.SupportedNIPs, number, func(a any, b int) int {
		return toInt(a) - b
	})
	if exists {
		return
	}

	info.SupportedNIPs = slices.Insert(info.SupportedNIPs, idx, any(number))
}

// Clone returns a copy that can have NIPs added without touching the original.
func (info RelayInformationDocument) Clone() RelayInformationDocument {
	info.SupportedNIPs = slices.Clone(info.SupportedNIPs)
	if info.Limitation != nil {
		limitation := *info.Limitation
		info.Limitation = &limitation
	}
	return info
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		// some relays announce things like "EE"
		return 1 << 30
	default:
		return 0
	}
}
