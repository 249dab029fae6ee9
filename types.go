package nostr

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

var (
	ZeroID = ID{}
	ZeroPK = PubKey{}
)

// ID is an event id, the sha256 of the event serialization.
type ID [32]byte

func (id ID) String() string { return "id::" + id.Hex() }
func (id ID) Hex() string    { return hex.EncodeToString(id[:]) }

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.Hex() + `"`), nil
}

func (id *ID) UnmarshalJSON(buf []byte) error {
	if len(buf) != 66 || buf[0] != '"' || buf[65] != '"' {
		return fmt.Errorf("id must be a hex string of 64 characters")
	}
	if _, err := hex.Decode(id[:], buf[1:65]); err != nil {
		return fmt.Errorf("invalid id hex: %w", err)
	}
	return nil
}

func IDFromHex(idh string) (ID, error) {
	id := ID{}
	if len(idh) != 64 {
		return id, fmt.Errorf("id should be 64-char hex, got '%s'", idh)
	}
	if _, err := hex.Decode(id[:], []byte(idh)); err != nil {
		return id, fmt.Errorf("'%s' is not valid hex: %w", idh, err)
	}
	return id, nil
}

func MustIDFromHex(idh string) ID {
	id, err := IDFromHex(idh)
	if err != nil {
		panic(err)
	}
	return id
}

// PubKey is the x-only schnorr public key of an event author.
type PubKey [32]byte

func (pk PubKey) String() string { return "pk::" + pk.Hex() }
func (pk PubKey) Hex() string    { return hex.EncodeToString(pk[:]) }

func (pk PubKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + pk.Hex() + `"`), nil
}

func (pk *PubKey) UnmarshalJSON(buf []byte) error {
	if len(buf) != 66 || buf[0] != '"' || buf[65] != '"' {
		return fmt.Errorf("pubkey must be a hex string of 64 characters")
	}
	if _, err := hex.Decode(pk[:], buf[1:65]); err != nil {
		return fmt.Errorf("invalid pubkey hex: %w", err)
	}
	return nil
}

func PubKeyFromHex(pkh string) (PubKey, error) {
	pk := PubKey{}
	if len(pkh) != 64 {
		return pk, fmt.Errorf("pubkey should be 64-char hex, got '%s'", pkh)
	}
	if _, err := hex.Decode(pk[:], []byte(pkh)); err != nil {
		return pk, fmt.Errorf("'%s' is not valid hex: %w", pkh, err)
	}
	return pk, nil
}

func MustPubKeyFromHex(pkh string) PubKey {
	pk, err := PubKeyFromHex(pkh)
	if err != nil {
		panic(err)
	}
	return pk
}

// Timestamp is a number of seconds since the unix epoch.
type Timestamp int64

func Now() Timestamp { return Timestamp(time.Now().Unix()) }

func (t Timestamp) Time() time.Time { return time.Unix(int64(t), 0) }
func (t Timestamp) String() string  { return strconv.FormatInt(int64(t), 10) }
