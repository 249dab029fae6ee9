package nostr

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// VerifySignature checks if the event signature is valid for the given event.
// It won't look at the ID field, instead it will recompute the id from the entire event body.
func (evt Event) VerifySignature() bool {
	pubkey, err := schnorr.ParsePubKey(evt.PubKey[:])
	if err != nil {
		return false
	}

	sig, err := schnorr.ParseSignature(evt.Sig[:])
	if err != nil {
		return false
	}

	hash := sha256.Sum256(evt.Serialize())
	return sig.Verify(hash[:], pubkey)
}

// Sign signs an event with a given secret key.
//
// It sets the event's ID, PubKey, and Sig fields.
func (evt *Event) Sign(secretKey SecretKey) error {
	if evt.Tags == nil {
		evt.Tags = make(Tags, 0)
	}

	sk, pk := btcec.PrivKeyFromBytes(secretKey[:])
	evt.PubKey = PubKey(pk.SerializeCompressed()[1:])

	h := sha256.Sum256(evt.Serialize())
	sig, err := schnorr.Sign(sk, h[:], schnorr.FastSign())
	if err != nil {
		return err
	}

	evt.ID = h
	evt.Sig = [64]byte(sig.Serialize())

	return nil
}
