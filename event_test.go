package nostr

import (
	"testing"

	"github.com/mailru/easyjson"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "7f7ff03d123792d6ac594bfa67bf6d0c0ab55b6b1fdb6249303fe861f1ccba9a"

func TestEventSerialization(t *testing.T) {
	pk := MustPubKeyFromHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	evt := Event{
		PubKey:    pk,
		CreatedAt: 1700000000,
		Kind:      KindTextNote,
		Tags:      Tags{{"e", "abc"}, {"p", pk.Hex(), "wss://relay"}},
		Content:   `say "hello"`,
	}

	require.Equal(t,
		`[0,"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",1700000000,1,[["e","abc"],["p","79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798","wss://relay"]],"say \"hello\""]`,
		string(evt.Serialize()))

	empty := Event{PubKey: pk, Kind: 0}
	require.Equal(t, `[0,"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",0,0,[],""]`, string(empty.Serialize()))
}

func TestEventSignAndVerify(t *testing.T) {
	sk := MustSecretKeyFromHex(testSecretKey)
	evt := Event{CreatedAt: 1700000000, Kind: KindTextNote, Content: "hello"}
	require.NoError(t, evt.Sign(sk))

	require.Equal(t, GetPublicKey(sk), evt.PubKey)
	require.True(t, evt.CheckID())
	require.True(t, evt.VerifySignature())

	tampered := evt
	tampered.Content = "goodbye"
	require.False(t, tampered.CheckID())
	require.False(t, tampered.VerifySignature())
}

func TestEventJSON(t *testing.T) {
	sk := MustSecretKeyFromHex(testSecretKey)
	evt := Event{
		CreatedAt: 1700000000,
		Kind:      KindTextNote,
		Tags:      Tags{{"t", "nostr"}, {"empty"}},
		Content:   "line one\nline <two>",
	}
	require.NoError(t, evt.Sign(sk))

	b, err := easyjson.Marshal(evt)
	require.NoError(t, err)
	require.Contains(t, string(b), `"content":"line one\nline <two>"`)

	var back Event
	require.NoError(t, easyjson.Unmarshal(b, &back))
	require.Equal(t, evt, back)
	require.True(t, back.VerifySignature())

	// unknown keys are skipped
	var extra Event
	require.NoError(t, easyjson.Unmarshal([]byte(`{"kind":7,"foo":{"bar":[1,2]},"content":"+"}`), &extra))
	require.Equal(t, Kind(7), extra.Kind)
	require.Equal(t, "+", extra.Content)
}

func TestEventBadHex(t *testing.T) {
	for _, j := range []string{
		`{"id":"abc"}`,
		`{"pubkey":"zz9e667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"}`,
		`{"sig":"00"}`,
		`{"kind":"one"}`,
	} {
		var evt Event
		require.Error(t, easyjson.Unmarshal([]byte(j), &evt), j)
	}
}

func TestKindBands(t *testing.T) {
	for _, tc := range []struct {
		kind        Kind
		regular     bool
		replaceable bool
		ephemeral   bool
		addressable bool
	}{
		{0, false, true, false, false},
		{1, true, false, false, false},
		{3, false, true, false, false},
		{5, true, false, false, false},
		{9999, true, false, false, false},
		{10000, false, true, false, false},
		{19999, false, true, false, false},
		{20000, false, false, true, false},
		{29999, false, false, true, false},
		{30000, false, false, false, true},
		{39999, false, false, false, true},
		{40000, true, false, false, false},
	} {
		require.Equal(t, tc.regular, tc.kind.IsRegular(), "regular %d", tc.kind)
		require.Equal(t, tc.replaceable, tc.kind.IsReplaceable(), "replaceable %d", tc.kind)
		require.Equal(t, tc.ephemeral, tc.kind.IsEphemeral(), "ephemeral %d", tc.kind)
		require.Equal(t, tc.addressable, tc.kind.IsAddressable(), "addressable %d", tc.kind)
	}
}
