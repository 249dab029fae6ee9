package nostr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	sk := MustSecretKeyFromHex(testSecretKey)
	evt := Event{CreatedAt: 1700000000, Kind: KindTextNote, Content: "hi"}
	require.NoError(t, evt.Sign(sk))

	t.Run("event", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["EVENT",` + evt.String() + `]`))
		require.NoError(t, err)
		ee := env.(*EventEnvelope)
		require.Nil(t, ee.SubscriptionID)
		require.Equal(t, evt, ee.Event)
		require.Equal(t, "EVENT", env.Label())
	})

	t.Run("event with subscription", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["EVENT","sub",` + evt.String() + `]`))
		require.NoError(t, err)
		ee := env.(*EventEnvelope)
		require.Equal(t, "sub", *ee.SubscriptionID)
		require.Equal(t, evt.ID, ee.Event.ID)
	})

	t.Run("req", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["REQ","s1",{"kinds":[1]},{"authors":["` + evt.PubKey.Hex() + `"],"limit":0}]`))
		require.NoError(t, err)
		req := env.(*ReqEnvelope)
		require.Equal(t, "s1", req.SubscriptionID)
		require.Len(t, req.Filters, 2)
		require.Equal(t, []Kind{1}, req.Filters[0].Kinds)
		require.True(t, req.Filters[1].LimitZero)
	})

	t.Run("req without filters", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["REQ","s1"]`))
		require.NoError(t, err)
		require.Empty(t, env.(*ReqEnvelope).Filters)
	})

	t.Run("count query", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["COUNT","c",{"kinds":[1]}]`))
		require.NoError(t, err)
		ce := env.(*CountEnvelope)
		require.Equal(t, "c", ce.SubscriptionID)
		require.NotNil(t, ce.Filter)
		require.Nil(t, ce.Count)
	})

	t.Run("count result", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["COUNT","c",{"count":42}]`))
		require.NoError(t, err)
		ce := env.(*CountEnvelope)
		require.Nil(t, ce.Filter)
		require.Equal(t, uint32(42), *ce.Count)
	})

	t.Run("incomplete count", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["COUNT"]`))
		require.NoError(t, err)
		ce := env.(*CountEnvelope)
		require.Empty(t, ce.SubscriptionID)
		require.Nil(t, ce.Filter)
	})

	t.Run("close", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["CLOSE","s1"]`))
		require.NoError(t, err)
		require.Equal(t, CloseEnvelope("s1"), *env.(*CloseEnvelope))
	})

	t.Run("server frames", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["OK","` + evt.ID.Hex() + `",false,"duplicate: already have this event"]`))
		require.NoError(t, err)
		ok := env.(*OKEnvelope)
		require.Equal(t, evt.ID, ok.EventID)
		require.False(t, ok.OK)
		require.Equal(t, "duplicate: already have this event", ok.Reason)

		env, err = ParseMessage([]byte(`["EOSE","s1"]`))
		require.NoError(t, err)
		require.Equal(t, EOSEEnvelope("s1"), *env.(*EOSEEnvelope))

		env, err = ParseMessage([]byte(`["NOTICE","hello"]`))
		require.NoError(t, err)
		require.Equal(t, NoticeEnvelope("hello"), *env.(*NoticeEnvelope))

		env, err = ParseMessage([]byte(`["CLOSED","s1","error: bye"]`))
		require.NoError(t, err)
		require.Equal(t, ClosedEnvelope{SubscriptionID: "s1", Reason: "error: bye"}, *env.(*ClosedEnvelope))
	})

	t.Run("unknown label", func(t *testing.T) {
		env, err := ParseMessage([]byte(`["AUTH","challenge"]`))
		require.NoError(t, err)
		unknown := env.(*UnknownEnvelope)
		require.Equal(t, "AUTH", unknown.Label())
		require.Equal(t, `["AUTH","challenge"]`, unknown.String())
	})
}

func TestParseMessageErrors(t *testing.T) {
	for _, raw := range []string{
		``,
		`not json`,
		`["REQ","s1",{"kinds":[1]}`,
		`{"type":"REQ"}`,
		`[]`,
		`[1,"s1"]`,
		`["REQ"]`,
		`["REQ",""]`,
		`["REQ",7,{}]`,
		`["REQ","s1","notafilter"]`,
		`["REQ","s1",{"ids":["short"]}]`,
		`["EVENT"]`,
		`["EVENT","a","b","c"]`,
		`["EVENT",[]]`,
		`["EVENT",{"id":"xyz"}]`,
		`["CLOSE"]`,
		`["COUNT","c",{"count":"many"}]`,
		`["COUNT","c",[1]]`,
	} {
		_, err := ParseMessage([]byte(raw))
		require.Error(t, err, raw)
	}

	_, err := ParseMessage([]byte(`nope`))
	require.ErrorIs(t, err, ErrInvalidJSONEnvelope)
	_, err = ParseMessage([]byte(`{}`))
	require.ErrorIs(t, err, ErrInvalidJSONEnvelope)
}

func TestEnvelopeMarshaling(t *testing.T) {
	id := MustIDFromHex("abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789")
	count := uint32(3)
	kinds := Filter{Kinds: []Kind{1}}

	for _, tc := range []struct {
		env interface {
			MarshalJSON() ([]byte, error)
			String() string
		}
		expected string
	}{
		{OKEnvelope{EventID: id, OK: true, Reason: ""}, `["OK","abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789",true,""]`},
		{OKEnvelope{EventID: id, OK: false, Reason: `blocked: "x"`}, `["OK","abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789",false,"blocked: \"x\""]`},
		{EOSEEnvelope("sub"), `["EOSE","sub"]`},
		{NoticeEnvelope("error: <bad>"), `["NOTICE","error: <bad>"]`},
		{CloseEnvelope("sub"), `["CLOSE","sub"]`},
		{ClosedEnvelope{SubscriptionID: "sub", Reason: "gone"}, `["CLOSED","sub","gone"]`},
		{CountEnvelope{SubscriptionID: "c", Count: &count}, `["COUNT","c",{"count":3}]`},
		{CountEnvelope{SubscriptionID: "c", Filter: &kinds}, `["COUNT","c",{"kinds":[1]}]`},
		{ReqEnvelope{SubscriptionID: "s", Filters: []Filter{kinds, {}}}, `["REQ","s",{"kinds":[1]},{}]`},
	} {
		b, err := tc.env.MarshalJSON()
		require.NoError(t, err)
		require.Equal(t, tc.expected, string(b))
		require.Equal(t, tc.expected, tc.env.String())
	}

	sub := "sub"
	evt := Event{Kind: 1, Content: "x"}
	b, err := EventEnvelope{SubscriptionID: &sub, Event: evt}.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `["EVENT","sub",`+evt.String()+`]`, string(b))

	// what goes out must come back the same
	env, err := ParseMessage(b)
	require.NoError(t, err)
	require.Equal(t, evt.Content, env.(*EventEnvelope).Content)
}
