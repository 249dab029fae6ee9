package nostr

import (
	"testing"

	"github.com/mailru/easyjson"
	"github.com/stretchr/testify/require"
)

func TestFilterUnmarshal(t *testing.T) {
	raw := `{"ids": ["abc0000000000000000000000000000000000000000000000000000000000000"], "kinds": [1, 30023], "since": 1700000000, "until": 1800000000, "#e": ["x", "y"], "#t": ["nostr"], "search": "ignored", "#emoji": ["skip"], "limit": 20}`

	var f Filter
	require.NoError(t, easyjson.Unmarshal([]byte(raw), &f))
	require.Len(t, f.IDs, 1)
	require.Equal(t, []Kind{1, 30023}, f.Kinds)
	require.Equal(t, Timestamp(1700000000), *f.Since)
	require.Equal(t, Timestamp(1800000000), *f.Until)
	require.Equal(t, TagMap{"e": {"x", "y"}, "t": {"nostr"}}, f.Tags)
	require.Equal(t, 20, f.Limit)
	require.False(t, f.LimitZero)
	require.Nil(t, f.Authors)
}

func TestFilterLimitZero(t *testing.T) {
	var f Filter
	require.NoError(t, easyjson.Unmarshal([]byte(`{"kinds":[1],"limit":0}`), &f))
	require.True(t, f.LimitZero)
	require.True(t, f.HasLimit())

	var g Filter
	require.NoError(t, easyjson.Unmarshal([]byte(`{"kinds":[1]}`), &g))
	require.False(t, g.LimitZero)
	require.False(t, g.HasLimit())

	b, err := easyjson.Marshal(f)
	require.NoError(t, err)
	require.Contains(t, string(b), `"limit":0`)

	b, err = easyjson.Marshal(g)
	require.NoError(t, err)
	require.NotContains(t, string(b), `"limit"`)
}

func TestFilterUnmarshalErrors(t *testing.T) {
	for _, j := range []string{
		`{"ids":["nothex"]}`,
		`{"authors":["abc"]}`,
		`{"kinds":"1"}`,
		`{"since":"yesterday"}`,
		`[1,2]`,
	} {
		var f Filter
		require.Error(t, easyjson.Unmarshal([]byte(j), &f), j)
	}
}

func TestFilterMatching(t *testing.T) {
	pk1 := MustPubKeyFromHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	pk2 := MustPubKeyFromHex("c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5")
	evt := Event{
		ID:        MustIDFromHex("0000000000000000000000000000000000000000000000000000000000000001"),
		PubKey:    pk1,
		CreatedAt: 100,
		Kind:      KindTextNote,
		Tags:      Tags{{"e", "root"}, {"t"}},
	}
	since := func(ts Timestamp) *Timestamp { return &ts }

	for _, tc := range []struct {
		name   string
		filter Filter
		match  bool
	}{
		{"empty filter", Filter{}, true},
		{"kind", Filter{Kinds: []Kind{0, 1}}, true},
		{"other kind", Filter{Kinds: []Kind{7}}, false},
		{"empty kind list", Filter{Kinds: []Kind{}}, false},
		{"author", Filter{Authors: []PubKey{pk2, pk1}}, true},
		{"other author", Filter{Authors: []PubKey{pk2}}, false},
		{"id", Filter{IDs: []ID{evt.ID}}, true},
		{"other id", Filter{IDs: []ID{ZeroID}}, false},
		{"tag value", Filter{Tags: TagMap{"e": {"nope", "root"}}}, true},
		{"tag without value", Filter{Tags: TagMap{"t": {""}}}, false},
		{"missing tag", Filter{Tags: TagMap{"p": {"root"}}}, false},
		{"all tags must match", Filter{Tags: TagMap{"e": {"root"}, "p": {"x"}}}, false},
		{"since inclusive", Filter{Since: since(100)}, true},
		{"since after", Filter{Since: since(101)}, false},
		{"until inclusive", Filter{Until: since(100)}, true},
		{"until before", Filter{Until: since(99)}, false},
		{"window", Filter{Since: since(50), Until: since(150), Kinds: []Kind{1}}, true},
		{"limit does not affect matching", Filter{Limit: 1, LimitZero: true}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.match, tc.filter.Matches(evt))
		})
	}

	// timestamps are the only thing this one skips
	require.True(t, Filter{Until: since(1)}.MatchesIgnoringTimestampConstraints(evt))
	require.False(t, Filter{Until: since(1), Kinds: []Kind{2}}.MatchesIgnoringTimestampConstraints(evt))
}

func TestFilterClone(t *testing.T) {
	ts := Timestamp(10)
	f := Filter{Kinds: []Kind{1}, Tags: TagMap{"e": {"a"}}, Since: &ts}
	c := f.Clone()
	c.Kinds[0] = 2
	c.Tags["e"][0] = "b"
	*c.Since = 20

	require.Equal(t, Kind(1), f.Kinds[0])
	require.Equal(t, "a", f.Tags["e"][0])
	require.Equal(t, Timestamp(10), *f.Since)
}
