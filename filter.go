package nostr

import (
	"slices"

	"github.com/mailru/easyjson"
)

// Filter is a query over events. Nil fields are unconstrained.
type Filter struct {
	IDs     []ID
	Kinds   []Kind
	Authors []PubKey
	Tags    TagMap
	Since   *Timestamp
	Until   *Timestamp
	Limit   int

	// LimitZero is or must be set when there is a "limit":0 in the filter, and not when "limit" is just omitted
	LimitZero bool `json:"-"`
}

type TagMap map[string][]string

func (ef Filter) String() string {
	j, _ := easyjson.Marshal(ef)
	return string(j)
}

// Matches reports whether the event satisfies every constraint present in the filter.
// Both time bounds are inclusive.
func (ef Filter) Matches(event Event) bool {
	if !ef.MatchesIgnoringTimestampConstraints(event) {
		return false
	}

	if ef.Since != nil && event.CreatedAt < *ef.Since {
		return false
	}

	if ef.Until != nil && event.CreatedAt > *ef.Until {
		return false
	}

	return true
}

func (ef Filter) MatchesIgnoringTimestampConstraints(event Event) bool {
	if ef.IDs != nil && !slices.Contains(ef.IDs, event.ID) {
		return false
	}

	if ef.Kinds != nil && !slices.Contains(ef.Kinds, event.Kind) {
		return false
	}

	if ef.Authors != nil && !slices.Contains(ef.Authors, event.PubKey) {
		return false
	}

	for f, v := range ef.Tags {
		if v != nil && !event.Tags.ContainsAny(f, v) {
			return false
		}
	}

	return true
}

// HasLimit reports whether the filter caps the number of stored events returned for it.
func (ef Filter) HasLimit() bool {
	return ef.Limit > 0 || ef.LimitZero
}

func (ef Filter) Clone() Filter {
	clone := Filter{
		IDs:       slices.Clone(ef.IDs),
		Kinds:     slices.Clone(ef.Kinds),
		Authors:   slices.Clone(ef.Authors),
		Limit:     ef.Limit,
		LimitZero: ef.LimitZero,
	}

	if ef.Since != nil {
		since := *ef.Since
		clone.Since = &since
	}
	if ef.Until != nil {
		until := *ef.Until
		clone.Until = &until
	}

	if ef.Tags != nil {
		clone.Tags = make(TagMap, len(ef.Tags))
		for k, v := range ef.Tags {
			clone.Tags[k] = slices.Clone(v)
		}
	}

	return clone
}
