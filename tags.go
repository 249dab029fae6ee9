package nostr

import (
	"iter"
	"slices"
)

type Tag []string

type Tags []Tag

// GetD gets the first "d" tag (for addressable events) value or ""
func (tags Tags) GetD() string {
	for _, v := range tags {
		if len(v) >= 2 && v[0] == "d" {
			return v[1]
		}
	}
	return ""
}

// Has returns true if a tag exists with the given key (whether or not it has a value)
func (tags Tags) Has(key string) bool {
	for _, v := range tags {
		if len(v) >= 1 && v[0] == key {
			return true
		}
	}
	return false
}

// Find returns the first tag with the given key/tagName that also has one value (i.e. at least 2 items)
func (tags Tags) Find(key string) Tag {
	for _, v := range tags {
		if len(v) >= 2 && v[0] == key {
			return v
		}
	}
	return nil
}

// FindAll yields all the tags the given key/tagName that also have one value (i.e. at least 2 items)
func (tags Tags) FindAll(key string) iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		for _, v := range tags {
			if len(v) >= 2 && v[0] == key {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// ContainsAny reports whether some tag named tagName has its value among values.
func (tags Tags) ContainsAny(tagName string, values []string) bool {
	for _, tag := range tags {
		if len(tag) < 2 {
			continue
		}

		if tag[0] != tagName {
			continue
		}

		if slices.Contains(values, tag[1]) {
			return true
		}
	}

	return false
}
