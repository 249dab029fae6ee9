package nostr

import (
	"encoding/hex"
	"maps"
	"slices"

	jlexer "github.com/mailru/easyjson/jlexer"
	jwriter "github.com/mailru/easyjson/jwriter"
)

func easyjsonDecodeFilter(in *jlexer.Lexer, out *Filter) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "ids":
			in.Delim('[')
			out.IDs = make([]ID, 0, 8)
			for !in.IsDelim(']') {
				id := ID{}
				decodeHexField(in, "ids item", id[:])
				out.IDs = append(out.IDs, id)
				in.WantComma()
			}
			in.Delim(']')
		case "kinds":
			in.Delim('[')
			out.Kinds = make([]Kind, 0, 4)
			for !in.IsDelim(']') {
				out.Kinds = append(out.Kinds, Kind(in.Uint16()))
				in.WantComma()
			}
			in.Delim(']')
		case "authors":
			in.Delim('[')
			out.Authors = make([]PubKey, 0, 8)
			for !in.IsDelim(']') {
				pk := PubKey{}
				decodeHexField(in, "authors item", pk[:])
				out.Authors = append(out.Authors, pk)
				in.WantComma()
			}
			in.Delim(']')
		case "since":
			since := Timestamp(in.Int64())
			out.Since = &since
		case "until":
			until := Timestamp(in.Int64())
			out.Until = &until
		case "limit":
			out.Limit = in.Int()
			if out.Limit == 0 {
				out.LimitZero = true
			}
		default:
			// only single-letter tag queries are indexable
			if len(key) == 2 && key[0] == '#' {
				tagValues := make([]string, 0, 4)
				in.Delim('[')
				for !in.IsDelim(']') {
					tagValues = append(tagValues, in.String())
					in.WantComma()
				}
				in.Delim(']')
				if out.Tags == nil {
					out.Tags = make(TagMap, 1)
				}
				out.Tags[key[1:]] = tagValues
			} else {
				in.SkipRecursive()
			}
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func easyjsonEncodeFilter(out *jwriter.Writer, in Filter) {
	out.RawByte('{')
	first := true
	prefix := func(name string) {
		if first {
			first = false
		} else {
			out.RawByte(',')
		}
		out.RawString("\"" + name + "\":")
	}

	if in.IDs != nil {
		prefix("ids")
		out.RawByte('[')
		for i, id := range in.IDs {
			if i > 0 {
				out.RawByte(',')
			}
			out.RawString("\"" + hex.EncodeToString(id[:]) + "\"")
		}
		out.RawByte(']')
	}
	if in.Kinds != nil {
		prefix("kinds")
		out.RawByte('[')
		for i, kind := range in.Kinds {
			if i > 0 {
				out.RawByte(',')
			}
			out.Int(int(kind))
		}
		out.RawByte(']')
	}
	if in.Authors != nil {
		prefix("authors")
		out.RawByte('[')
		for i, pk := range in.Authors {
			if i > 0 {
				out.RawByte(',')
			}
			out.RawString("\"" + hex.EncodeToString(pk[:]) + "\"")
		}
		out.RawByte(']')
	}
	if in.Since != nil {
		prefix("since")
		out.Int64(int64(*in.Since))
	}
	if in.Until != nil {
		prefix("until")
		out.Int64(int64(*in.Until))
	}
	if in.Limit != 0 || in.LimitZero {
		prefix("limit")
		out.Int(in.Limit)
	}
	for _, tag := range slices.Sorted(maps.Keys(in.Tags)) {
		prefix("#" + tag)
		out.RawByte('[')
		for i, v := range in.Tags[tag] {
			if i > 0 {
				out.RawByte(',')
			}
			out.String(v)
		}
		out.RawByte(']')
	}
	out.RawByte('}')
}

// MarshalJSON supports json.Marshaler interface
func (v Filter) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	easyjsonEncodeFilter(&w, v)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON supports easyjson.Marshaler interface
func (v Filter) MarshalEasyJSON(w *jwriter.Writer) {
	w.NoEscapeHTML = true
	easyjsonEncodeFilter(w, v)
}

// UnmarshalJSON supports json.Unmarshaler interface
func (v *Filter) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	easyjsonDecodeFilter(&r, v)
	return r.Error()
}

// UnmarshalEasyJSON supports easyjson.Unmarshaler interface
func (v *Filter) UnmarshalEasyJSON(l *jlexer.Lexer) {
	easyjsonDecodeFilter(l, v)
}
