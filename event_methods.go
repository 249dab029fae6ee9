package nostr

import (
	"encoding/hex"
	"strconv"

	"github.com/mailru/easyjson"
)

func (evt Event) String() string {
	j, _ := easyjson.Marshal(evt)
	return string(j)
}

// Serialize outputs a byte array that can be hashed to produce the canonical event "id".
func (evt Event) Serialize() []byte {
	// the serialization process is just putting everything into a JSON array
	// so the order is kept. See NIP-01
	dst := make([]byte, 4+64, 100+len(evt.Content)+len(evt.Tags)*80)

	// [0,"pubkey",created_at,kind,[
	copy(dst, `[0,"`)
	hex.Encode(dst[4:4+64], evt.PubKey[:])
	dst = append(dst, `",`...)
	dst = append(dst, strconv.FormatInt(int64(evt.CreatedAt), 10)...)
	dst = append(dst, `,`...)
	dst = append(dst, strconv.FormatUint(uint64(evt.Kind), 10)...)
	dst = append(dst, `,`...)

	dst = append(dst, '[')
	for i, tag := range evt.Tags {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '[')
		for i, s := range tag {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = escapeString(dst, s)
		}
		dst = append(dst, ']')
	}
	dst = append(dst, "],"...)

	// content needs to be escaped in general as it is user generated.
	dst = escapeString(dst, evt.Content)
	dst = append(dst, ']')

	return dst
}

// Escaping strings for JSON encoding according to RFC8259.
// Also encloses result in quotation marks "".
func escapeString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c >= 0x20:
			dst = append(dst, c)
		case c == 0x08:
			dst = append(dst, '\\', 'b')
		case c < 0x09:
			dst = append(dst, '\\', 'u', '0', '0', '0', '0'+c)
		case c == 0x09:
			dst = append(dst, '\\', 't')
		case c == 0x0a:
			dst = append(dst, '\\', 'n')
		case c == 0x0c:
			dst = append(dst, '\\', 'f')
		case c == 0x0d:
			dst = append(dst, '\\', 'r')
		case c < 0x10:
			dst = append(dst, '\\', 'u', '0', '0', '0', 0x57+c)
		case c < 0x1a:
			dst = append(dst, '\\', 'u', '0', '0', '1', 0x20+c)
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', '1', 0x47+c)
		}
	}
	dst = append(dst, '"')
	return dst
}
