package nostr

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mailru/easyjson"
	jwriter "github.com/mailru/easyjson/jwriter"
	"github.com/tidwall/gjson"
)

var ErrInvalidJSONEnvelope = errors.New("invalid json envelope")

// ParseMessage decodes a raw protocol frame into one of the known envelopes.
// Frames whose label is not known are returned as an *UnknownEnvelope so callers can ignore them.
func ParseMessage(message []byte) (Envelope, error) {
	if !gjson.ValidBytes(message) {
		return nil, ErrInvalidJSONEnvelope
	}
	r := gjson.ParseBytes(message)
	if !r.IsArray() {
		return nil, fmt.Errorf("%w: message is not an array", ErrInvalidJSONEnvelope)
	}
	arr := r.Array()
	if len(arr) == 0 || arr[0].Type != gjson.String {
		return nil, fmt.Errorf("%w: missing message type", ErrInvalidJSONEnvelope)
	}

	var v Envelope
	switch arr[0].Str {
	case "EVENT":
		v = &EventEnvelope{}
	case "REQ":
		v = &ReqEnvelope{}
	case "COUNT":
		v = &CountEnvelope{}
	case "CLOSE":
		x := CloseEnvelope("")
		v = &x
	case "NOTICE":
		x := NoticeEnvelope("")
		v = &x
	case "EOSE":
		x := EOSEEnvelope("")
		v = &x
	case "OK":
		v = &OKEnvelope{}
	case "CLOSED":
		v = &ClosedEnvelope{}
	default:
		return &UnknownEnvelope{Type: arr[0].Str, Raw: string(message)}, nil
	}

	if err := v.decode(arr); err != nil {
		return nil, err
	}

	return v, nil
}

// Envelope is implemented by every protocol frame. The set of implementations is closed.
type Envelope interface {
	Label() string
	MarshalJSON() ([]byte, error)
	String() string

	decode(arr []gjson.Result) error
}

var (
	_ Envelope = (*EventEnvelope)(nil)
	_ Envelope = (*ReqEnvelope)(nil)
	_ Envelope = (*CountEnvelope)(nil)
	_ Envelope = (*CloseEnvelope)(nil)
	_ Envelope = (*NoticeEnvelope)(nil)
	_ Envelope = (*EOSEEnvelope)(nil)
	_ Envelope = (*OKEnvelope)(nil)
	_ Envelope = (*ClosedEnvelope)(nil)
	_ Envelope = (*UnknownEnvelope)(nil)
)

func envelopeString(v interface{ MarshalJSON() ([]byte, error) }) string {
	j, _ := v.MarshalJSON()
	return string(j)
}

func decodeObject(res gjson.Result, what string, v easyjson.Unmarshaler) error {
	if !res.IsObject() {
		return fmt.Errorf("%s must be an object", what)
	}
	if err := easyjson.Unmarshal([]byte(res.Raw), v); err != nil {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	return nil
}

// EventEnvelope represents an EVENT message.
type EventEnvelope struct {
	SubscriptionID *string
	Event
}

func (_ EventEnvelope) Label() string  { return "EVENT" }
func (v EventEnvelope) String() string { return envelopeString(v) }

func (v *EventEnvelope) decode(arr []gjson.Result) error {
	switch len(arr) {
	case 2:
		return decodeObject(arr[1], "event", &v.Event)
	case 3:
		if arr[1].Type != gjson.String {
			return fmt.Errorf("subscription id must be a string")
		}
		subid := arr[1].Str
		v.SubscriptionID = &subid
		return decodeObject(arr[2], "event", &v.Event)
	default:
		return fmt.Errorf("failed to decode EVENT envelope: expected 2 or 3 elements, got %d", len(arr))
	}
}

func (v EventEnvelope) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawString(`["EVENT",`)
	if v.SubscriptionID != nil {
		w.String(*v.SubscriptionID)
		w.RawByte(',')
	}
	v.Event.MarshalEasyJSON(&w)
	w.RawByte(']')
	return w.BuildBytes()
}

// ReqEnvelope represents a REQ message.
type ReqEnvelope struct {
	SubscriptionID string
	Filters        []Filter
}

func (_ ReqEnvelope) Label() string  { return "REQ" }
func (v ReqEnvelope) String() string { return envelopeString(v) }

func (v *ReqEnvelope) decode(arr []gjson.Result) error {
	if len(arr) < 2 || arr[1].Type != gjson.String || arr[1].Str == "" {
		return fmt.Errorf("failed to decode REQ envelope: missing subscription id")
	}
	v.SubscriptionID = arr[1].Str

	v.Filters = make([]Filter, len(arr)-2)
	for i, filterj := range arr[2:] {
		if err := decodeObject(filterj, "filter", &v.Filters[i]); err != nil {
			return err
		}
	}

	return nil
}

func (v ReqEnvelope) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawString(`["REQ",`)
	w.String(v.SubscriptionID)
	for _, filter := range v.Filters {
		w.RawByte(',')
		filter.MarshalEasyJSON(&w)
	}
	w.RawByte(']')
	return w.BuildBytes()
}

// CountEnvelope represents a COUNT message, either a query (Filter set) or a result (Count set).
type CountEnvelope struct {
	SubscriptionID string
	Filter         *Filter
	Count          *uint32
}

func (_ CountEnvelope) Label() string  { return "COUNT" }
func (v CountEnvelope) String() string { return envelopeString(v) }

// missing parts are not an error here, the relay decides to ignore incomplete queries
func (v *CountEnvelope) decode(arr []gjson.Result) error {
	if len(arr) >= 2 && arr[1].Type == gjson.String {
		v.SubscriptionID = arr[1].Str
	}
	if len(arr) < 3 {
		return nil
	}

	if count := arr[2].Get("count"); count.Exists() {
		if count.Type != gjson.Number {
			return fmt.Errorf("invalid \"count\" value in COUNT message")
		}
		c := uint32(count.Uint())
		v.Count = &c
		return nil
	}

	var filter Filter
	if err := decodeObject(arr[2], "filter", &filter); err != nil {
		return err
	}
	v.Filter = &filter
	return nil
}

func (v CountEnvelope) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawString(`["COUNT",`)
	w.String(v.SubscriptionID)
	w.RawByte(',')
	switch {
	case v.Count != nil:
		w.RawString(`{"count":`)
		w.Uint32(*v.Count)
		w.RawByte('}')
	case v.Filter != nil:
		v.Filter.MarshalEasyJSON(&w)
	default:
		w.RawString("{}")
	}
	w.RawByte(']')
	return w.BuildBytes()
}

// CloseEnvelope represents a CLOSE message.
type CloseEnvelope string

func (_ CloseEnvelope) Label() string  { return "CLOSE" }
func (v CloseEnvelope) String() string { return envelopeString(v) }

func (v *CloseEnvelope) decode(arr []gjson.Result) error {
	if len(arr) < 2 || arr[1].Type != gjson.String {
		return fmt.Errorf("failed to decode CLOSE envelope: missing subscription id")
	}
	*v = CloseEnvelope(arr[1].Str)
	return nil
}

func (v CloseEnvelope) MarshalJSON() ([]byte, error) {
	return labelAndString("CLOSE", string(v))
}

// NoticeEnvelope represents a NOTICE message.
type NoticeEnvelope string

func (_ NoticeEnvelope) Label() string  { return "NOTICE" }
func (v NoticeEnvelope) String() string { return envelopeString(v) }

func (v *NoticeEnvelope) decode(arr []gjson.Result) error {
	if len(arr) < 2 {
		return fmt.Errorf("failed to decode NOTICE envelope")
	}
	*v = NoticeEnvelope(arr[1].String())
	return nil
}

func (v NoticeEnvelope) MarshalJSON() ([]byte, error) {
	return labelAndString("NOTICE", string(v))
}

// EOSEEnvelope represents an EOSE (End of Stored Events) message.
type EOSEEnvelope string

func (_ EOSEEnvelope) Label() string  { return "EOSE" }
func (v EOSEEnvelope) String() string { return envelopeString(v) }

func (v *EOSEEnvelope) decode(arr []gjson.Result) error {
	if len(arr) < 2 {
		return fmt.Errorf("failed to decode EOSE envelope")
	}
	*v = EOSEEnvelope(arr[1].String())
	return nil
}

func (v EOSEEnvelope) MarshalJSON() ([]byte, error) {
	return labelAndString("EOSE", string(v))
}

// OKEnvelope represents an OK message.
type OKEnvelope struct {
	EventID ID
	OK      bool
	Reason  string
}

func (_ OKEnvelope) Label() string  { return "OK" }
func (v OKEnvelope) String() string { return envelopeString(v) }

func (v *OKEnvelope) decode(arr []gjson.Result) error {
	if len(arr) < 4 {
		return fmt.Errorf("failed to decode OK envelope: missing fields")
	}
	id, err := IDFromHex(arr[1].String())
	if err != nil {
		return err
	}
	v.EventID = id
	v.OK = arr[2].Bool()
	v.Reason = arr[3].String()
	return nil
}

func (v OKEnvelope) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawString(`["OK","`)
	w.RawString(v.EventID.Hex())
	w.RawString(`",`)
	w.RawString(strconv.FormatBool(v.OK))
	w.RawByte(',')
	w.String(v.Reason)
	w.RawByte(']')
	return w.BuildBytes()
}

// ClosedEnvelope represents a CLOSED message.
type ClosedEnvelope struct {
	SubscriptionID string
	Reason         string
}

func (_ ClosedEnvelope) Label() string  { return "CLOSED" }
func (v ClosedEnvelope) String() string { return envelopeString(v) }

func (v *ClosedEnvelope) decode(arr []gjson.Result) error {
	if len(arr) < 3 {
		return fmt.Errorf("failed to decode CLOSED envelope")
	}
	v.SubscriptionID = arr[1].String()
	v.Reason = arr[2].String()
	return nil
}

func (v ClosedEnvelope) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawString(`["CLOSED",`)
	w.String(v.SubscriptionID)
	w.RawByte(',')
	w.String(v.Reason)
	w.RawByte(']')
	return w.BuildBytes()
}

// UnknownEnvelope holds a well-formed frame with a label this package doesn't handle.
type UnknownEnvelope struct {
	Type string
	Raw  string
}

func (v UnknownEnvelope) Label() string  { return v.Type }
func (v UnknownEnvelope) String() string { return v.Raw }

func (v *UnknownEnvelope) decode(arr []gjson.Result) error { return nil }

func (v UnknownEnvelope) MarshalJSON() ([]byte, error) {
	return []byte(v.Raw), nil
}

func labelAndString(label, value string) ([]byte, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	w.RawString(`["` + label + `",`)
	w.String(value)
	w.RawByte(']')
	return w.BuildBytes()
}
