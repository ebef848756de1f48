package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// objectField is one known key written by marshalObject.
type objectField struct {
	key   string
	value any
	omit  bool
}

// marshalObject writes the members listed in order first, then any known
// fields not yet written in declaration order, then the remaining unknown
// keys sorted. A known field that is omitted falls back to a raw value of the
// same key in extra.
func marshalObject(fields []objectField, extra map[string]json.RawMessage, order []string) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	known := make(map[string]objectField, len(fields))
	for _, f := range fields {
		known[f.key] = f
	}
	written := make(map[string]bool, len(fields)+len(extra))

	emit := func(k string) error {
		if written[k] {
			return nil
		}
		var value []byte
		if f, ok := known[k]; ok && !f.omit {
			vb, err := json.Marshal(f.value)
			if err != nil {
				return fmt.Errorf("marshaling %s: %w", k, err)
			}
			value = vb
		} else if raw, ok := extra[k]; ok {
			value = raw
		} else {
			return nil
		}
		if len(written) > 0 {
			b.WriteByte(',')
		}
		written[k] = true
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(value)
		return nil
	}

	for _, k := range order {
		if err := emit(k); err != nil {
			return nil, err
		}
	}
	for _, f := range fields {
		if err := emit(f.key); err != nil {
			return nil, err
		}
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := emit(k); err != nil {
			return nil, err
		}
	}

	b.WriteByte('}')
	return b.Bytes(), nil
}

// jsonObject is a decoded JSON object: every member by key, the members not
// in the known set, and the member order as written.
type jsonObject struct {
	raw   map[string]json.RawMessage
	extra map[string]json.RawMessage
	order []string
}

// keep stores an unparsed member in extra so it survives re-encoding.
func (o *jsonObject) keep(key string) {
	v, ok := o.raw[key]
	if !ok {
		return
	}
	if o.extra == nil {
		o.extra = make(map[string]json.RawMessage)
	}
	o.extra[key] = v
}

// keepUnparsed keeps every numeric member in keys that is present but did
// not parse as a number, null included.
func (o *jsonObject) keepUnparsed(keys ...string) {
	for _, k := range keys {
		if numberMember(o.raw, k) == nil {
			o.keep(k)
		}
	}
}

// splitObject decodes data into its raw members and moves every key not in
// known into the extras map.
func splitObject(data []byte, known ...string) (*jsonObject, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected JSON object, got null")
	}
	order, err := memberOrder(data)
	if err != nil {
		return nil, err
	}
	isKnown := make(map[string]bool, len(known))
	for _, k := range known {
		isKnown[k] = true
	}
	obj := &jsonObject{raw: raw, order: order}
	for k, v := range raw {
		if isKnown[k] {
			continue
		}
		if obj.extra == nil {
			obj.extra = make(map[string]json.RawMessage)
		}
		obj.extra[k] = v
	}
	return obj, nil
}

// memberOrder lists the keys of a JSON object in the order they appear.
// Repeated keys are listed once.
func memberOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var order []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	return order, nil
}

func hasKey(order []string, key string) bool {
	for _, k := range order {
		if k == key {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// stringMember decodes an optional string member. Missing and null yield "".
// Numbers and booleans are rendered as their JSON text.
func stringMember(raw map[string]json.RawMessage, key string) (string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var decoded any
	if err := json.Unmarshal(v, &decoded); err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	switch decoded.(type) {
	case float64, bool:
		return string(bytes.TrimSpace(v)), nil
	default:
		return "", fmt.Errorf("%s: expected string", key)
	}
}

// optionalStringMember is stringMember that keeps "absent" distinguishable.
func optionalStringMember(raw map[string]json.RawMessage, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	s, err := stringMember(raw, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// stringListMember decodes a list of strings. A bare string is accepted as a
// one-element list.
func stringListMember(raw map[string]json.RawMessage, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(v, &single); err == nil {
		if single == "" {
			return []string{}, nil
		}
		return []string{single}, nil
	}
	return nil, fmt.Errorf("%s: expected list of strings", key)
}

// numberMember decodes a member through ParseNumeric. Anything that is not a
// finite number yields nil.
func numberMember(raw map[string]json.RawMessage, key string) *float64 {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil
	}
	f, ok := ParseNumeric(decoded)
	if !ok {
		return nil
	}
	return &f
}

func cloneOrder(order []string) []string {
	if order == nil {
		return nil
	}
	return append([]string(nil), order...)
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
