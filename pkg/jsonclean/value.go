package jsonclean

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "scalar"
	}
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value *Value
}

// Value is a JSON tree node. A nil *Value means absent.
//
// Scalars hold string, json.Number, bool or nil (JSON null).
type Value struct {
	Kind    Kind
	Scalar  any
	Members []Member
	Items   []*Value
}

// ErrInvalidJSON is returned by Parse for malformed input.
var ErrInvalidJSON = errors.New("invalid JSON")

func String(s string) *Value { return &Value{Kind: KindScalar, Scalar: s} }
func Number(n json.Number) *Value { return &Value{Kind: KindScalar, Scalar: n} }
func Bool(b bool) *Value { return &Value{Kind: KindScalar, Scalar: b} }
func Null() *Value { return &Value{Kind: KindScalar} }
func NewArray(items ...*Value) *Value { return &Value{Kind: KindArray, Items: items} }

// NewObject builds an object from members, keeping their order.
func NewObject(members ...Member) *Value {
	return &Value{Kind: KindObject, Members: members}
}

// Parse decodes JSON into a Value, keeping object keys in document order.
func Parse(data []byte) (*Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) *Value {
	switch {
	case r.IsObject():
		v := &Value{Kind: KindObject}
		r.ForEach(func(key, val gjson.Result) bool {
			v.Members = append(v.Members, Member{Key: key.Str, Value: fromResult(val)})
			return true
		})
		return v
	case r.IsArray():
		v := &Value{Kind: KindArray}
		r.ForEach(func(_, val gjson.Result) bool {
			v.Items = append(v.Items, fromResult(val))
			return true
		})
		return v
	}

	switch r.Type {
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		return Number(json.Number(r.Raw))
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	default:
		return Null()
	}
}

// FromAny converts a value produced by encoding/json (or gojq) into a Value.
// Map keys are sorted since Go maps carry no order.
func FromAny(x any) *Value {
	switch val := x.(type) {
	case nil:
		return Null()
	case *Value:
		return val
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		v := &Value{Kind: KindObject, Members: make([]Member, 0, len(keys))}
		for _, k := range keys {
			v.Members = append(v.Members, Member{Key: k, Value: FromAny(val[k])})
		}
		return v
	case []any:
		v := &Value{Kind: KindArray, Items: make([]*Value, 0, len(val))}
		for _, item := range val {
			v.Items = append(v.Items, FromAny(item))
		}
		return v
	case []string:
		v := &Value{Kind: KindArray, Items: make([]*Value, 0, len(val))}
		for _, s := range val {
			v.Items = append(v.Items, String(s))
		}
		return v
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case json.Number:
		return Number(val)
	case float64:
		return Number(json.Number(strconv.FormatFloat(val, 'f', -1, 64)))
	case int:
		return Number(json.Number(strconv.Itoa(val)))
	case int64:
		return Number(json.Number(strconv.FormatInt(val, 10)))
	}

	// Structs and other typed values go through their JSON form.
	data, err := json.Marshal(x)
	if err == nil {
		if v, err := Parse(data); err == nil {
			return v
		}
	}
	return String(fmt.Sprint(x))
}

// Get returns the first member named key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Keys lists object keys in order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.Members))
	for i, m := range v.Members {
		keys[i] = m.Key
	}
	return keys
}

// Str returns the scalar as a string when it is one.
func (v *Value) Str() (string, bool) {
	if v == nil || v.Kind != KindScalar {
		return "", false
	}
	s, ok := v.Scalar.(string)
	return s, ok
}

// Falsy reports whether v is absent, null, false, zero, the empty string,
// or an empty container.
func (v *Value) Falsy() bool {
	if v == nil {
		return true
	}
	switch v.Kind {
	case KindObject:
		return len(v.Members) == 0
	case KindArray:
		return len(v.Items) == 0
	}
	switch s := v.Scalar.(type) {
	case nil:
		return true
	case bool:
		return !s
	case string:
		return s == ""
	case json.Number:
		f, err := s.Float64()
		return err == nil && f == 0
	}
	return false
}

// Any converts v back to plain Go values (map[string]any, []any, ...).
func (v *Value) Any() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindObject:
		m := make(map[string]any, len(v.Members))
		for _, mem := range v.Members {
			m[mem.Key] = mem.Value.Any()
		}
		return m
	case KindArray:
		a := make([]any, len(v.Items))
		for i, item := range v.Items {
			a[i] = item.Any()
		}
		return a
	}
	if n, ok := v.Scalar.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v.Scalar
}

// MarshalJSON encodes v with object keys in their original order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(v.Scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
