package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// ErrCycle is returned when a payload contains a cyclic reference.
// Cyclic structures cannot be canonicalized.
var ErrCycle = errors.New("canonical: payload contains a cyclic reference")

// ErrNonFinite is returned when a payload contains a NaN or infinite
// float. JSON has no encoding for them, so they cannot be
// canonicalized.
var ErrNonFinite = errors.New("canonical: payload contains a non-finite number")

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of a map Value. Member order is
// significant for encoding; FromAny always produces sorted members.
type Member struct {
	Key   string
	Value Value
}

// Value is a tagged-variant representation of a JSON-shaped payload.
// The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	number  string // canonical JSON number text
	str     string
	list    []Value
	members []Member
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value with JSON-canonical formatting.
// NaN and infinities have no JSON form and yield null; FromAny rejects
// them with ErrNonFinite before reaching here.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	b, _ := json.Marshal(f)
	return Value{kind: KindNumber, number: string(b)}
}

// Int returns an integer numeric value.
func Int(n int64) Value {
	b, _ := json.Marshal(n)
	return Value{kind: KindNumber, number: string(b)}
}

// List returns a list value. Element order is preserved and
// significant: lists with the same elements in different orders are
// distinct values.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// Map returns a map value with members in the given order. Callers
// that need key-order-independent values should use FromAny or call
// Sorted.
func Map(members ...Member) Value {
	return Value{kind: KindMap, members: members}
}

// StringValue returns the string held by a string value.
func (v Value) StringValue() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Members returns the map members in stored order.
func (v Value) Members() []Member {
	return v.members
}

// FromAny converts a JSON-representable Go value into a canonical
// Value. Map keys are sorted lexicographically at every nesting level;
// array order is preserved. nil and missing fields become null.
// Payloads containing cyclic references return ErrCycle; NaN and
// infinite floats return ErrNonFinite.
func FromAny(payload any) (Value, error) {
	return fromAny(payload, make(map[uintptr]struct{}))
}

func fromAny(payload any, seen map[uintptr]struct{}) (Value, error) {
	switch val := payload.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return Value{}, fmt.Errorf("%w: %v", ErrNonFinite, val)
		}
		return Number(val), nil
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: %v", ErrNonFinite, f)
		}
		return Number(f), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(int64(val)), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return Value{kind: KindNumber, number: fmt.Sprintf("%d", val)}, nil
	case json.Number:
		return Value{kind: KindNumber, number: val.String()}, nil
	case map[string]any:
		ptr := reflect.ValueOf(val).Pointer()
		if _, ok := seen[ptr]; ok {
			return Value{}, ErrCycle
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
		return fromMap(val, seen)
	case []any:
		if len(val) > 0 {
			ptr := reflect.ValueOf(val).Pointer()
			if _, ok := seen[ptr]; ok {
				return Value{}, ErrCycle
			}
			seen[ptr] = struct{}{}
			defer delete(seen, ptr)
		}
		elems := make([]Value, len(val))
		for i, e := range val {
			ev, err := fromAny(e, seen)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return List(elems...), nil
	default:
		// Structs, typed maps and slices round-trip through
		// encoding/json, which already rejects cycles.
		data, err := json.Marshal(val)
		if err != nil {
			// encoding/json reports both cycles and non-finite floats
			// as UnsupportedValueError; the offending value's kind
			// tells them apart.
			var unsupported *json.UnsupportedValueError
			if errors.As(err, &unsupported) {
				switch unsupported.Value.Kind() {
				case reflect.Float32, reflect.Float64:
					return Value{}, fmt.Errorf("%w: %s", ErrNonFinite, unsupported.Str)
				default:
					return Value{}, ErrCycle
				}
			}
			return Value{}, fmt.Errorf("canonical: payload not representable: %w", err)
		}
		var generic any
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&generic); err != nil {
			return Value{}, fmt.Errorf("canonical: decode round-trip: %w", err)
		}
		return fromAny(generic, seen)
	}
}

func fromMap(m map[string]any, seen map[uintptr]struct{}) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	members := make([]Member, 0, len(keys))
	for _, k := range keys {
		mv, err := fromAny(m[k], seen)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: k, Value: mv})
	}
	return Map(members...), nil
}

// Sorted returns a copy of the value with map members sorted by key at
// every nesting level. List order is untouched.
func (v Value) Sorted() Value {
	switch v.kind {
	case KindList:
		elems := make([]Value, len(v.list))
		for i, e := range v.list {
			elems[i] = e.Sorted()
		}
		return List(elems...)
	case KindMap:
		members := make([]Member, len(v.members))
		for i, m := range v.members {
			members[i] = Member{Key: m.Key, Value: m.Value.Sorted()}
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Key < members[j].Key })
		return Map(members...)
	default:
		return v
	}
}

// TransformStrings returns a copy of the value with fn applied to
// every string-valued leaf. Map keys are structure, not leaves, and
// are never transformed.
func (v Value) TransformStrings(fn func(string) string) Value {
	switch v.kind {
	case KindString:
		return String(fn(v.str))
	case KindList:
		elems := make([]Value, len(v.list))
		for i, e := range v.list {
			elems[i] = e.TransformStrings(fn)
		}
		return List(elems...)
	case KindMap:
		members := make([]Member, len(v.members))
		for i, m := range v.members {
			members[i] = Member{Key: m.Key, Value: m.Value.TransformStrings(fn)}
		}
		return Map(members...)
	default:
		return v
	}
}
