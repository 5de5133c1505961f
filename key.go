package copairs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alxndrkalinin/copairs/metadata"
)

// KeyKind distinguishes the shapes a group key can take.
type KeyKind uint8

const (
	// KeyAll is the sentinel key of the single group formed when sameby is empty.
	KeyAll KeyKind = iota
	// KeyScalar holds the shared value of a one-column sameby.
	KeyScalar
	// KeyTuple holds the shared values of a multi-column sameby, in sameby order.
	KeyTuple
)

// String returns the name of the kind.
func (k KeyKind) String() string {
	switch k {
	case KeyAll:
		return "all"
	case KeyScalar:
		return "scalar"
	case KeyTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Key identifies a sameby group.
type Key struct {
	kind   KeyKind
	values []metadata.Value
}

// AllKey returns the sentinel key used when sameby is empty.
func AllKey() Key { return Key{kind: KeyAll} }

// ScalarKey returns a key holding one value.
func ScalarKey(v metadata.Value) Key {
	return Key{kind: KeyScalar, values: []metadata.Value{v}}
}

// TupleKey returns a key holding several values.
func TupleKey(values ...metadata.Value) Key {
	return Key{kind: KeyTuple, values: append([]metadata.Value(nil), values...)}
}

func keyOf(values []metadata.Value) Key {
	switch len(values) {
	case 0:
		return AllKey()
	case 1:
		return ScalarKey(values[0])
	default:
		return TupleKey(values...)
	}
}

// Kind returns the shape of the key.
func (k Key) Kind() KeyKind { return k.kind }

// Scalar returns the value of a KeyScalar key.
func (k Key) Scalar() (metadata.Value, bool) {
	if k.kind != KeyScalar {
		return metadata.Value{}, false
	}
	return k.values[0], true
}

// Values returns the values of the key in sameby order. It is empty for KeyAll.
func (k Key) Values() []metadata.Value {
	return append([]metadata.Value(nil), k.values...)
}

// Equal reports whether two keys have the same kind and values.
func (k Key) Equal(other Key) bool {
	if k.kind != other.kind || len(k.values) != len(other.values) {
		return false
	}
	for i := range k.values {
		if k.values[i].Key() != other.values[i].Key() {
			return false
		}
	}
	return true
}

// String renders the key: "*" for KeyAll, the value for KeyScalar and
// "(v1, v2, ...)" for KeyTuple.
func (k Key) String() string {
	switch k.kind {
	case KeyAll:
		return "*"
	case KeyScalar:
		return k.values[0].String()
	default:
		parts := make([]string, len(k.values))
		for i, v := range k.values {
			parts[i] = v.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

type keyJSON struct {
	Kind   string           `json:"kind"`
	Values []metadata.Value `json:"values,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyJSON{Kind: k.kind.String(), Values: k.values})
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Key) UnmarshalJSON(data []byte) error {
	var aux keyJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch aux.Kind {
	case "all":
		*k = AllKey()
	case "scalar":
		if len(aux.Values) != 1 {
			return fmt.Errorf("scalar key needs 1 value, got %d", len(aux.Values))
		}
		*k = ScalarKey(aux.Values[0])
	case "tuple":
		*k = TupleKey(aux.Values...)
	default:
		return fmt.Errorf("unknown key kind %q", aux.Kind)
	}
	return nil
}

// Pair is an unordered pair of row ids, stored canonically with A < B.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Group is the list of pairs found for one sameby key.
type Group struct {
	Key   Key    `json:"key"`
	Pairs []Pair `json:"pairs"`
}

// Result is the ordered outcome of a pair request: one Group per sameby
// cohort that produced at least one pair. Groups are ordered by the smallest
// row id of their cohort; pairs within a group by (A, B).
type Result []Group

// Len returns the total number of pairs across all groups. In a multilabel
// result a row pair sharing k labels counts k times.
func (r Result) Len() int {
	n := 0
	for _, g := range r {
		n += len(g.Pairs)
	}
	return n
}

// Keys returns the group keys in result order.
func (r Result) Keys() []Key {
	keys := make([]Key, len(r))
	for i, g := range r {
		keys[i] = g.Key
	}
	return keys
}

// Lookup returns the pairs of the group with the given key.
func (r Result) Lookup(key Key) ([]Pair, bool) {
	for _, g := range r {
		if g.Key.Equal(key) {
			return g.Pairs, true
		}
	}
	return nil, false
}

// Flatten concatenates the pairs of every group in result order.
func (r Result) Flatten() []Pair {
	out := make([]Pair, 0, r.Len())
	for _, g := range r {
		out = append(out, g.Pairs...)
	}
	return out
}
