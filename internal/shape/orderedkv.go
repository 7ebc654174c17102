package shape

import (
	"bytes"
	"encoding/json"
	"sort"
)

type OrderedKV[T any] struct {
	Value T
	Order int64
}

// OrderedKVMap is a map that marshals its keys by Order rather than alphabetically.
type OrderedKVMap[T any] map[string]OrderedKV[T]

// Set stores v under key. New keys go after every existing one; existing
// keys keep their position.
func (om OrderedKVMap[T]) Set(key string, v T) {
	if cur, ok := om[key]; ok {
		cur.Value = v
		om[key] = cur
		return
	}
	var next int64
	for _, kv := range om {
		if kv.Order >= next {
			next = kv.Order + 1
		}
	}
	om[key] = OrderedKV[T]{Value: v, Order: next}
}

func (om OrderedKVMap[T]) Get(key string) (T, bool) {
	kv, ok := om[key]
	return kv.Value, ok
}

// Keys returns the keys in order.
func (om OrderedKVMap[T]) Keys() []string {
	keys := make([]string, 0, len(om))
	for k := range om {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return om[keys[i]].Order < om[keys[j]].Order
	})
	return keys
}

func (om OrderedKVMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range om.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valueBytes, err := json.Marshal(om[key].Value)
		if err != nil {
			return nil, err
		}
		buf.Write(valueBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
