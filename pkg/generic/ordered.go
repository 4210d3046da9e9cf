package generic

import (
	"errors"
	"fmt"
	"iter"
)

var ErrDuplicateKey = errors.New("duplicate key")

// KeyValue is a single entry of an OrderedMap.
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// OrderedMap keeps entries in insertion order while providing map lookup.
// Iteration order is stable and equals the order of Add calls, which callers
// may rely on for flattened layouts.
type OrderedMap[K comparable, V any] struct {
	order []KeyValue[K, V]
	index map[K]int
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{index: make(map[K]int)}
}

// Add appends a new entry. Existing keys are rejected so positions never move.
func (m *OrderedMap[K, V]) Add(key K, value V) error {
	if _, ok := m.index[key]; ok {
		return fmt.Errorf("%v: %w", key, ErrDuplicateKey)
	}
	m.index[key] = len(m.order)
	m.order = append(m.order, KeyValue[K, V]{Key: key, Value: value})
	return nil
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.order[i].Value, true
}

// IndexOf returns the insertion position of key, or -1.
func (m *OrderedMap[K, V]) IndexOf(key K) int {
	if i, ok := m.index[key]; ok {
		return i
	}
	return -1
}

// At returns the entry at position i.
func (m *OrderedMap[K, V]) At(i int) KeyValue[K, V] {
	return m.order[i]
}

func (m *OrderedMap[K, V]) Len() int { return len(m.order) }

// Keys returns keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.order))
	for i, kv := range m.order {
		keys[i] = kv.Key
	}
	return keys
}

// Values returns values in insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	vals := make([]V, len(m.order))
	for i, kv := range m.order {
		vals[i] = kv.Value
	}
	return vals
}

// All iterates entries in insertion order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, kv := range m.order {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	}
}
