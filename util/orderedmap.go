package netifaceutil

import (
	"iter"
	"slices"
)

// The specialized map that keeps the order of the keys.
//
// It supports three ways of iterating over the map:
//
// 1. Iterating by index:
//
//	for i := 0; i < m.GetSize(); i++ {
//		key, value := m.GetAt(i)
//		// Do something with the key and value.
//	}
//
// 2. Iterating with callback function:
//
//	m.ForEach(func(key TKey, value TValue) bool {
//		// Do something with the key and value.
//		return true
//	})
//
// 3. Iterating with the range-over-func iterator:
//
//	for key, value := range m.All() {
//		// Do something with the key and value.
//	}
//
// Updating the value of an existing key keeps the key at its position.
// The order changes only on deletion or on an explicit sort.
type OrderedMap[TKey comparable, TValue any] struct {
	keys []TKey
	data map[TKey]TValue
}

// Creates a new instance of the ordered map.
func NewOrderedMap[TKey comparable, TValue any]() *OrderedMap[TKey, TValue] {
	return &OrderedMap[TKey, TValue]{
		keys: make([]TKey, 0),
		data: make(map[TKey]TValue),
	}
}

// Creates a new instance of the ordered map from the given keys and values.
// The length of the keys and values must be the same.
func NewOrderedMapFromEntries[TKey comparable, TValue any](keys []TKey, values []TValue) *OrderedMap[TKey, TValue] {
	m := NewOrderedMap[TKey, TValue]()
	for i, key := range keys {
		m.Set(key, values[i])
	}
	return m
}

// Sets the value for the given key. If the key already exists, the value will
// be updated in place. Otherwise, the key is appended at the end.
func (m *OrderedMap[TKey, TValue]) Set(key TKey, value TValue) {
	if _, ok := m.data[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.data[key] = value
}

// Gets the value for the given key. If the key does not exist, the second
// return value will be false.
func (m *OrderedMap[TKey, TValue]) Get(key TKey) (TValue, bool) {
	value, ok := m.data[key]
	return value, ok
}

// Checks if the key exists in the map.
func (m *OrderedMap[TKey, TValue]) Has(key TKey) bool {
	_, ok := m.data[key]
	return ok
}

// Gets the key and value at the given index. It panics if the index is out of
// range.
func (m *OrderedMap[TKey, TValue]) GetAt(index int) (TKey, TValue) {
	key := m.keys[index]
	value := m.data[key]
	return key, value
}

// Returns the position of the key or -1 if the key does not exist.
func (m *OrderedMap[TKey, TValue]) IndexOf(key TKey) int {
	if _, ok := m.data[key]; !ok {
		return -1
	}
	return slices.Index(m.keys, key)
}

// Deletes the key from the map and returns the deleted value. If the key
// does not exist, it does nothing and the second return value is false.
func (m *OrderedMap[TKey, TValue]) Delete(key TKey) (TValue, bool) {
	value, ok := m.data[key]
	if !ok {
		return value, false
	}

	delete(m.data, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return value, true
}

// Reorders the keys using the comparison function. The sort is stable so
// the keys comparing as equal keep their relative order.
func (m *OrderedMap[TKey, TValue]) SortStableFunc(cmp func(a, b TKey) int) {
	slices.SortStableFunc(m.keys, cmp)
}

// Returns a copy of the keys in the map order.
func (m *OrderedMap[TKey, TValue]) GetKeys() []TKey {
	return slices.Clone(m.keys)
}

// Returns a slice of values in the map order.
func (m *OrderedMap[TKey, TValue]) GetValues() []TValue {
	values := make([]TValue, 0, len(m.keys))
	for _, key := range m.keys {
		values = append(values, m.data[key])
	}
	return values
}

// Returns the number of key-value pairs in the map.
func (m *OrderedMap[TKey, TValue]) GetSize() int {
	return len(m.keys)
}

// Iterates over the key-value pairs in the map order.
// The iteration can be stopped by returning false from the callback function.
func (m *OrderedMap[TKey, TValue]) ForEach(callback func(TKey, TValue) bool) {
	for _, key := range m.keys {
		if !callback(key, m.data[key]) {
			break
		}
	}
}

// Returns an iterator over the key-value pairs in the map order. The
// iterator is lazy and can be restarted.
func (m *OrderedMap[TKey, TValue]) All() iter.Seq2[TKey, TValue] {
	return func(yield func(TKey, TValue) bool) {
		m.ForEach(yield)
	}
}
