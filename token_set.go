package fulltext

import (
	"bytes"
	"iter"
)

// initialCapacity is the initial number of slots of a TokenSet; must be a power of two.
const initialCapacity = 8

// AddResult reports the outcome of TokenSet.Add.
type AddResult struct {
	// ID is the slot id of the key, always positive.
	ID int
	// Existing is true if the key was already present.
	Existing bool
}

// Signed returns the id as a sign-encoded integer: positive for a fresh
// insertion, negated for a key that was already present.
func (r AddResult) Signed() int {
	if r.Existing {
		return -r.ID
	}
	return r.ID
}

// TokenSet is a hash set of byte-array tokens that assigns every key a dense
// 1-based id. Collisions are resolved by separate chaining: buckets holds the
// head id of each chain and next links ids of the same chain.
//
// Ids are never reused. Deleting a key unlinks it and leaves a hole; id 0
// is the not-found sentinel and never denotes a live entry.
//
// A TokenSet is not safe for concurrent mutation; guard it with a Gate.
type TokenSet struct {
	keys    [][]byte
	next    []int
	buckets []int
	// size is the next id to assign
	size int
	// live is the number of keys that have not been deleted
	live int
}

// NewTokenSet creates an empty set.
func NewTokenSet() *TokenSet {
	s := &TokenSet{}
	s.init(initialCapacity)
	return s
}

func (s *TokenSet) init(capacity int) {
	s.keys = make([][]byte, capacity)
	s.next = make([]int, capacity)
	s.buckets = make([]int, capacity)
	s.size = 1
	s.live = 0
}

func (s *TokenSet) bucket(key []byte) int {
	if s.keys == nil {
		s.init(initialCapacity)
	}
	return int(uint32(Hash(key))) & (len(s.buckets) - 1)
}

// Add inserts key if it is not yet present. The key is copied.
func (s *TokenSet) Add(key []byte) AddResult {
	b := s.bucket(key)
	for id := s.buckets[b]; id != 0; id = s.next[id] {
		if bytes.Equal(s.keys[id], key) {
			return AddResult{ID: id, Existing: true}
		}
	}
	if s.size == len(s.keys) {
		s.rehash()
		b = s.bucket(key)
	}
	id := s.size
	s.size++
	s.live++
	s.keys[id] = append([]byte{}, key...)
	s.next[id] = s.buckets[b]
	s.buckets[b] = id
	return AddResult{ID: id}
}

// ID returns the id of key, or 0 if it is not present.
func (s *TokenSet) ID(key []byte) int {
	if s.keys == nil {
		return 0
	}
	for id := s.buckets[s.bucket(key)]; id != 0; id = s.next[id] {
		if bytes.Equal(s.keys[id], key) {
			return id
		}
	}
	return 0
}

// Contains reports whether key is present.
func (s *TokenSet) Contains(key []byte) bool {
	return s.ID(key) != 0
}

// Key returns the key stored under id, or nil for deleted or unknown ids.
// The returned slice must not be modified.
func (s *TokenSet) Key(id int) []byte {
	if id <= 0 || id >= s.size {
		return nil
	}
	return s.keys[id]
}

// Delete removes key and returns its former id, or 0 if it was not present.
func (s *TokenSet) Delete(key []byte) int {
	if s.keys == nil {
		return 0
	}
	b := s.bucket(key)
	prev := 0
	for id := s.buckets[b]; id != 0; id = s.next[id] {
		if bytes.Equal(s.keys[id], key) {
			if prev == 0 {
				s.buckets[b] = s.next[id]
			} else {
				s.next[prev] = s.next[id]
			}
			s.keys[id] = nil
			s.next[id] = 0
			s.live--
			return id
		}
		prev = id
	}
	return 0
}

// Len returns the number of live keys.
func (s *TokenSet) Len() int {
	return s.live
}

// MaxID returns the largest id assigned so far, holes included.
func (s *TokenSet) MaxID() int {
	return max(s.size-1, 0)
}

// Capacity returns the number of slots, including the reserved slot 0.
func (s *TokenSet) Capacity() int {
	return len(s.keys)
}

// All iterates over the live entries in id order.
func (s *TokenSet) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for id := 1; id < s.size; id++ {
			if s.keys[id] == nil {
				continue
			}
			if !yield(id, s.keys[id]) {
				return
			}
		}
	}
}

// rehash doubles the capacity and rebuilds the bucket chains.
func (s *TokenSet) rehash() {
	capacity := len(s.keys) << 1
	keys := make([][]byte, capacity)
	copy(keys, s.keys)
	s.keys = keys
	s.next = make([]int, capacity)
	s.buckets = make([]int, capacity)
	mask := capacity - 1
	for id := 1; id < s.size; id++ {
		if s.keys[id] == nil {
			continue
		}
		b := int(uint32(Hash(s.keys[id]))) & mask
		s.next[id] = s.buckets[b]
		s.buckets[b] = id
	}
}
