package hash

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Hasher maps an element to its hash code.
//
// A Hasher must be deterministic for the lifetime of the set it's used by.
type Hasher[T any] func(v T) uint64

// Create Hasher backed by [maphash.Comparable] with a random seed.
//
// This is the default Hasher when [WithHasher] is not provided.
func MapHasher[T comparable]() Hasher[T] {
	seed := maphash.MakeSeed()
	return func(v T) uint64 {
		return maphash.Comparable(seed, v)
	}
}

// Create identity Hasher for integers, i.e., uint64(v).
//
// Bucket placement becomes predictable, which is handy for tests and for keys that are already well distributed.
func IntHasher[T constraints.Integer]() Hasher[T] {
	return func(v T) uint64 {
		return uint64(v)
	}
}

// Create Hasher for strings using xxhash.
func StringHasher() Hasher[string] {
	return xxhash.Sum64String
}
