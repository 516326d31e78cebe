package util

import (
	"fmt"
	"math"
	"reflect"
)

// Fnv64a hashes a shard-routing key with 64-bit FNV-1a.
// Common key types take a type-switch fast path. Named types whose underlying
// kind is a string, integer, float or bool (e.g. `type Color uint32`) are
// hashed by that kind, so equal values always land on the same shard. Other
// types fall back to fmt.Stringer; anything else panics rather than hash badly.
func Fnv64a[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return fnv64aFromString(v)
	case uint64:
		return fnv64aFromUint64(v)
	case uint32:
		return fnv64aFromUint64(uint64(v))
	case int:
		return fnv64aFromUint64(uint64(v))
	case int64:
		return fnv64aFromUint64(uint64(v))
	}

	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.String:
		return fnv64aFromString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fnv64aFromUint64(uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fnv64aFromUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return fnv64aFromUint64(math.Float64bits(rv.Float()))
	case reflect.Bool:
		if rv.Bool() {
			return fnv64aFromUint64(1)
		}
		return fnv64aFromUint64(0)
	}

	if s, ok := any(k).(fmt.Stringer); ok {
		return fnv64aFromString(s.String())
	}
	panic(fmt.Sprintf("util.Fnv64a: unsupported key type %T; supply a hash function", k))
}

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

func fnv64aFromString(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func fnv64aFromUint64(u uint64) uint64 {
	// Hash the 8 little-endian bytes of u without allocating.
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
