// Package util contains internal helpers for the cache packages: key hashing
// for shard routing, power-of-two arithmetic and cache-line padding.
package util
