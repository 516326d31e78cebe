package cache

import (
	"errors"
	"reflect"
)

var (
	// ErrInvalidKey is returned by GetEntry for nil keys and for keys
	// rejected by the adapter's KeyValidator.
	ErrInvalidKey = errors.New("cache: invalid key")

	// ErrClosed is returned by GetEntry after Close.
	ErrClosed = errors.New("cache: closed")
)

// isNilKey reports whether k is a nil pointer, interface, map, slice,
// func or chan. Value kinds are never nil.
func isNilKey[K any](k K) bool {
	v := reflect.ValueOf(any(k))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
