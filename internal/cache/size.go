package cache

import (
	"reflect"
	"unsafe"
)

// entryOverheadBytes approximates the bookkeeping cost of one entry beyond
// its payload: the map slot, the policy-structure node, and the charged-size
// field itself. It is added to every estimatedSize result so that an
// all-zero-length live payload still costs something, matching real
// allocator behaviour. Serialized payloads are charged their length plus
// serializedOverheadBytes instead.
const entryOverheadBytes = 48

// serializedOverheadBytes is the small constant overhead added on top of the
// length of a serialized byte sequence, per spec.md §4.1.4.
const serializedOverheadBytes = 16

// maxSizeDepth bounds recursion into nested structures so that deeply
// nested or cyclic values cannot make estimatedSize loop or blow the stack.
// Past this depth, contents are charged at a flat per-node estimate instead
// of being walked further.
const maxSizeDepth = 8

// estimatedSize returns a deterministic, depth-bounded approximation of the
// in-memory footprint of v, per spec.md §4.1.4. It walks v with reflect,
// charging Go's own header sizes (string/slice/map headers via
// unsafe.Sizeof) plus the contents one recursion level at a time, up to
// maxSizeDepth. It is deterministic for any two equal-valued inputs of the
// same concrete type.
func estimatedSize(v any) int64 {
	if v == nil {
		return entryOverheadBytes
	}
	return entryOverheadBytes + sizeOfValue(reflect.ValueOf(v), 0, make(map[uintptr]bool))
}

func sizeOfValue(v reflect.Value, depth int, seen map[uintptr]bool) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return int64(unsafe.Sizeof(uintptr(0)))
		}
		addr := v.Pointer()
		if seen[addr] {
			return int64(unsafe.Sizeof(uintptr(0)))
		}
		seen[addr] = true
		if depth >= maxSizeDepth {
			return int64(unsafe.Sizeof(uintptr(0)))
		}
		return int64(unsafe.Sizeof(uintptr(0))) + sizeOfValue(v.Elem(), depth+1, seen)

	case reflect.Interface:
		if v.IsNil() {
			return int64(unsafe.Sizeof(uintptr(0)) * 2)
		}
		return int64(unsafe.Sizeof(uintptr(0))*2) + sizeOfValue(v.Elem(), depth, seen)

	case reflect.String:
		return int64(unsafe.Sizeof("")) + int64(v.Len())

	case reflect.Slice:
		header := int64(unsafe.Sizeof(reflect.SliceHeader{}))
		if v.IsNil() {
			return header
		}
		return header + sizeOfSequenceElements(v, depth, seen)

	case reflect.Array:
		return sizeOfSequenceElements(v, depth, seen)

	case reflect.Map:
		const bucketOverhead = 48
		if v.IsNil() {
			return int64(unsafe.Sizeof(uintptr(0)))
		}
		total := int64(unsafe.Sizeof(uintptr(0)))
		if depth >= maxSizeDepth {
			return total + int64(v.Len())*bucketOverhead
		}
		iter := v.MapRange()
		for iter.Next() {
			total += bucketOverhead
			total += sizeOfValue(iter.Key(), depth+1, seen)
			total += sizeOfValue(iter.Value(), depth+1, seen)
		}
		return total

	case reflect.Struct:
		if depth >= maxSizeDepth {
			return int64(v.Type().Size())
		}
		var total int64
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			total += sizeOfValue(v.Field(i), depth+1, seen)
		}
		return total

	default:
		// bool, ints, uints, floats, complex, chan, func, unsafe.Pointer:
		// fixed-size kinds, charged at their static type size.
		return int64(v.Type().Size())
	}
}

func sizeOfSequenceElements(v reflect.Value, depth int, seen map[uintptr]bool) int64 {
	n := v.Len()
	if n == 0 {
		return 0
	}
	if depth >= maxSizeDepth {
		return int64(n) * int64(v.Type().Elem().Size())
	}
	var total int64
	for i := 0; i < n; i++ {
		total += sizeOfValue(v.Index(i), depth+1, seen)
	}
	return total
}
