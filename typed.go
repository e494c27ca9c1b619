package arena

import "unsafe"

// Typed views over arena memory. Placement follows the arena's plain
// byte packing; types that need stronger alignment than one byte
// should pad their requests themselves.

// Make returns a zeroed *T stored inside the arena. The pointer stays
// valid until the arena is released.
func Make[T any](a *Arena) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}

	buf, err := a.Alloc(size)
	if err != nil {
		return nil, err
	}
	clear(buf)
	return (*T)(unsafe.Pointer(&buf[0])), nil
}

// MakeSlice returns a zeroed slice of n elements of T stored inside
// the arena.
func MakeSlice[T any](a *Arena, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return make([]T, n), nil
	}

	buf, err := a.Alloc(size * n)
	if err != nil {
		return nil, err
	}
	clear(buf)
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n), nil
}

// Bytes copies b into the arena and returns the arena-backed copy.
func Bytes(a *Arena, b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	buf, err := a.Alloc(len(b))
	if err != nil {
		return nil, err
	}
	copy(buf, b)
	return buf, nil
}

// String copies s into the arena and returns a string backed by arena
// memory. The bytes behind it are never handed out again, so the usual
// string immutability holds as long as the arena is alive.
func String(a *Arena, s string) (string, error) {
	if len(s) == 0 {
		return "", nil
	}
	buf, err := a.Alloc(len(s))
	if err != nil {
		return "", err
	}
	copy(buf, s)
	return unsafe.String(&buf[0], len(buf)), nil
}
