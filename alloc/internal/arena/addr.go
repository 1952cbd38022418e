package arena

import "unsafe"

// sliceAddr returns the address of a byte slice's backing array.
// Arena.region is always the full reserveSize-length allocation from
// Init onward, so cap(b) > 0 whenever this is called.
func sliceAddr(b []byte) uintptr {
	if cap(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[:1][0]))
}
