package fitsview

import (
	"encoding/binary"
	"unsafe"
)

// HostByteOrder inspects the in-memory layout of a two-byte word.
func HostByteOrder() (binary.ByteOrder, error) {
	word := uint16(0xaabb)
	b := (*[2]byte)(unsafe.Pointer(&word))
	switch {
	case b[0] == 0xbb && b[1] == 0xaa:
		return binary.LittleEndian, nil
	case b[0] == 0xaa && b[1] == 0xbb:
		return binary.BigEndian, nil
	}
	return nil, ErrEndiannessDetection
}

// Swap16 reverses the two bytes of v.
func Swap16(v uint16) uint16 {
	return v<<8 | v>>8
}
