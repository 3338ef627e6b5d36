// Package binaryserializer writes fixed-width little-endian integers and
// length-prefixed byte strings, the encoding used for transaction hashing.
package binaryserializer

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// scratchPool holds 8 byte buffers, enough for any of the integers written
// here.
var scratchPool = sync.Pool{
	New: func() interface{} { return new([8]byte) },
}

func write(w io.Writer, size int, fill func(buf []byte)) error {
	scratch := scratchPool.Get().(*[8]byte)
	defer scratchPool.Put(scratch)

	buf := scratch[:size]
	fill(buf)
	_, err := w.Write(buf)
	return errors.WithStack(err)
}

// PutUint8 writes a single byte to w.
func PutUint8(w io.Writer, val uint8) error {
	return write(w, 1, func(buf []byte) { buf[0] = val })
}

// PutUint16 writes val to w as two little-endian bytes.
func PutUint16(w io.Writer, val uint16) error {
	return write(w, 2, func(buf []byte) { binary.LittleEndian.PutUint16(buf, val) })
}

// PutUint32 writes val to w as four little-endian bytes.
func PutUint32(w io.Writer, val uint32) error {
	return write(w, 4, func(buf []byte) { binary.LittleEndian.PutUint32(buf, val) })
}

// PutUint64 writes val to w as eight little-endian bytes.
func PutUint64(w io.Writer, val uint64) error {
	return write(w, 8, func(buf []byte) { binary.LittleEndian.PutUint64(buf, val) })
}

// PutVarBytes writes the length of data as a little-endian uint64 followed
// by data itself.
func PutVarBytes(w io.Writer, data []byte) error {
	err := PutUint64(w, uint64(len(data)))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.WithStack(err)
}
