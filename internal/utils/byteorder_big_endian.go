package utils

import (
	"bytes"
	"io"
)

// BigEndian is the big-endian implementation of ByteOrder
var BigEndian ByteOrder = bigEndian{}

type bigEndian struct{}

var _ ByteOrder = &bigEndian{}

// ReadUintN reads N bytes
func (bigEndian) ReadUintN(b io.ByteReader, length uint8) (uint64, error) {
	var res uint64
	for i := uint8(0); i < length; i++ {
		bt, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		res ^= uint64(bt) << ((length - 1 - i) * 8)
	}
	return res, nil
}

// ReadUint64 reads a uint64
func (b bigEndian) ReadUint64(r io.ByteReader) (uint64, error) {
	return b.ReadUintN(r, 8)
}

// ReadUint32 reads a uint32
func (b bigEndian) ReadUint32(r io.ByteReader) (uint32, error) {
	res, err := b.ReadUintN(r, 4)
	return uint32(res), err
}

// ReadUint16 reads a uint16
func (b bigEndian) ReadUint16(r io.ByteReader) (uint16, error) {
	res, err := b.ReadUintN(r, 2)
	return uint16(res), err
}

// WriteUint64 writes a uint64
func (bigEndian) WriteUint64(b *bytes.Buffer, i uint64) {
	b.Write([]byte{
		uint8(i >> 56), uint8(i >> 48), uint8(i >> 40), uint8(i >> 32),
		uint8(i >> 24), uint8(i >> 16), uint8(i >> 8), uint8(i),
	})
}

// WriteUint32 writes a uint32
func (bigEndian) WriteUint32(b *bytes.Buffer, i uint32) {
	b.Write([]byte{uint8(i >> 24), uint8(i >> 16), uint8(i >> 8), uint8(i)})
}

// WriteUint16 writes a uint16
func (bigEndian) WriteUint16(b *bytes.Buffer, i uint16) {
	b.Write([]byte{uint8(i >> 8), uint8(i)})
}
