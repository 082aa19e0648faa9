package utils

import (
	"bytes"
	"fmt"

	"github.com/ayongbc/gen-quic/internal/protocol"
)

// ReadVarIntPacketNumber reads a packet number encoded using the
// Variable-Length Packet Number encoding. The two most significant bits of the
// first byte encode the length: 0xxxxxxx is 1 byte, 10xxxxxx is 2 bytes and
// 11xxxxxx is 4 bytes.
func ReadVarIntPacketNumber(b *bytes.Reader) (protocol.PacketNumber, protocol.PacketNumberLen, error) {
	b1, err := b.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	if b1&0x80 == 0 {
		return protocol.PacketNumber(b1), protocol.PacketNumberLen1, nil
	}
	b2, err := b.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	if b1&0xc0 == 0x80 {
		return protocol.PacketNumber(uint64(b1&0x3f)<<8 + uint64(b2)), protocol.PacketNumberLen2, nil
	}
	b3, err := b.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	b4, err := b.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	return protocol.PacketNumber(uint64(b1&0x3f)<<24 + uint64(b2)<<16 + uint64(b3)<<8 + uint64(b4)), protocol.PacketNumberLen4, nil
}

// WriteVarIntPacketNumber writes a packet number encoded using the
// Variable-Length Packet Number encoding
func WriteVarIntPacketNumber(b *bytes.Buffer, pn protocol.PacketNumber, len protocol.PacketNumberLen) error {
	switch len {
	case protocol.PacketNumberLen1:
		b.WriteByte(uint8(pn & 0x7f))
	case protocol.PacketNumberLen2:
		BigEndian.WriteUint16(b, uint16(pn&0x3fff|0x8000))
	case protocol.PacketNumberLen4:
		BigEndian.WriteUint32(b, uint32(pn&0x3fffffff|0xc0000000))
	default:
		return fmt.Errorf("invalid packet number length: %d", len)
	}
	return nil
}
