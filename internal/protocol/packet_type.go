package protocol

import "fmt"

// The PacketType is the type of a long header packet
type PacketType uint8

const (
	// PacketTypeInitial is the packet type of an Initial packet
	PacketTypeInitial PacketType = 0x7f
	// PacketTypeRetry is the packet type of a Retry packet
	PacketTypeRetry PacketType = 0x7e
	// PacketTypeHandshake is the packet type of a Handshake packet
	PacketTypeHandshake PacketType = 0x7d
	// PacketType0RTT is the packet type of a 0-RTT packet
	PacketType0RTT PacketType = 0x7c
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeInitial:
		return "Initial"
	case PacketTypeRetry:
		return "Retry"
	case PacketTypeHandshake:
		return "Handshake"
	case PacketType0RTT:
		return "0-RTT Protected"
	default:
		return fmt.Sprintf("unknown packet type: %d", t)
	}
}

// EncryptionLevel returns the encryption level a packet of this type is protected with
func (t PacketType) EncryptionLevel() EncryptionLevel {
	switch t {
	case PacketTypeInitial, PacketTypeRetry:
		return EncryptionInitial
	case PacketType0RTT:
		return Encryption0RTT
	default:
		return EncryptionHandshake
	}
}
