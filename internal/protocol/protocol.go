package protocol

// A PacketNumber in QUIC
type PacketNumber uint64

// PacketNumberLen is the length of the packet number in bytes
type PacketNumberLen uint8

const (
	// PacketNumberLenInvalid is the default value and not a valid length for a packet number
	PacketNumberLenInvalid PacketNumberLen = 0
	// PacketNumberLen1 is a packet number length of 1 byte
	PacketNumberLen1 PacketNumberLen = 1
	// PacketNumberLen2 is a packet number length of 2 bytes
	PacketNumberLen2 PacketNumberLen = 2
	// PacketNumberLen4 is a packet number length of 4 bytes
	PacketNumberLen4 PacketNumberLen = 4
)

// A ByteCount in QUIC
type ByteCount uint64

// MaxByteCount is the maximum value of a ByteCount
const MaxByteCount = ByteCount(1<<62 - 1)

// MinInitialPacketSize is the minimum size an Initial packet is required to have
const MinInitialPacketSize = 1200

// MaxReceivePacketSize is the maximum packet size we accept from a peer
const MaxReceivePacketSize ByteCount = 1452

// ConnectionIDLen is the length of connection IDs we use for outgoing packets
const ConnectionIDLen = 8

// DefaultIdleTimeout is the default idle timeout, in seconds
const DefaultIdleTimeout = 0

// DefaultMaxPacketSize is the maximum packet size advertised when the caller doesn't set one
const DefaultMaxPacketSize = 1200

// DefaultAckDelayExponent is the default ack delay exponent
const DefaultAckDelayExponent = 3
