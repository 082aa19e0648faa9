package handshake

import (
	"github.com/ayongbc/gen-quic/internal/crypto"
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/wire"
)

// An AEADWithPacketNumberCrypto seals and opens packet payloads and applies
// the packet number protection.
type AEADWithPacketNumberCrypto interface {
	crypto.AEAD
	EncryptPacketNumber(data []byte, pnLen protocol.PacketNumberLen) error
	DecryptPacketNumber(data []byte) (protocol.PacketNumber, protocol.PacketNumberLen, error)
}

// Result is the outcome of handling an inbound handshake record.
type Result int

const (
	// ResultValid means the record was consumed and the handshake position advanced.
	ResultValid Result = iota
	// ResultIncomplete means the record was consumed (or was a repeat), and
	// more records are needed before the handshake position advances.
	ResultIncomplete
	// ResultOutOfOrder means the record starts beyond the expected stream
	// offset. The caller should buffer the frame and retry after later arrivals.
	ResultOutOfOrder
)

func (r Result) String() string {
	switch r {
	case ResultValid:
		return "valid"
	case ResultIncomplete:
		return "incomplete"
	case ResultOutOfOrder:
		return "out of order"
	default:
		return "unknown result"
	}
}

// A CryptoSetup handles the TLS 1.3 handshake of one QUIC connection and owns
// the packet protection keys of every encryption level.
// It is not safe for concurrent use.
type CryptoSetup interface {
	// HandleCryptoFrame validates the handshake records carried in a CRYPTO frame.
	HandleCryptoFrame(level protocol.EncryptionLevel, frame *wire.CryptoFrame) (Result, error)
	// ComposeRecord produces a CRYPTO frame carrying the named TLS record at
	// the appropriate encryption level's current send offset.
	ComposeRecord(msgType uint8) (*wire.CryptoFrame, error)
	// AdvanceKeys performs the key transition implied by the current handshake position.
	AdvanceKeys() error

	GetSealer(level protocol.EncryptionLevel) (AEADWithPacketNumberCrypto, error)
	GetOpener(level protocol.EncryptionLevel) (AEADWithPacketNumberCrypto, error)

	EncryptionLevel() protocol.EncryptionLevel
	HandshakeComplete() bool
	PeerParams() *TransportParameters
}
