package quic

import (
	"bytes"

	"github.com/ayongbc/gen-quic/internal/handshake"
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/wire"
)

// sealingManager provides the sealers of the installed encryption levels
type sealingManager interface {
	GetSealer(protocol.EncryptionLevel) (handshake.AEADWithPacketNumberCrypto, error)
}

// The packetPacker seals packets. A sealed packet is
// header || protected packet number || ciphertext || tag.
type packetPacker struct {
	aead    sealingManager
	version protocol.VersionNumber
}

func newPacketPacker(aead sealingManager, version protocol.VersionNumber) *packetPacker {
	return &packetPacker{
		aead:    aead,
		version: version,
	}
}

// pack seals payload into the packet described by hdr.
func (p *packetPacker) pack(
	hdr *wire.Header,
	payload []byte,
	pn protocol.PacketNumber,
	pnLen protocol.PacketNumberLen,
	level protocol.EncryptionLevel,
) ([]byte, error) {
	sealer, err := p.aead.GetSealer(level)
	if err != nil {
		return nil, err
	}
	if hdr.IsLongHeader {
		hdr.Length = protocol.ByteCount(int(pnLen) + len(payload) + sealer.Overhead())
	}
	buf := &bytes.Buffer{}
	if err := hdr.Write(buf, pn, pnLen); err != nil {
		return nil, err
	}
	raw := buf.Bytes()
	pnOffset := len(raw) - int(pnLen)
	// the associated data is the entire header, including the unprotected
	// packet number
	raw = sealer.Seal(raw, payload, pn, raw)
	if err := sealer.EncryptPacketNumber(raw[pnOffset:], pnLen); err != nil {
		return nil, err
	}
	return raw, nil
}
