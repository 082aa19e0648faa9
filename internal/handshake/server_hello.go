package handshake

import (
	"golang.org/x/crypto/cryptobyte"
)

type serverHelloMsg struct {
	legacyVersion     uint16
	random            []byte
	sessionID         []byte
	cipherSuite       uint16
	compressionMethod uint8
	supportedVersions []uint16
	serverShare       keyShare
	hasKeyShare       bool
}

var _ Message = &serverHelloMsg{}

func (m *serverHelloMsg) Type() uint8 { return typeServerHello }

func (m *serverHelloMsg) marshal() ([]byte, error) {
	return marshalRecord(typeServerHello, func(b *cryptobyte.Builder) {
		b.AddUint16(m.legacyVersion)
		b.AddBytes(m.random)
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(m.sessionID)
		})
		b.AddUint16(m.cipherSuite)
		b.AddUint8(m.compressionMethod)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16(extensionSupportedVersions)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				for _, v := range m.supportedVersions {
					b.AddUint16(v)
				}
			})
			b.AddUint16(extensionKeyShare)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint16(m.serverShare.group)
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes(m.serverShare.data)
				})
			})
		})
	})
}

func (m *serverHelloMsg) unmarshal(data []byte) bool {
	s := cryptobyte.String(data)
	if !s.ReadUint16(&m.legacyVersion) ||
		!s.ReadBytes(&m.random, 32) ||
		!readUint8LengthPrefixedBytes(&s, &m.sessionID) ||
		!s.ReadUint16(&m.cipherSuite) ||
		!s.ReadUint8(&m.compressionMethod) {
		return false
	}
	var extensions cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&extensions) || !s.Empty() {
		return false
	}
	for !extensions.Empty() {
		var extension uint16
		var extData cryptobyte.String
		if !extensions.ReadUint16(&extension) ||
			!extensions.ReadUint16LengthPrefixed(&extData) {
			return false
		}
		switch extension {
		case extensionSupportedVersions:
			// the ServerHello carries the selected versions, without a list length
			for !extData.Empty() {
				var v uint16
				if !extData.ReadUint16(&v) {
					return false
				}
				m.supportedVersions = append(m.supportedVersions, v)
			}
		case extensionKeyShare:
			if !extData.ReadUint16(&m.serverShare.group) ||
				!readUint16LengthPrefixedBytes(&extData, &m.serverShare.data) ||
				len(m.serverShare.data) == 0 {
				return false
			}
			m.hasKeyShare = true
		default:
			// skip unknown extensions
		}
		if !extData.Empty() && isKnownExtension(extension) {
			return false
		}
	}
	return true
}
