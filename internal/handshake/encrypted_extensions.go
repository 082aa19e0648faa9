package handshake

import (
	"golang.org/x/crypto/cryptobyte"
)

type encryptedExtensionsMsg struct {
	supportedGroups              []uint16
	supportedSignatureAlgorithms []uint16

	negotiatedVersion   uint32
	otherVersions       []uint32
	transportParameters []byte
	hasTransportParams  bool
}

var _ Message = &encryptedExtensionsMsg{}

func (m *encryptedExtensionsMsg) Type() uint8 { return typeEncryptedExtensions }

func (m *encryptedExtensionsMsg) marshal() ([]byte, error) {
	return marshalRecord(typeEncryptedExtensions, func(b *cryptobyte.Builder) {
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16(extensionSupportedGroups)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				addUint16List(b, m.supportedGroups)
			})
			b.AddUint16(extensionSignatureAlgorithms)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				addUint16List(b, m.supportedSignatureAlgorithms)
			})
			b.AddUint16(extensionTransportParameters)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint32(m.negotiatedVersion)
				b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
					for _, v := range m.otherVersions {
						b.AddUint32(v)
					}
				})
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes(m.transportParameters)
				})
			})
		})
	})
}

func (m *encryptedExtensionsMsg) unmarshal(data []byte) bool {
	s := cryptobyte.String(data)
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
		var ok bool
		switch extension {
		case extensionSupportedGroups:
			if m.supportedGroups, ok = readUint16List(&extData); !ok {
				return false
			}
		case extensionSignatureAlgorithms:
			if m.supportedSignatureAlgorithms, ok = readUint16List(&extData); !ok {
				return false
			}
		case extensionTransportParameters:
			var versions cryptobyte.String
			if !extData.ReadUint32(&m.negotiatedVersion) ||
				!extData.ReadUint8LengthPrefixed(&versions) {
				return false
			}
			for !versions.Empty() {
				var v uint32
				if !versions.ReadUint32(&v) {
					return false
				}
				m.otherVersions = append(m.otherVersions, v)
			}
			if !readUint16LengthPrefixedBytes(&extData, &m.transportParameters) {
				return false
			}
			m.hasTransportParams = true
		default:
			// skip unknown extensions
		}
		if !extData.Empty() && isKnownExtension(extension) {
			return false
		}
	}
	return true
}
