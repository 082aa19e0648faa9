package handshake

import (
	"golang.org/x/crypto/cryptobyte"
)

type clientHelloMsg struct {
	legacyVersion                uint16
	random                       []byte
	sessionID                    []byte
	cipherSuites                 []uint16
	compressionMethods           []uint8
	supportedVersions            []uint16
	supportedGroups              []uint16
	supportedSignatureAlgorithms []uint16
	certificateTypes             []uint8
	keyShares                    []keyShare

	initialVersion      uint32
	transportParameters []byte
	hasTransportParams  bool
}

var _ Message = &clientHelloMsg{}

func (m *clientHelloMsg) Type() uint8 { return typeClientHello }

func (m *clientHelloMsg) marshal() ([]byte, error) {
	return marshalRecord(typeClientHello, func(b *cryptobyte.Builder) {
		b.AddUint16(m.legacyVersion)
		b.AddBytes(m.random)
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(m.sessionID)
		})
		addUint16List(b, m.cipherSuites)
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(m.compressionMethods)
		})
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16(extensionSupportedVersions)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
					for _, v := range m.supportedVersions {
						b.AddUint16(v)
					}
				})
			})
			b.AddUint16(extensionSupportedGroups)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				addUint16List(b, m.supportedGroups)
			})
			b.AddUint16(extensionSignatureAlgorithms)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				addUint16List(b, m.supportedSignatureAlgorithms)
			})
			b.AddUint16(extensionServerCertType)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes(m.certificateTypes)
				})
			})
			b.AddUint16(extensionKeyShare)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
					for _, ks := range m.keyShares {
						b.AddUint16(ks.group)
						b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
							b.AddBytes(ks.data)
						})
					}
				})
			})
			b.AddUint16(extensionTransportParameters)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint32(m.initialVersion)
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes(m.transportParameters)
				})
			})
		})
	})
}

func (m *clientHelloMsg) unmarshal(data []byte) bool {
	s := cryptobyte.String(data)
	if !s.ReadUint16(&m.legacyVersion) ||
		!s.ReadBytes(&m.random, 32) ||
		!readUint8LengthPrefixedBytes(&s, &m.sessionID) {
		return false
	}
	var ok bool
	if m.cipherSuites, ok = readUint16List(&s); !ok {
		return false
	}
	if !readUint8LengthPrefixedBytes(&s, &m.compressionMethods) {
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
			var versions cryptobyte.String
			if !extData.ReadUint8LengthPrefixed(&versions) || versions.Empty() {
				return false
			}
			for !versions.Empty() {
				var v uint16
				if !versions.ReadUint16(&v) {
					return false
				}
				m.supportedVersions = append(m.supportedVersions, v)
			}
		case extensionSupportedGroups:
			if m.supportedGroups, ok = readUint16List(&extData); !ok {
				return false
			}
		case extensionSignatureAlgorithms:
			if m.supportedSignatureAlgorithms, ok = readUint16List(&extData); !ok {
				return false
			}
		case extensionServerCertType:
			if !readUint8LengthPrefixedBytes(&extData, &m.certificateTypes) {
				return false
			}
		case extensionKeyShare:
			var shares cryptobyte.String
			if !extData.ReadUint16LengthPrefixed(&shares) {
				return false
			}
			for !shares.Empty() {
				var ks keyShare
				if !shares.ReadUint16(&ks.group) ||
					!readUint16LengthPrefixedBytes(&shares, &ks.data) ||
					len(ks.data) == 0 {
					return false
				}
				m.keyShares = append(m.keyShares, ks)
			}
		case extensionTransportParameters:
			if !extData.ReadUint32(&m.initialVersion) ||
				!readUint16LengthPrefixedBytes(&extData, &m.transportParameters) {
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

func isKnownExtension(extension uint16) bool {
	switch extension {
	case extensionSupportedVersions, extensionSupportedGroups, extensionSignatureAlgorithms,
		extensionServerCertType, extensionKeyShare, extensionTransportParameters:
		return true
	}
	return false
}

func readUint8LengthPrefixedBytes(s *cryptobyte.String, out *[]byte) bool {
	var prefixed cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&prefixed) {
		return false
	}
	*out = []byte(prefixed)
	return true
}

func readUint16LengthPrefixedBytes(s *cryptobyte.String, out *[]byte) bool {
	var prefixed cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&prefixed) {
		return false
	}
	*out = []byte(prefixed)
	return true
}
