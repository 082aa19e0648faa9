package handshake

import (
	"golang.org/x/crypto/cryptobyte"
)

type certificateVerifyMsg struct {
	algorithm uint16
	signature []byte
}

var _ Message = &certificateVerifyMsg{}

func (m *certificateVerifyMsg) Type() uint8 { return typeCertificateVerify }

func (m *certificateVerifyMsg) marshal() ([]byte, error) {
	return marshalRecord(typeCertificateVerify, func(b *cryptobyte.Builder) {
		b.AddUint16(m.algorithm)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(m.signature)
		})
	})
}

func (m *certificateVerifyMsg) unmarshal(data []byte) bool {
	s := cryptobyte.String(data)
	return s.ReadUint16(&m.algorithm) &&
		readUint16LengthPrefixedBytes(&s, &m.signature) &&
		len(m.signature) > 0 &&
		s.Empty()
}
