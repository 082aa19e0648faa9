package handshake

import (
	"golang.org/x/crypto/cryptobyte"
)

type certificateMsg struct {
	certificates [][]byte
}

var _ Message = &certificateMsg{}

func (m *certificateMsg) Type() uint8 { return typeCertificate }

func (m *certificateMsg) marshal() ([]byte, error) {
	return marshalRecord(typeCertificate, func(b *cryptobyte.Builder) {
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {}) // empty certificate_request_context
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
			for _, cert := range m.certificates {
				b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes(cert)
				})
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {}) // no certificate extensions
			}
		})
	})
}

func (m *certificateMsg) unmarshal(data []byte) bool {
	s := cryptobyte.String(data)
	var context, certList cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&context) ||
		!context.Empty() ||
		!s.ReadUint24LengthPrefixed(&certList) ||
		!s.Empty() {
		return false
	}
	for !certList.Empty() {
		var cert, extensions cryptobyte.String
		if !certList.ReadUint24LengthPrefixed(&cert) ||
			cert.Empty() ||
			!certList.ReadUint16LengthPrefixed(&extensions) {
			return false
		}
		m.certificates = append(m.certificates, []byte(cert))
	}
	return len(m.certificates) > 0
}
