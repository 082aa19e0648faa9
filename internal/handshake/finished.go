package handshake

import (
	"golang.org/x/crypto/cryptobyte"
)

type finishedMsg struct {
	verifyData []byte
}

var _ Message = &finishedMsg{}

func (m *finishedMsg) Type() uint8 { return typeFinished }

func (m *finishedMsg) marshal() ([]byte, error) {
	return marshalRecord(typeFinished, func(b *cryptobyte.Builder) {
		b.AddBytes(m.verifyData)
	})
}

func (m *finishedMsg) unmarshal(data []byte) bool {
	if len(data) != 32 { // SHA-256 output
		return false
	}
	m.verifyData = data
	return true
}
