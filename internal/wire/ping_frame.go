package wire

import (
	"bytes"

	"github.com/ayongbc/gen-quic/internal/protocol"
)

// A PingFrame is a PING frame
type PingFrame struct{}

// ParsePingFrame parses a PING frame
func ParsePingFrame(r *bytes.Reader, _ protocol.VersionNumber) (*PingFrame, error) {
	if _, err := r.ReadByte(); err != nil {
		return nil, err
	}
	return &PingFrame{}, nil
}

func (f *PingFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(0x07)
	return nil
}

// Length of a written frame
func (f *PingFrame) Length(_ protocol.VersionNumber) protocol.ByteCount {
	return 1
}
