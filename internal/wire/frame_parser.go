package wire

import (
	"bytes"

	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/qerr"
)

// ParseNextFrame parses the next frame. It skips PADDING frames and returns
// nil when the reader is empty.
func ParseNextFrame(r *bytes.Reader, v protocol.VersionNumber) (Frame, error) {
	for r.Len() != 0 {
		typeByte, _ := r.ReadByte()
		if typeByte == 0x0 { // PADDING frame
			continue
		}
		r.UnreadByte()

		var frame Frame
		var err error
		switch typeByte {
		case 0x7:
			frame, err = ParsePingFrame(r, v)
		case 0x18:
			frame, err = ParseCryptoFrame(r, v)
		default:
			err = qerr.Errorf(qerr.ProtocolViolation, "unknown type byte 0x%x", typeByte)
		}
		if err != nil {
			return nil, err
		}
		return frame, nil
	}
	return nil, nil
}
