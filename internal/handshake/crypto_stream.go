package handshake

import (
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/wire"
)

// A cryptoStream tracks the send and receive byte offsets of one encryption
// level's CRYPTO stream.
type cryptoStream struct {
	sendOffset protocol.ByteCount
	recvOffset protocol.ByteCount
}

type streamPosition int

const (
	// positionExpected: the record starts exactly at the next expected byte
	positionExpected streamPosition = iota
	// positionRepeat: the record was received before
	positionRepeat
	// positionGap: the record starts beyond the next expected byte
	positionGap
)

// classify places an incoming record relative to the receive offset.
func (s *cryptoStream) classify(offset protocol.ByteCount) streamPosition {
	switch {
	case offset < s.recvOffset:
		return positionRepeat
	case offset > s.recvOffset:
		return positionGap
	default:
		return positionExpected
	}
}

// advanceRecv moves the receive offset past an accepted record.
func (s *cryptoStream) advanceRecv(n protocol.ByteCount) {
	s.recvOffset += n
}

// frame wraps data into a CRYPTO frame at the current send offset and advances it.
func (s *cryptoStream) frame(data []byte) *wire.CryptoFrame {
	f := &wire.CryptoFrame{
		Offset: s.sendOffset,
		Data:   data,
	}
	s.sendOffset += protocol.ByteCount(len(data))
	return f
}
