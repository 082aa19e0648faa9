package qerr

import "fmt"

// ErrorCode can be used as a normal error without reason.
type ErrorCode uint16

// The error codes defined by QUIC
const (
	NoError                         ErrorCode = 0x0
	InternalError                   ErrorCode = 0x1
	FlowControlError                ErrorCode = 0x3
	ProtocolViolation               ErrorCode = 0xa
	TransportParameterError         ErrorCode = 0x8
	VersionNegotiationError         ErrorCode = 0x9
	InvalidPacketHeader             ErrorCode = 0xb
	DecryptionFailure               ErrorCode = 0xc
	MissingPayload                  ErrorCode = 0xd
	InvalidVersionNegotiationPacket ErrorCode = 0xe
	TLSHandshakeFailed              ErrorCode = 0x201
)

func (e ErrorCode) Error() string {
	return e.String()
}

func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "NoError"
	case InternalError:
		return "InternalError"
	case FlowControlError:
		return "FlowControlError"
	case ProtocolViolation:
		return "ProtocolViolation"
	case TransportParameterError:
		return "TransportParameterError"
	case VersionNegotiationError:
		return "VersionNegotiationError"
	case InvalidPacketHeader:
		return "InvalidPacketHeader"
	case DecryptionFailure:
		return "DecryptionFailure"
	case MissingPayload:
		return "MissingPayload"
	case InvalidVersionNegotiationPacket:
		return "InvalidVersionNegotiationPacket"
	case TLSHandshakeFailed:
		return "TLSHandshakeFailed"
	default:
		return fmt.Sprintf("ErrorCode(%d)", uint16(e))
	}
}
