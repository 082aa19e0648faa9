package wire

import (
	"bytes"
	"fmt"

	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/utils"
)

// The Header of a QUIC packet. The packet number field is protected on the
// wire; parsing stops right before it, and the packer / unpacker apply the
// packet number protection.
type Header struct {
	Raw []byte

	IsLongHeader     bool
	Type             protocol.PacketType
	Version          protocol.VersionNumber
	DestConnectionID protocol.ConnectionID
	SrcConnectionID  protocol.ConnectionID
	Length           protocol.ByteCount
	KeyPhase         int

	PacketNumber    protocol.PacketNumber
	PacketNumberLen protocol.PacketNumberLen

	IsVersionNegotiation bool
	SupportedVersions    []protocol.VersionNumber
}

// Write writes the header, including the unprotected encoded packet number.
func (h *Header) Write(b *bytes.Buffer, pn protocol.PacketNumber, pnLen protocol.PacketNumberLen) error {
	if h.IsLongHeader {
		return h.writeLongHeader(b, pn, pnLen)
	}
	return h.writeShortHeader(b, pn, pnLen)
}

func (h *Header) writeLongHeader(b *bytes.Buffer, pn protocol.PacketNumber, pnLen protocol.PacketNumberLen) error {
	if h.SrcConnectionID.Len() != protocol.ConnectionIDLen {
		return fmt.Errorf("Header: source connection ID must be %d bytes, is %d", protocol.ConnectionIDLen, h.SrcConnectionID.Len())
	}
	b.WriteByte(byte(0x80 | h.Type))
	utils.BigEndian.WriteUint32(b, uint32(h.Version))
	connIDLen, err := encodeConnIDLen(h.DestConnectionID, h.SrcConnectionID)
	if err != nil {
		return err
	}
	b.WriteByte(connIDLen)
	b.Write(h.DestConnectionID.Bytes())
	b.Write(h.SrcConnectionID.Bytes())
	utils.WriteVarInt(b, uint64(h.Length))
	return utils.WriteVarIntPacketNumber(b, pn, pnLen)
}

func (h *Header) writeShortHeader(b *bytes.Buffer, pn protocol.PacketNumber, pnLen protocol.PacketNumberLen) error {
	typeByte := byte(0x30)
	typeByte |= byte(h.KeyPhase << 6)
	b.WriteByte(typeByte)
	b.Write(h.DestConnectionID.Bytes())
	return utils.WriteVarIntPacketNumber(b, pn, pnLen)
}

// GetLength determines the length of the header without the packet number
func (h *Header) GetLength() protocol.ByteCount {
	if h.IsLongHeader {
		return 1 /* type byte */ + 4 /* version */ + 1 /* conn ID len byte */ + protocol.ByteCount(h.DestConnectionID.Len()+h.SrcConnectionID.Len()) + utils.VarIntLen(uint64(h.Length))
	}
	return protocol.ByteCount(1 /* type byte */ + h.DestConnectionID.Len())
}

// Log logs the header
func (h *Header) Log(logger utils.Logger) {
	if h.IsLongHeader {
		if h.Version == 0 {
			logger.Debugf("\tVersionNegotiationPacket{DestConnectionID: %s, SrcConnectionID: %s, SupportedVersions: %s}", h.DestConnectionID, h.SrcConnectionID, h.SupportedVersions)
		} else {
			logger.Debugf("\tLong Header{Type: %s, DestConnectionID: %s, SrcConnectionID: %s, Length: %d, Version: %s}", h.Type, h.DestConnectionID, h.SrcConnectionID, h.Length, h.Version)
		}
	} else {
		logger.Debugf("\tShort Header{DestConnectionID: %s, KeyPhase: %d}", h.DestConnectionID, h.KeyPhase)
	}
}
