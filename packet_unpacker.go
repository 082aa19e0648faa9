package quic

import (
	"bytes"

	"github.com/ayongbc/gen-quic/internal/handshake"
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/utils"
	"github.com/ayongbc/gen-quic/internal/wire"
	"github.com/ayongbc/gen-quic/qerr"
)

type unpackedPacket struct {
	packetNumber    protocol.PacketNumber
	encryptionLevel protocol.EncryptionLevel
	frames          []wire.Frame
}

// quicAEAD provides the openers of the installed encryption levels
type quicAEAD interface {
	GetOpener(protocol.EncryptionLevel) (handshake.AEADWithPacketNumberCrypto, error)
}

type unpacker interface {
	Unpack(hdr *wire.Header, data []byte) (*unpackedPacket, error)
}

// The packetUnpacker unpacks QUIC packets.
type packetUnpacker struct {
	largestRcvdPacketNumber protocol.PacketNumber

	aead    quicAEAD
	version protocol.VersionNumber
}

var _ unpacker = &packetUnpacker{}

func newPacketUnpacker(aead quicAEAD, version protocol.VersionNumber) unpacker {
	return &packetUnpacker{
		aead:    aead,
		version: version,
	}
}

// Unpack unpacks a packet. data is the entire datagram payload. The header
// has been parsed up to the protected packet number field; hdr.Raw holds the
// header bytes preceding it.
func (u *packetUnpacker) Unpack(hdr *wire.Header, data []byte) (*unpackedPacket, error) {
	level := protocol.Encryption1RTT
	if hdr.IsLongHeader {
		level = hdr.Type.EncryptionLevel()
	}
	opener, err := u.aead.GetOpener(level)
	if err != nil {
		return nil, err
	}

	pnOffset := len(hdr.Raw)
	wirePN, pnLen, err := opener.DecryptPacketNumber(data[pnOffset:])
	if err != nil {
		return nil, qerr.Error(qerr.DecryptionFailure, err.Error())
	}
	hdr.PacketNumber = protocol.InferPacketNumber(pnLen, u.largestRcvdPacketNumber, wirePN)
	hdr.PacketNumberLen = pnLen

	// reconstruct the associated data: the entire header with the
	// unprotected packet number
	ad := bytes.NewBuffer(make([]byte, 0, pnOffset+int(pnLen)))
	ad.Write(hdr.Raw)
	if err := utils.WriteVarIntPacketNumber(ad, wirePN, pnLen); err != nil {
		return nil, err
	}

	buf := *getPacketBuffer()
	buf = buf[:0]
	defer putPacketBuffer(&buf)

	payload := data[pnOffset+int(pnLen):]
	decrypted, err := opener.Open(buf, payload, hdr.PacketNumber, ad.Bytes())
	if err != nil {
		// drop the packet silently, the session sends no reply
		return nil, qerr.Error(qerr.DecryptionFailure, err.Error())
	}

	u.largestRcvdPacketNumber = utils.MaxPacketNumber(u.largestRcvdPacketNumber, hdr.PacketNumber)
	fs, err := u.parseFrames(decrypted)
	if err != nil {
		return nil, err
	}

	return &unpackedPacket{
		packetNumber:    hdr.PacketNumber,
		encryptionLevel: level,
		frames:          fs,
	}, nil
}

func (u *packetUnpacker) parseFrames(decrypted []byte) ([]wire.Frame, error) {
	r := bytes.NewReader(decrypted)
	if r.Len() == 0 {
		return nil, qerr.MissingPayload
	}

	fs := make([]wire.Frame, 0, 2)
	// Read all frames in the packet
	for {
		frame, err := wire.ParseNextFrame(r, u.version)
		if err != nil {
			return nil, err
		}
		if frame == nil {
			break
		}
		fs = append(fs, frame)
	}
	return fs, nil
}
