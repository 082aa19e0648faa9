package handshake

import (
	"bytes"
	"fmt"
	"net"
	"time"

	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/utils"
	"github.com/ayongbc/gen-quic/qerr"
)

type transportParameterID uint16

const (
	initialMaxStreamDataParameterID  transportParameterID = 0x0
	initialMaxDataParameterID        transportParameterID = 0x1
	initialMaxBidiStreamsParameterID transportParameterID = 0x2
	idleTimeoutParameterID           transportParameterID = 0x3
	preferredAddressParameterID      transportParameterID = 0x4
	maxPacketSizeParameterID         transportParameterID = 0x5
	statelessResetTokenParameterID   transportParameterID = 0x6
	ackDelayExponentParameterID      transportParameterID = 0x7
	initialMaxUniStreamsParameterID  transportParameterID = 0x8
	disableMigrationParameterID      transportParameterID = 0x9
)

// A PreferredAddress is the preferred_address transport parameter
type PreferredAddress struct {
	IPVersion           uint8
	IP                  net.IP
	Port                uint16
	ConnectionID        protocol.ConnectionID
	StatelessResetToken [16]byte
}

// TransportParameters are parameters sent to the peer in the QUIC transport
// parameters TLS extension.
type TransportParameters struct {
	InitialMaxStreamData protocol.ByteCount
	InitialMaxData       protocol.ByteCount

	MaxBidiStreams uint64
	MaxUniStreams  uint64

	IdleTimeout time.Duration

	MaxPacketSize protocol.ByteCount

	StatelessResetToken []byte
	AckDelayExponent    uint8
	DisableMigration    bool

	PreferredAddress *PreferredAddress
}

// populateTransportParameters applies the default values for parameters the
// caller didn't set.
func populateTransportParameters(params *TransportParameters) *TransportParameters {
	p := &TransportParameters{}
	if params != nil {
		*p = *params
	}
	if p.InitialMaxStreamData == 0 {
		p.InitialMaxStreamData = 5000
	}
	if p.InitialMaxData == 0 {
		p.InitialMaxData = 5000
	}
	if p.MaxBidiStreams == 0 {
		p.MaxBidiStreams = 1
	}
	if p.MaxUniStreams == 0 {
		p.MaxUniStreams = 1
	}
	if p.MaxPacketSize == 0 {
		p.MaxPacketSize = protocol.DefaultMaxPacketSize
	}
	if p.AckDelayExponent == 0 {
		p.AckDelayExponent = protocol.DefaultAckDelayExponent
	}
	return p
}

func (p *TransportParameters) marshal(b *bytes.Buffer) {
	writeVarIntParameter(b, initialMaxStreamDataParameterID, uint64(p.InitialMaxStreamData))
	writeVarIntParameter(b, initialMaxDataParameterID, uint64(p.InitialMaxData))
	writeVarIntParameter(b, initialMaxBidiStreamsParameterID, p.MaxBidiStreams)
	writeVarIntParameter(b, initialMaxUniStreamsParameterID, p.MaxUniStreams)
	writeVarIntParameter(b, idleTimeoutParameterID, uint64(p.IdleTimeout/time.Second))
	if p.MaxPacketSize != 0 {
		writeVarIntParameter(b, maxPacketSizeParameterID, uint64(p.MaxPacketSize))
	}
	if p.AckDelayExponent != protocol.DefaultAckDelayExponent {
		utils.BigEndian.WriteUint16(b, uint16(ackDelayExponentParameterID))
		utils.BigEndian.WriteUint16(b, 1)
		b.WriteByte(p.AckDelayExponent)
	}
	if p.DisableMigration {
		utils.BigEndian.WriteUint16(b, uint16(disableMigrationParameterID))
		utils.BigEndian.WriteUint16(b, 0)
	}
	if len(p.StatelessResetToken) > 0 {
		utils.BigEndian.WriteUint16(b, uint16(statelessResetTokenParameterID))
		utils.BigEndian.WriteUint16(b, uint16(len(p.StatelessResetToken))) // should be 16 bytes
		b.Write(p.StatelessResetToken)
	}
	if p.PreferredAddress != nil {
		utils.BigEndian.WriteUint16(b, uint16(preferredAddressParameterID))
		pa := &bytes.Buffer{}
		pa.WriteByte(p.PreferredAddress.IPVersion)
		pa.WriteByte(uint8(len(p.PreferredAddress.IP)))
		pa.Write(p.PreferredAddress.IP)
		utils.BigEndian.WriteUint16(pa, p.PreferredAddress.Port)
		pa.WriteByte(uint8(p.PreferredAddress.ConnectionID.Len()))
		pa.Write(p.PreferredAddress.ConnectionID.Bytes())
		pa.Write(p.PreferredAddress.StatelessResetToken[:])
		utils.BigEndian.WriteUint16(b, uint16(pa.Len()))
		b.Write(pa.Bytes())
	}
}

func writeVarIntParameter(b *bytes.Buffer, id transportParameterID, val uint64) {
	utils.BigEndian.WriteUint16(b, uint16(id))
	utils.BigEndian.WriteUint16(b, uint16(utils.VarIntLen(val)))
	utils.WriteVarInt(b, val)
}

// unmarshal parses the transport parameters sent by the peer.
// sentBy is the perspective of the peer that sent the parameters.
func (p *TransportParameters) unmarshal(data []byte, sentBy protocol.Perspective) error {
	// needed to check that every parameter is only sent at most once
	var parameterIDs []transportParameterID

	r := bytes.NewReader(data)
	for r.Len() > 0 {
		if r.Len() < 4 {
			return qerr.Error(qerr.TransportParameterError, "transport parameter header truncated")
		}
		paramIDInt, _ := utils.BigEndian.ReadUint16(r)
		paramID := transportParameterID(paramIDInt)
		paramLen, _ := utils.BigEndian.ReadUint16(r)
		if int(paramLen) > r.Len() {
			return qerr.Errorf(qerr.TransportParameterError, "transport parameter %d exceeds its length prefix", paramID)
		}
		for _, id := range parameterIDs {
			if id == paramID {
				return qerr.Errorf(qerr.TransportParameterError, "received transport parameter %d twice", paramID)
			}
		}
		parameterIDs = append(parameterIDs, paramID)

		value := make([]byte, paramLen)
		r.Read(value)
		if err := p.readParameter(paramID, value, sentBy); err != nil {
			return err
		}
	}

	if p.MaxPacketSize == 0 {
		p.MaxPacketSize = protocol.DefaultMaxPacketSize
	}
	if p.AckDelayExponent == 0 {
		p.AckDelayExponent = protocol.DefaultAckDelayExponent
	}
	return nil
}

func (p *TransportParameters) readParameter(paramID transportParameterID, value []byte, sentBy protocol.Perspective) error {
	switch paramID {
	case initialMaxStreamDataParameterID:
		val, err := readVarIntValue(paramID, value)
		if err != nil {
			return err
		}
		p.InitialMaxStreamData = protocol.ByteCount(val)
	case initialMaxDataParameterID:
		val, err := readVarIntValue(paramID, value)
		if err != nil {
			return err
		}
		p.InitialMaxData = protocol.ByteCount(val)
	case initialMaxBidiStreamsParameterID:
		val, err := readVarIntValue(paramID, value)
		if err != nil {
			return err
		}
		p.MaxBidiStreams = val
	case initialMaxUniStreamsParameterID:
		val, err := readVarIntValue(paramID, value)
		if err != nil {
			return err
		}
		p.MaxUniStreams = val
	case idleTimeoutParameterID:
		val, err := readVarIntValue(paramID, value)
		if err != nil {
			return err
		}
		p.IdleTimeout = time.Duration(val) * time.Second
	case maxPacketSizeParameterID:
		val, err := readVarIntValue(paramID, value)
		if err != nil {
			return err
		}
		if val < uint64(protocol.MinInitialPacketSize) {
			return qerr.Errorf(qerr.TransportParameterError, "invalid value for max_packet_size: %d (minimum %d)", val, protocol.MinInitialPacketSize)
		}
		p.MaxPacketSize = protocol.ByteCount(val)
	case ackDelayExponentParameterID:
		if len(value) != 1 {
			return qerr.Errorf(qerr.TransportParameterError, "wrong length for ack_delay_exponent: %d (expected 1)", len(value))
		}
		p.AckDelayExponent = value[0]
	case disableMigrationParameterID:
		if len(value) != 0 {
			return qerr.Errorf(qerr.TransportParameterError, "wrong length for disable_migration: %d (expected empty)", len(value))
		}
		p.DisableMigration = true
	case statelessResetTokenParameterID:
		if sentBy == protocol.PerspectiveClient {
			return qerr.Error(qerr.TransportParameterError, "client sent a stateless_reset_token")
		}
		if len(value) != 16 {
			return qerr.Errorf(qerr.TransportParameterError, "wrong length for stateless_reset_token: %d (expected 16)", len(value))
		}
		p.StatelessResetToken = value
	case preferredAddressParameterID:
		if sentBy == protocol.PerspectiveClient {
			return qerr.Error(qerr.TransportParameterError, "client sent a preferred_address")
		}
		if err := p.readPreferredAddress(value); err != nil {
			return err
		}
	default:
		// skip unknown parameters
	}
	return nil
}

func (p *TransportParameters) readPreferredAddress(value []byte) error {
	r := bytes.NewReader(value)
	pa := &PreferredAddress{}
	ipVersion, err := r.ReadByte()
	if err != nil {
		return qerr.Error(qerr.TransportParameterError, "malformed preferred_address")
	}
	pa.IPVersion = ipVersion
	ipLen, err := r.ReadByte()
	if err != nil {
		return qerr.Error(qerr.TransportParameterError, "malformed preferred_address")
	}
	pa.IP = make(net.IP, ipLen)
	if _, err := r.Read(pa.IP); err != nil || len(pa.IP) == 0 {
		return qerr.Error(qerr.TransportParameterError, "malformed preferred_address")
	}
	port, err := utils.BigEndian.ReadUint16(r)
	if err != nil {
		return qerr.Error(qerr.TransportParameterError, "malformed preferred_address")
	}
	pa.Port = port
	connIDLen, err := r.ReadByte()
	if err != nil {
		return qerr.Error(qerr.TransportParameterError, "malformed preferred_address")
	}
	connID, err := protocol.ReadConnectionID(r, int(connIDLen))
	if err != nil {
		return qerr.Error(qerr.TransportParameterError, "malformed preferred_address")
	}
	pa.ConnectionID = connID
	if r.Len() != 16 {
		return qerr.Error(qerr.TransportParameterError, "malformed preferred_address")
	}
	r.Read(pa.StatelessResetToken[:])
	p.PreferredAddress = pa
	return nil
}

func readVarIntValue(paramID transportParameterID, value []byte) (uint64, error) {
	r := bytes.NewReader(value)
	val, err := utils.ReadVarInt(r)
	if err != nil || r.Len() != 0 {
		return 0, qerr.Errorf(qerr.TransportParameterError, "malformed varint value for transport parameter %d", paramID)
	}
	return val, nil
}

// String returns a human readable representation, used for logging.
func (p *TransportParameters) String() string {
	return fmt.Sprintf("&handshake.TransportParameters{InitialMaxStreamData: %#x, InitialMaxData: %#x, MaxBidiStreams: %d, MaxUniStreams: %d, IdleTimeout: %s, MaxPacketSize: %d}", p.InitialMaxStreamData, p.InitialMaxData, p.MaxBidiStreams, p.MaxUniStreams, p.IdleTimeout, p.MaxPacketSize)
}
