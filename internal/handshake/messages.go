package handshake

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"

	"github.com/ayongbc/gen-quic/qerr"
)

// TLS handshake message types
const (
	typeClientHello         uint8 = 1
	typeServerHello         uint8 = 2
	typeEncryptedExtensions uint8 = 8
	typeCertificate         uint8 = 11
	typeCertificateVerify   uint8 = 15
	typeFinished            uint8 = 20
)

// TLS extension numbers
const (
	extensionSupportedGroups     uint16 = 10
	extensionSignatureAlgorithms uint16 = 13
	extensionServerCertType      uint16 = 20
	extensionSupportedVersions   uint16 = 43
	extensionKeyShare            uint16 = 51
	extensionTransportParameters uint16 = 0xffa5
)

// TLS 1.3 constants, the only values this endpoint negotiates
const (
	versionTLS12 uint16 = 0x0303 // legacy_version on the wire
	versionTLS13 uint16 = 0x0304

	cipherTLSAES128GCMSHA256 uint16 = 0x1301
	sigalgECDSAP256SHA256    uint16 = 0x0403
	groupSecp256r1           uint16 = 0x0017

	certTypeX509 uint8 = 0
)

// A keyShare is a TLS 1.3 KeyShareEntry
type keyShare struct {
	group uint16
	data  []byte
}

// A Message is one TLS handshake record carried on the CRYPTO stream.
// marshal produces the full record including the 4 byte header; unmarshal
// consumes the record body.
type Message interface {
	Type() uint8
	marshal() ([]byte, error)
	unmarshal(data []byte) bool
}

// readRecord reads one TLS handshake record from data. It returns the parsed
// message, the raw record bytes (including the header, as appended to the
// transcript) and the remainder of data.
func readRecord(data []byte) (Message, []byte, []byte, error) {
	if len(data) < 4 {
		return nil, nil, nil, qerr.Error(qerr.ProtocolViolation, "handshake record too short")
	}
	msgType := data[0]
	length := int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	if len(data) < 4+length {
		return nil, nil, nil, qerr.Error(qerr.ProtocolViolation, "handshake record exceeds its length prefix")
	}
	raw := data[:4+length]
	body := data[4 : 4+length]
	rest := data[4+length:]

	var m Message
	switch msgType {
	case typeClientHello:
		m = &clientHelloMsg{}
	case typeServerHello:
		m = &serverHelloMsg{}
	case typeEncryptedExtensions:
		m = &encryptedExtensionsMsg{}
	case typeCertificate:
		m = &certificateMsg{}
	case typeCertificateVerify:
		m = &certificateVerifyMsg{}
	case typeFinished:
		m = &finishedMsg{}
	default:
		return nil, nil, nil, qerr.Errorf(qerr.ProtocolViolation, "unknown handshake record type %d", msgType)
	}
	if !m.unmarshal(body) {
		return nil, nil, nil, qerr.Errorf(qerr.ProtocolViolation, "malformed %s record", messageName(msgType))
	}
	return m, raw, rest, nil
}

func messageName(msgType uint8) string {
	switch msgType {
	case typeClientHello:
		return "ClientHello"
	case typeServerHello:
		return "ServerHello"
	case typeEncryptedExtensions:
		return "EncryptedExtensions"
	case typeCertificate:
		return "Certificate"
	case typeCertificateVerify:
		return "CertificateVerify"
	case typeFinished:
		return "Finished"
	default:
		return fmt.Sprintf("message %d", msgType)
	}
}

// marshalRecord wraps a message body in the record header.
func marshalRecord(msgType uint8, body func(b *cryptobyte.Builder)) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint8(msgType)
	b.AddUint24LengthPrefixed(body)
	return b.Bytes()
}

func addUint16List(b *cryptobyte.Builder, values []uint16) {
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, v := range values {
			b.AddUint16(v)
		}
	})
}

func readUint16List(s *cryptobyte.String) ([]uint16, bool) {
	var list cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&list) {
		return nil, false
	}
	var values []uint16
	for !list.Empty() {
		var v uint16
		if !list.ReadUint16(&v) {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}
