package handshake

import (
	"bytes"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"

	"github.com/ayongbc/gen-quic/internal/crypto"
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/utils"
	"github.com/ayongbc/gen-quic/internal/wire"
	"github.com/ayongbc/gen-quic/qerr"
)

// negotiation failures, surfaced to the connection layer as TLS alerts
var (
	errTLSVersion           = qerr.Error(qerr.TLSHandshakeFailed, "no supported TLS version")
	errNoCipherSuite        = qerr.Error(qerr.TLSHandshakeFailed, "no supported cipher suite")
	errNoSignatureAlgorithm = qerr.Error(qerr.TLSHandshakeFailed, "no supported signature algorithm")
	errNoGroup              = qerr.Error(qerr.TLSHandshakeFailed, "no supported group")
	errKeyShare             = qerr.Error(qerr.TLSHandshakeFailed, "invalid key share")
	errCertificate          = qerr.Error(qerr.TLSHandshakeFailed, "certificate chain verification failed")
	errCertificateVerify    = qerr.Error(qerr.TLSHandshakeFailed, "invalid CertificateVerify signature")
	errFinished             = qerr.Error(qerr.TLSHandshakeFailed, "invalid Finished MAC")
	errQuicVersion          = qerr.Error(qerr.VersionNegotiationError, "QUIC version mismatch")
)

type cryptoSetup struct {
	perspective protocol.Perspective
	version     protocol.VersionNumber

	keys    keySchedule
	streams [protocol.Encryption1RTT + 1]cryptoStream

	// concatenation of all handshake records sent or validated, in TLS order
	transcript bytes.Buffer
	// transcript snapshots frozen at the key transition boundaries
	handshakeTranscript []byte
	finishedTranscript  []byte

	pendingTransition protocol.EncryptionLevel

	// negotiated parameters, each set exactly once
	tlsVersion   uint16
	cipherSuite  uint16
	signatureAlg uint16
	group        uint16

	privKey    *ecdh.PrivateKey
	peerPubKey *ecdh.PublicKey

	certChain   [][]byte
	certPrivKey *ecdsa.PrivateKey
	peerCertKey *ecdsa.PublicKey

	ourParams  *TransportParameters
	peerParams *TransportParameters

	handshakeComplete bool

	logger utils.Logger
}

var _ CryptoSetup = &cryptoSetup{}

// NewCryptoSetupClient creates a new crypto setup for the client.
// destConnID is the destination connection ID the client chose for its first
// Initial packet; it salts the Initial keys on both sides.
func NewCryptoSetupClient(
	destConnID protocol.ConnectionID,
	version protocol.VersionNumber,
	params *TransportParameters,
	logger utils.Logger,
) (CryptoSetup, error) {
	return newCryptoSetup(protocol.PerspectiveClient, destConnID, version, params, nil, nil, logger)
}

// NewCryptoSetupServer creates a new crypto setup for the server.
// srcConnID is the connection ID the client addressed its first Initial packet to.
func NewCryptoSetupServer(
	srcConnID protocol.ConnectionID,
	version protocol.VersionNumber,
	certChain [][]byte,
	certKey *ecdsa.PrivateKey,
	params *TransportParameters,
	logger utils.Logger,
) (CryptoSetup, error) {
	if len(certChain) == 0 || certKey == nil {
		return nil, qerr.Error(qerr.InternalError, "server needs a certificate chain and a private key")
	}
	return newCryptoSetup(protocol.PerspectiveServer, srcConnID, version, params, certChain, certKey, logger)
}

func newCryptoSetup(
	pers protocol.Perspective,
	connID protocol.ConnectionID,
	version protocol.VersionNumber,
	params *TransportParameters,
	certChain [][]byte,
	certKey *ecdsa.PrivateKey,
	logger utils.Logger,
) (CryptoSetup, error) {
	privKey, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	h := &cryptoSetup{
		perspective: pers,
		version:     version,
		keys:        keySchedule{perspective: pers},
		privKey:     privKey,
		certChain:   certChain,
		certPrivKey: certKey,
		ourParams:   populateTransportParameters(params),
		logger:      logger,
	}
	if err := h.keys.setInitialKeys(connID); err != nil {
		return nil, err
	}
	h.logger.Debugf("Installed Initial keys (connection ID %s)", connID)
	return h, nil
}

func (h *cryptoSetup) EncryptionLevel() protocol.EncryptionLevel {
	return h.keys.level
}

func (h *cryptoSetup) HandshakeComplete() bool {
	return h.handshakeComplete
}

func (h *cryptoSetup) PeerParams() *TransportParameters {
	return h.peerParams
}

func (h *cryptoSetup) GetSealer(level protocol.EncryptionLevel) (AEADWithPacketNumberCrypto, error) {
	if level == protocol.Encryption0RTT && h.perspective != protocol.PerspectiveClient {
		return nil, qerr.Error(qerr.InternalError, "only the client seals 0-RTT packets")
	}
	keys, err := h.keys.keysFor(level)
	if err != nil {
		return nil, err
	}
	return keys.aead, nil
}

func (h *cryptoSetup) GetOpener(level protocol.EncryptionLevel) (AEADWithPacketNumberCrypto, error) {
	keys, err := h.keys.keysFor(level)
	if err != nil {
		return nil, err
	}
	return keys.aead, nil
}

// AdvanceKeys performs the key transition implied by the current handshake
// position. Each transition is one-shot; the new level's material is computed
// before any packet of that level can be sealed or opened.
func (h *cryptoSetup) AdvanceKeys() error {
	switch h.pendingTransition {
	case protocol.EncryptionHandshake:
		sharedSecret, err := h.privKey.ECDH(h.peerPubKey)
		if err != nil {
			return qerr.Error(qerr.TLSHandshakeFailed, err.Error())
		}
		if err := h.keys.setHandshakeKeys(sharedSecret, h.handshakeTranscript); err != nil {
			return err
		}
		h.logger.Debugf("Installed Handshake keys")
	case protocol.Encryption1RTT:
		if err := h.keys.setOneRTTKeys(h.finishedTranscript); err != nil {
			return err
		}
		h.logger.Debugf("Installed 1-RTT keys")
	default:
		return qerr.Error(qerr.InternalError, "no key transition pending")
	}
	h.pendingTransition = protocol.EncryptionUnspecified
	return nil
}

// sendLevel is the encryption level a record of the given type is sent at.
// The client's Finished travels in a 1-RTT protected packet.
func (h *cryptoSetup) sendLevel(msgType uint8) protocol.EncryptionLevel {
	switch {
	case msgType == typeClientHello || msgType == typeServerHello:
		return protocol.EncryptionInitial
	case msgType == typeFinished && h.perspective == protocol.PerspectiveClient:
		return protocol.Encryption1RTT
	default:
		return protocol.EncryptionHandshake
	}
}

// ComposeRecord produces a CRYPTO frame carrying the named TLS record at the
// current send offset of the level the record belongs to. The record is
// appended to the transcript.
func (h *cryptoSetup) ComposeRecord(msgType uint8) (*wire.CryptoFrame, error) {
	var msg Message
	var err error
	switch {
	case msgType == typeClientHello && h.perspective == protocol.PerspectiveClient:
		msg, err = h.composeClientHello()
	case msgType == typeServerHello && h.perspective == protocol.PerspectiveServer:
		msg, err = h.composeServerHello()
	case msgType == typeEncryptedExtensions && h.perspective == protocol.PerspectiveServer:
		msg, err = h.composeEncryptedExtensions()
	case msgType == typeCertificate && h.perspective == protocol.PerspectiveServer:
		msg = &certificateMsg{certificates: h.certChain}
	case msgType == typeCertificateVerify && h.perspective == protocol.PerspectiveServer:
		msg, err = h.composeCertificateVerify()
	case msgType == typeFinished:
		msg, err = h.composeFinished()
	default:
		return nil, qerr.Errorf(qerr.ProtocolViolation, "%s cannot send a %s", h.perspective, messageName(msgType))
	}
	if err != nil {
		return nil, err
	}
	raw, err := msg.marshal()
	if err != nil {
		return nil, qerr.Error(qerr.InternalError, err.Error())
	}
	h.transcript.Write(raw)

	switch msgType {
	case typeServerHello:
		// the server knows the shared secret as soon as it sent its ServerHello
		h.handshakeTranscript = append([]byte{}, h.transcript.Bytes()...)
		h.pendingTransition = protocol.EncryptionHandshake
	case typeFinished:
		if h.perspective == protocol.PerspectiveServer {
			h.finishedTranscript = append([]byte{}, h.transcript.Bytes()...)
			h.pendingTransition = protocol.Encryption1RTT
		} else {
			// nothing left to verify or send on the client side
			h.handshakeComplete = true
			h.keys.dropHandshakeSecrets()
			h.transcript.Reset()
			h.logger.Debugf("Handshake complete")
		}
	}

	level := h.sendLevel(msgType)
	frame := h.streams[level].frame(raw)
	h.logger.Debugf("-> Sending %s (%d bytes, %s, offset %d)", messageName(msgType), len(raw), level, frame.Offset)
	return frame, nil
}

func (h *cryptoSetup) composeClientHello() (Message, error) {
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return nil, err
	}
	params := &bytes.Buffer{}
	h.ourParams.marshal(params)
	return &clientHelloMsg{
		legacyVersion:                versionTLS12,
		random:                       random,
		cipherSuites:                 []uint16{cipherTLSAES128GCMSHA256},
		compressionMethods:           []uint8{0},
		supportedVersions:            []uint16{versionTLS13},
		supportedGroups:              []uint16{groupSecp256r1},
		supportedSignatureAlgorithms: []uint16{sigalgECDSAP256SHA256},
		certificateTypes:             []uint8{certTypeX509},
		keyShares:                    []keyShare{{group: groupSecp256r1, data: h.privKey.PublicKey().Bytes()}},
		initialVersion:               uint32(h.version),
		transportParameters:          params.Bytes(),
	}, nil
}

func (h *cryptoSetup) composeServerHello() (Message, error) {
	if h.peerPubKey == nil {
		return nil, qerr.Error(qerr.InternalError, "cannot send a ServerHello before validating the ClientHello")
	}
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return nil, err
	}
	return &serverHelloMsg{
		legacyVersion:     versionTLS12,
		random:            random,
		cipherSuite:       h.cipherSuite,
		supportedVersions: []uint16{h.tlsVersion},
		serverShare:       keyShare{group: h.group, data: h.privKey.PublicKey().Bytes()},
		hasKeyShare:       true,
	}, nil
}

func (h *cryptoSetup) composeEncryptedExtensions() (Message, error) {
	params := &bytes.Buffer{}
	h.ourParams.marshal(params)
	var otherVersions []uint32
	for _, v := range protocol.SupportedVersions {
		if v != h.version {
			otherVersions = append(otherVersions, uint32(v))
		}
	}
	return &encryptedExtensionsMsg{
		supportedGroups:              []uint16{h.group},
		supportedSignatureAlgorithms: []uint16{h.signatureAlg},
		negotiatedVersion:            uint32(h.version),
		otherVersions:                otherVersions,
		transportParameters:          params.Bytes(),
		hasTransportParams:           true,
	}, nil
}

func (h *cryptoSetup) composeCertificateVerify() (Message, error) {
	digest := sha256.Sum256(h.transcript.Bytes())
	sig, err := ecdsa.SignASN1(rand.Reader, h.certPrivKey, digest[:])
	if err != nil {
		return nil, qerr.Error(qerr.InternalError, err.Error())
	}
	return &certificateVerifyMsg{
		algorithm: h.signatureAlg,
		signature: sig,
	}, nil
}

func (h *cryptoSetup) composeFinished() (Message, error) {
	if h.keys.handshakeKeys == nil {
		return nil, qerr.Error(qerr.InternalError, "cannot send a Finished before the Handshake keys are installed")
	}
	var secret []byte
	if h.perspective == protocol.PerspectiveClient {
		secret = h.keys.clientHandshakeSecret()
	} else {
		secret = h.keys.serverHandshakeSecret()
	}
	return &finishedMsg{
		verifyData: h.finishedMAC(secret),
	}, nil
}

// finishedMAC computes the Finished verify_data over the current transcript.
func (h *cryptoSetup) finishedMAC(trafficSecret []byte) []byte {
	finKey := crypto.DeriveFinishedKey(trafficSecret)
	th := sha256.Sum256(h.transcript.Bytes())
	mac := hmac.New(sha256.New, finKey)
	mac.Write(th[:])
	return mac.Sum(nil)
}

// HandleCryptoFrame validates the handshake records carried in a CRYPTO frame
// received at the given encryption level.
func (h *cryptoSetup) HandleCryptoFrame(level protocol.EncryptionLevel, frame *wire.CryptoFrame) (Result, error) {
	if level < protocol.EncryptionInitial || level > protocol.Encryption1RTT {
		return 0, qerr.Errorf(qerr.ProtocolViolation, "received a CRYPTO frame at encryption level %s", level)
	}
	stream := &h.streams[level]
	switch stream.classify(frame.Offset) {
	case positionRepeat:
		// repeats never mutate state
		return ResultIncomplete, nil
	case positionGap:
		return ResultOutOfOrder, nil
	}

	result := ResultIncomplete
	rest := frame.Data
	for len(rest) > 0 {
		msg, raw, remainder, err := readRecord(rest)
		if err != nil {
			return 0, err
		}
		result, err = h.validateRecord(level, msg, raw)
		if err != nil {
			return 0, err
		}
		stream.advanceRecv(protocol.ByteCount(len(raw)))
		rest = remainder
	}
	return result, nil
}

// validateRecord runs the handshake state machine on one record. Any
// (role, level, type) triple without a legal transition is a protocol violation.
func (h *cryptoSetup) validateRecord(level protocol.EncryptionLevel, msg Message, raw []byte) (Result, error) {
	h.logger.Debugf("<- Handling %s (%d bytes, %s)", messageName(msg.Type()), len(raw), level)
	switch m := msg.(type) {
	case *clientHelloMsg:
		if h.perspective == protocol.PerspectiveServer && level == protocol.EncryptionInitial {
			return h.handleClientHello(m, raw)
		}
	case *serverHelloMsg:
		if h.perspective == protocol.PerspectiveClient && level == protocol.EncryptionInitial {
			return h.handleServerHello(m, raw)
		}
	case *encryptedExtensionsMsg:
		if h.perspective == protocol.PerspectiveClient && level == protocol.EncryptionHandshake {
			return h.handleEncryptedExtensions(m, raw)
		}
	case *certificateMsg:
		if h.perspective == protocol.PerspectiveClient && level == protocol.EncryptionHandshake {
			return h.handleCertificate(m, raw)
		}
	case *certificateVerifyMsg:
		if h.perspective == protocol.PerspectiveClient && level == protocol.EncryptionHandshake {
			return h.handleCertificateVerify(m, raw)
		}
	case *finishedMsg:
		if h.perspective == protocol.PerspectiveClient && level == protocol.EncryptionHandshake {
			return h.handleServerFinished(m, raw)
		}
		if h.perspective == protocol.PerspectiveServer && level == protocol.Encryption1RTT {
			return h.handleClientFinished(m, raw)
		}
	}
	return 0, qerr.Errorf(qerr.ProtocolViolation, "unexpected %s at encryption level %s", messageName(msg.Type()), level)
}

func (h *cryptoSetup) handleClientHello(m *clientHelloMsg, raw []byte) (Result, error) {
	if m.legacyVersion != versionTLS12 {
		return 0, errTLSVersion
	}
	if !containsUint16(m.supportedVersions, versionTLS13) {
		return 0, errTLSVersion
	}
	if !containsUint16(m.cipherSuites, cipherTLSAES128GCMSHA256) {
		return 0, errNoCipherSuite
	}
	if !containsUint16(m.supportedSignatureAlgorithms, sigalgECDSAP256SHA256) {
		return 0, errNoSignatureAlgorithm
	}
	if !containsUint16(m.supportedGroups, groupSecp256r1) {
		return 0, errNoGroup
	}
	var share *keyShare
	for i, ks := range m.keyShares {
		if ks.group == groupSecp256r1 {
			share = &m.keyShares[i]
			break
		}
	}
	if share == nil {
		return 0, errKeyShare
	}
	peerPubKey, err := ecdh.P256().NewPublicKey(share.data)
	if err != nil {
		return 0, errKeyShare
	}
	if !m.hasTransportParams {
		return 0, qerr.Error(qerr.TransportParameterError, "ClientHello without QUIC transport parameters")
	}
	if protocol.VersionNumber(m.initialVersion) != h.version {
		return 0, errQuicVersion
	}
	peerParams := &TransportParameters{}
	if err := peerParams.unmarshal(m.transportParameters, protocol.PerspectiveClient); err != nil {
		return 0, err
	}

	h.tlsVersion = versionTLS13
	h.cipherSuite = cipherTLSAES128GCMSHA256
	h.signatureAlg = sigalgECDSAP256SHA256
	h.group = groupSecp256r1
	h.peerPubKey = peerPubKey
	h.peerParams = peerParams
	h.transcript.Write(raw)
	h.logger.Debugf("Negotiated cipher %#x, signature algorithm %#x, group %#x", h.cipherSuite, h.signatureAlg, h.group)
	return ResultValid, nil
}

func (h *cryptoSetup) handleServerHello(m *serverHelloMsg, raw []byte) (Result, error) {
	if m.legacyVersion != versionTLS12 {
		return 0, errTLSVersion
	}
	if len(m.supportedVersions) != 1 || m.supportedVersions[0] != versionTLS13 {
		return 0, errTLSVersion
	}
	if m.cipherSuite != cipherTLSAES128GCMSHA256 {
		return 0, errNoCipherSuite
	}
	if !m.hasKeyShare || m.serverShare.group != groupSecp256r1 {
		return 0, errKeyShare
	}
	peerPubKey, err := ecdh.P256().NewPublicKey(m.serverShare.data)
	if err != nil {
		return 0, errKeyShare
	}

	h.tlsVersion = versionTLS13
	h.cipherSuite = m.cipherSuite
	h.group = m.serverShare.group
	h.peerPubKey = peerPubKey
	h.transcript.Write(raw)
	h.handshakeTranscript = append([]byte{}, h.transcript.Bytes()...)
	h.pendingTransition = protocol.EncryptionHandshake
	return ResultValid, nil
}

func (h *cryptoSetup) handleEncryptedExtensions(m *encryptedExtensionsMsg, raw []byte) (Result, error) {
	if !containsUint16(m.supportedSignatureAlgorithms, sigalgECDSAP256SHA256) {
		return 0, errNoSignatureAlgorithm
	}
	if !containsUint16(m.supportedGroups, groupSecp256r1) {
		return 0, errNoGroup
	}
	if !m.hasTransportParams {
		return 0, qerr.Error(qerr.TransportParameterError, "EncryptedExtensions without QUIC transport parameters")
	}
	if protocol.VersionNumber(m.negotiatedVersion) != h.version {
		return 0, errQuicVersion
	}
	peerParams := &TransportParameters{}
	if err := peerParams.unmarshal(m.transportParameters, protocol.PerspectiveServer); err != nil {
		return 0, err
	}

	h.signatureAlg = sigalgECDSAP256SHA256
	h.peerParams = peerParams
	h.transcript.Write(raw)
	return ResultIncomplete, nil
}

func (h *cryptoSetup) handleCertificate(m *certificateMsg, raw []byte) (Result, error) {
	certs := make([]*x509.Certificate, 0, len(m.certificates))
	for _, der := range m.certificates {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return 0, errCertificate
		}
		certs = append(certs, cert)
	}
	// each certificate must be signed by its successor; the root may be
	// self-signed, which includes the single self-signed leaf case
	for i := 0; i < len(certs)-1; i++ {
		if err := certs[i].CheckSignatureFrom(certs[i+1]); err != nil {
			return 0, errCertificate
		}
	}
	root := certs[len(certs)-1]
	if err := root.CheckSignatureFrom(root); err != nil {
		return 0, errCertificate
	}
	leafKey, ok := certs[0].PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return 0, errCertificate
	}

	h.peerCertKey = leafKey
	h.transcript.Write(raw)
	return ResultIncomplete, nil
}

func (h *cryptoSetup) handleCertificateVerify(m *certificateVerifyMsg, raw []byte) (Result, error) {
	if h.peerCertKey == nil {
		return 0, qerr.Error(qerr.ProtocolViolation, "CertificateVerify before Certificate")
	}
	if m.algorithm != h.signatureAlg {
		return 0, errNoSignatureAlgorithm
	}
	digest := sha256.Sum256(h.transcript.Bytes())
	if !ecdsa.VerifyASN1(h.peerCertKey, digest[:], m.signature) {
		return 0, errCertificateVerify
	}

	h.transcript.Write(raw)
	return ResultValid, nil
}

func (h *cryptoSetup) handleServerFinished(m *finishedMsg, raw []byte) (Result, error) {
	if h.keys.handshakeKeys == nil {
		return 0, qerr.Error(qerr.ProtocolViolation, "Finished before the Handshake keys are installed")
	}
	expected := h.finishedMAC(h.keys.serverHandshakeSecret())
	if !hmac.Equal(expected, m.verifyData) {
		return 0, errFinished
	}

	h.transcript.Write(raw)
	h.finishedTranscript = append([]byte{}, h.transcript.Bytes()...)
	h.pendingTransition = protocol.Encryption1RTT
	return ResultValid, nil
}

func (h *cryptoSetup) handleClientFinished(m *finishedMsg, raw []byte) (Result, error) {
	if h.keys.handshakeKeys == nil {
		return 0, qerr.Error(qerr.ProtocolViolation, "Finished before the Handshake keys are installed")
	}
	expected := h.finishedMAC(h.keys.clientHandshakeSecret())
	if !hmac.Equal(expected, m.verifyData) {
		return 0, errFinished
	}

	// the transcript is no longer needed
	h.transcript.Reset()
	h.handshakeComplete = true
	h.keys.dropHandshakeSecrets()
	h.logger.Debugf("Handshake complete")
	return ResultValid, nil
}

func containsUint16(haystack []uint16, needle uint16) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
