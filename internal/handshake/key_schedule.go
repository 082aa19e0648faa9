package handshake

import (
	stdcrypto "crypto"

	"github.com/ayongbc/gen-quic/internal/crypto"
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/qerr"
)

// levelKeys holds the key material of one encryption level.
type levelKeys struct {
	clientSecret []byte
	serverSecret []byte
	pnSecret     []byte

	aead AEADWithPacketNumberCrypto
}

func newLevelKeys(clientSecret, serverSecret, pnSecret []byte, pers protocol.Perspective) (*levelKeys, error) {
	aeadctr, err := crypto.NewTrafficAEAD(clientSecret, serverSecret, pnSecret, pers)
	if err != nil {
		return nil, err
	}
	return &levelKeys{
		clientSecret: clientSecret,
		serverSecret: serverSecret,
		pnSecret:     pnSecret,
		aead:         newAEADWithPacketNumberCrypto(aeadctr),
	}, nil
}

// zeroize overwrites the secrets. The expanded keys inside the AEAD stay
// usable for packets still in flight at the retired level.
func (l *levelKeys) zeroize() {
	for _, s := range [][]byte{l.clientSecret, l.serverSecret, l.pnSecret} {
		for i := range s {
			s[i] = 0
		}
	}
}

// A keySchedule owns the secrets of the encryption levels and performs the
// one-shot transitions between them. The level never decreases.
type keySchedule struct {
	perspective protocol.Perspective

	level protocol.EncryptionLevel

	initialSecret   []byte
	handshakeSecret []byte

	initialKeys   *levelKeys
	earlyKeys     *levelKeys // client only
	handshakeKeys *levelKeys
	oneRTTKeys    *levelKeys
}

// setInitialKeys installs the Initial keys derived from the client's
// destination connection ID, and transitions undefined -> initial.
func (s *keySchedule) setInitialKeys(connID protocol.ConnectionID) error {
	if s.level != protocol.EncryptionUnspecified {
		return qerr.Error(qerr.InternalError, "initial keys already installed")
	}
	initialSecret, clientSecret, serverSecret := crypto.ComputeInitialSecrets(connID)
	keys, err := newLevelKeys(clientSecret, serverSecret, crypto.DerivePNSecret(initialSecret), s.perspective)
	if err != nil {
		return err
	}
	s.initialSecret = initialSecret
	s.initialKeys = keys

	if s.perspective == protocol.PerspectiveClient {
		earlySecret := crypto.HkdfExpandLabel(stdcrypto.SHA256, clientSecret, nil, "c e traffic", stdcrypto.SHA256.Size())
		earlyKeys, err := newLevelKeys(earlySecret, earlySecret, crypto.DerivePNSecret(earlySecret), s.perspective)
		if err != nil {
			return err
		}
		s.earlyKeys = earlyKeys
	}
	s.level = protocol.EncryptionInitial
	return nil
}

// setHandshakeKeys installs the Handshake keys and transitions
// initial -> handshake. The transcript covers everything through the ServerHello.
func (s *keySchedule) setHandshakeKeys(sharedSecret, transcript []byte) error {
	if s.level != protocol.EncryptionInitial {
		return qerr.Errorf(qerr.InternalError, "cannot install handshake keys at level %s", s.level)
	}
	s.handshakeSecret = crypto.DeriveHandshakeSecret(s.initialSecret, sharedSecret)
	clientSecret, serverSecret := crypto.DeriveHandshakeTrafficSecrets(s.handshakeSecret, transcript)
	keys, err := newLevelKeys(clientSecret, serverSecret, crypto.DerivePNSecret(s.handshakeSecret), s.perspective)
	if err != nil {
		return err
	}
	s.handshakeKeys = keys
	s.initialKeys.zeroize()
	for i := range s.initialSecret {
		s.initialSecret[i] = 0
	}
	s.level = protocol.EncryptionHandshake
	return nil
}

// setOneRTTKeys installs the 1-RTT keys and transitions handshake -> protected.
// The transcript covers everything through the server's Finished.
func (s *keySchedule) setOneRTTKeys(transcript []byte) error {
	if s.level != protocol.EncryptionHandshake {
		return qerr.Errorf(qerr.InternalError, "cannot install 1-RTT keys at level %s", s.level)
	}
	masterSecret := crypto.DeriveMasterSecret(s.handshakeSecret)
	clientSecret, serverSecret := crypto.DeriveAppTrafficSecrets(masterSecret, transcript)
	keys, err := newLevelKeys(clientSecret, serverSecret, crypto.DerivePNSecret(masterSecret), s.perspective)
	if err != nil {
		return err
	}
	s.oneRTTKeys = keys
	s.level = protocol.Encryption1RTT
	return nil
}

// dropHandshakeSecrets zeroizes the Handshake level secrets. Called once the
// Finished exchange is done in both directions.
func (s *keySchedule) dropHandshakeSecrets() {
	if s.handshakeKeys != nil {
		s.handshakeKeys.zeroize()
	}
	for i := range s.handshakeSecret {
		s.handshakeSecret[i] = 0
	}
}

// clientHandshakeSecret returns the client's Handshake traffic secret, used
// for the client's Finished MAC.
func (s *keySchedule) clientHandshakeSecret() []byte { return s.handshakeKeys.clientSecret }

// serverHandshakeSecret returns the server's Handshake traffic secret, used
// for the server's Finished MAC.
func (s *keySchedule) serverHandshakeSecret() []byte { return s.handshakeKeys.serverSecret }

// keysFor returns the key material of the given encryption level.
// It errors if the level's keys have not been installed.
func (s *keySchedule) keysFor(level protocol.EncryptionLevel) (*levelKeys, error) {
	var keys *levelKeys
	switch level {
	case protocol.EncryptionInitial:
		keys = s.initialKeys
	case protocol.Encryption0RTT:
		keys = s.earlyKeys
	case protocol.EncryptionHandshake:
		keys = s.handshakeKeys
	case protocol.Encryption1RTT:
		keys = s.oneRTTKeys
	}
	if keys == nil {
		return nil, qerr.Errorf(qerr.InternalError, "no keys installed for encryption level %s", level)
	}
	return keys, nil
}
