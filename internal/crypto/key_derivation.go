package crypto

import (
	"crypto"

	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/bifurcation/mint"
)

var quicVersion1Salt = []byte{0x38, 0x76, 0x2c, 0xf7, 0xf5, 0x59, 0x34, 0xb3, 0x4d, 0x17, 0x9a, 0xe6, 0xa4, 0xc8, 0x0c, 0xad, 0xcc, 0xbb, 0x7f, 0x0a}

const (
	clientInitialLabel          = "client in"
	serverInitialLabel          = "server in"
	clientHandshakeTrafficLabel = "c hs traffic"
	serverHandshakeTrafficLabel = "s hs traffic"
	clientAppTrafficLabel       = "c ap traffic"
	serverAppTrafficLabel       = "s ap traffic"
)

// ComputeInitialSecrets derives the secrets protecting Initial packets from
// the client's destination connection ID.
func ComputeInitialSecrets(connID protocol.ConnectionID) (initialSecret, clientSecret, serverSecret []byte) {
	initialSecret = mint.HkdfExtract(crypto.SHA256, quicVersion1Salt, connID)
	clientSecret = HkdfExpandLabel(crypto.SHA256, initialSecret, nil, clientInitialLabel, crypto.SHA256.Size())
	serverSecret = HkdfExpandLabel(crypto.SHA256, initialSecret, nil, serverInitialLabel, crypto.SHA256.Size())
	return
}

// DeriveHandshakeSecret computes the TLS 1.3 handshake secret from the ECDHE
// shared secret. The predecessor in the schedule is the Initial secret.
func DeriveHandshakeSecret(initialSecret, sharedSecret []byte) []byte {
	derived := DeriveSecret(initialSecret, "derived", nil)
	return mint.HkdfExtract(crypto.SHA256, derived, sharedSecret)
}

// DeriveMasterSecret computes the TLS 1.3 master secret from the handshake secret.
func DeriveMasterSecret(handshakeSecret []byte) []byte {
	derived := DeriveSecret(handshakeSecret, "derived", nil)
	return mint.HkdfExtract(crypto.SHA256, derived, make([]byte, crypto.SHA256.Size()))
}

// DeriveHandshakeTrafficSecrets derives the directional Handshake traffic
// secrets, bound to the transcript through the ServerHello.
func DeriveHandshakeTrafficSecrets(handshakeSecret, transcript []byte) (clientSecret, serverSecret []byte) {
	clientSecret = DeriveSecret(handshakeSecret, clientHandshakeTrafficLabel, transcript)
	serverSecret = DeriveSecret(handshakeSecret, serverHandshakeTrafficLabel, transcript)
	return
}

// DeriveAppTrafficSecrets derives the directional 1-RTT traffic secrets, bound
// to the transcript through the server's Finished.
func DeriveAppTrafficSecrets(masterSecret, transcript []byte) (clientSecret, serverSecret []byte) {
	clientSecret = DeriveSecret(masterSecret, clientAppTrafficLabel, transcript)
	serverSecret = DeriveSecret(masterSecret, serverAppTrafficLabel, transcript)
	return
}

// DerivePNSecret derives the packet number protection secret of an encryption
// level from that level's base secret.
func DerivePNSecret(baseSecret []byte) []byte {
	return HkdfExpandLabel(crypto.SHA256, baseSecret, nil, "pn", crypto.SHA256.Size())
}

// DeriveFinishedKey derives the key for the Finished MAC from a directional
// handshake traffic secret.
func DeriveFinishedKey(trafficSecret []byte) []byte {
	return HkdfExpandLabel(crypto.SHA256, trafficSecret, nil, "finished", crypto.SHA256.Size())
}

// ComputeKeyAndIV expands the packet protection key and IV from a traffic secret.
func ComputeKeyAndIV(secret []byte) (key, iv []byte) {
	key = HkdfExpandLabel(crypto.SHA256, secret, nil, "quic key", 16)
	iv = HkdfExpandLabel(crypto.SHA256, secret, nil, "quic iv", 12)
	return
}

// NewTrafficAEAD creates the AEAD of an encryption level from its directional
// traffic secrets and the level's packet number protection secret.
func NewTrafficAEAD(clientSecret, serverSecret, pnSecret []byte, pers protocol.Perspective) (AEADCTR, error) {
	var mySecret, otherSecret []byte
	if pers == protocol.PerspectiveClient {
		mySecret = clientSecret
		otherSecret = serverSecret
	} else {
		mySecret = serverSecret
		otherSecret = clientSecret
	}
	myKey, myIV := ComputeKeyAndIV(mySecret)
	otherKey, otherIV := ComputeKeyAndIV(otherSecret)
	return NewAESAEADCTR(otherKey, myKey, otherIV, myIV, pnSecret[:16])
}
