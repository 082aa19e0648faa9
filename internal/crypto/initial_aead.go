package crypto

import "github.com/ayongbc/gen-quic/internal/protocol"

// NewInitialAEAD creates the AEAD protecting Initial packets. Both peers salt
// the extraction with the client's destination connection ID from the first
// Initial packet.
func NewInitialAEAD(connID protocol.ConnectionID, pers protocol.Perspective) (AEADCTR, error) {
	initialSecret, clientSecret, serverSecret := ComputeInitialSecrets(connID)
	return NewTrafficAEAD(clientSecret, serverSecret, DerivePNSecret(initialSecret), pers)
}
