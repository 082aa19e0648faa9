package handshake

import (
	"github.com/ayongbc/gen-quic/internal/crypto"
	"github.com/ayongbc/gen-quic/internal/protocol"
)

// NewInitialAEAD creates the packet protection for Initial packets, including
// the packet number crypto.
func NewInitialAEAD(
	connID protocol.ConnectionID,
	pers protocol.Perspective,
) (AEADWithPacketNumberCrypto, error) {
	aead, err := crypto.NewInitialAEAD(connID, pers)
	if err != nil {
		return nil, err
	}
	return newAEADWithPacketNumberCrypto(aead), nil
}
