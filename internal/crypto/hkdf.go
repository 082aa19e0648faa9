package crypto

import (
	"crypto"
	"crypto/sha256"
	"encoding/binary"

	"github.com/bifurcation/mint"
)

// HkdfExpandLabel implements HKDF-Expand-Label from RFC 8446, section 7.1.
// The context is used verbatim; callers that derive from a transcript pass the
// transcript hash.
func HkdfExpandLabel(hash crypto.Hash, secret, context []byte, label string, length int) []byte {
	b := make([]byte, 3, 3+6+len(label)+1+len(context))
	binary.BigEndian.PutUint16(b, uint16(length))
	b[2] = uint8(6 + len(label))
	b = append(b, []byte("tls13 "+label)...)
	b = append(b, uint8(len(context)))
	b = append(b, context...)
	return mint.HkdfExpand(hash, secret, b, length)
}

// DeriveSecret implements Derive-Secret from RFC 8446, section 7.1.
// The context of the expansion is the hash of the transcript, the hash of the
// empty string when the transcript is empty.
func DeriveSecret(secret []byte, label string, transcript []byte) []byte {
	th := sha256.Sum256(transcript)
	return HkdfExpandLabel(crypto.SHA256, secret, th[:], label, crypto.SHA256.Size())
}
