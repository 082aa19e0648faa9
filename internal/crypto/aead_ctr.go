package crypto

type aeadCTR struct {
	AEAD
	ctr
}

var _ AEADCTR = &aeadCTR{}

// NewAESAEADCTR combines an AES-128-GCM AEAD with the AES-CTR keystream used
// for packet number protection. The packet number key is shared by both
// directions of the connection.
func NewAESAEADCTR(otherKey, myKey, otherIV, myIV, pnKey []byte) (AEADCTR, error) {
	aead, err := newAEADAESGCM(otherKey, myKey, otherIV, myIV)
	if err != nil {
		return nil, err
	}
	ctr, err := newCTR(pnKey)
	if err != nil {
		return nil, err
	}
	return &aeadCTR{
		AEAD: aead,
		ctr:  ctr,
	}, nil
}
