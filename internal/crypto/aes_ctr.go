package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

type aesCTR struct {
	block cipher.Block
}

var _ ctr = &aesCTR{}

// newCTR creates the AES-CTR keystream used for packet number protection.
// A single key serves both directions of the connection.
func newCTR(key []byte) (ctr, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &aesCTR{block: block}, nil
}

func (c *aesCTR) Encrypt(plain, iv []byte) error {
	return c.apply(plain, iv)
}

func (c *aesCTR) Decrypt(ciphertext, iv []byte) error {
	return c.apply(ciphertext, iv)
}

func (c *aesCTR) apply(data, iv []byte) error {
	if len(iv) != c.block.BlockSize() {
		return errors.New("wrong IV size")
	}
	ctr := cipher.NewCTR(c.block, iv)
	ctr.XORKeyStream(data, data)
	return nil
}

func (c *aesCTR) CTRIVSize() int {
	return c.block.BlockSize()
}
