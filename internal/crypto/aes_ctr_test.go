package crypto

import (
	"crypto/rand"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("AES-CTR", func() {
	var (
		alice, bob ctr
		key, iv    []byte
	)

	BeforeEach(func() {
		key = make([]byte, 16)
		iv = make([]byte, 16)
		rand.Reader.Read(key)
		rand.Reader.Read(iv)
		var err error
		alice, err = newCTR(key)
		Expect(err).ToNot(HaveOccurred())
		bob, err = newCTR(key)
		Expect(err).ToNot(HaveOccurred())
	})

	It("encrypts and decrypts", func() {
		data := []byte("foobar")
		Expect(alice.Encrypt(data, iv)).To(Succeed())
		Expect(data).ToNot(Equal([]byte("foobar")))
		Expect(bob.Decrypt(data, iv)).To(Succeed())
		Expect(data).To(Equal([]byte("foobar")))
	})

	It("is involutive", func() {
		data := []byte("foobar")
		Expect(alice.Encrypt(data, iv)).To(Succeed())
		Expect(alice.Encrypt(data, iv)).To(Succeed())
		Expect(data).To(Equal([]byte("foobar")))
	})

	It("errors when encrypting with a wrong size IV", func() {
		Expect(alice.Encrypt([]byte("foobar"), iv[:15])).To(MatchError("wrong IV size"))
	})

	It("errors when decrypting with a wrong size IV", func() {
		Expect(alice.Decrypt([]byte("foobar"), iv[:15])).To(MatchError("wrong IV size"))
	})

	It("has the right IV size", func() {
		Expect(alice.CTRIVSize()).To(Equal(16))
		Expect(bob.CTRIVSize()).To(Equal(16))
	})

	It("errors when an invalid key size is used", func() {
		_, err := newCTR(make([]byte, 17))
		Expect(err).To(MatchError("crypto/aes: invalid key size 17"))
	})
})
