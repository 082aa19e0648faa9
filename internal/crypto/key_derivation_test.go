package crypto

import (
	stdcrypto "crypto"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/ayongbc/gen-quic/internal/protocol"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func split(s string) (slice []byte) {
	for _, ss := range strings.Split(s, " ") {
		if strings.HasPrefix(ss, "0x") {
			ss = ss[2:]
		}
		d, err := hex.DecodeString(ss)
		Expect(err).ToNot(HaveOccurred())
		slice = append(slice, d...)
	}
	return
}

var _ = Describe("HKDF-Expand-Label", func() {
	It("produces output of the requested length", func() {
		secret := make([]byte, 32)
		Expect(HkdfExpandLabel(stdcrypto.SHA256, secret, nil, "key", 16)).To(HaveLen(16))
		Expect(HkdfExpandLabel(stdcrypto.SHA256, secret, nil, "iv", 12)).To(HaveLen(12))
		Expect(HkdfExpandLabel(stdcrypto.SHA256, secret, nil, "pn", 32)).To(HaveLen(32))
	})

	It("is deterministic", func() {
		secret := split("7db5df06e7a69e432496adedb00851923595221596ae2ae9fb8115c1e9ed0a44")
		Expect(HkdfExpandLabel(stdcrypto.SHA256, secret, nil, "client in", 32)).To(Equal(HkdfExpandLabel(stdcrypto.SHA256, secret, nil, "client in", 32)))
	})

	It("produces different output for different labels", func() {
		secret := make([]byte, 32)
		Expect(HkdfExpandLabel(stdcrypto.SHA256, secret, nil, "client in", 32)).ToNot(Equal(HkdfExpandLabel(stdcrypto.SHA256, secret, nil, "server in", 32)))
	})

	It("derives secrets for an empty transcript with the hash of the empty string as context", func() {
		secret := make([]byte, 32)
		empty := sha256.Sum256(nil)
		Expect(DeriveSecret(secret, "derived", nil)).To(Equal(HkdfExpandLabel(stdcrypto.SHA256, secret, empty[:], "derived", 32)))
	})
})

// values taken from Appendix A of RFC 9001
var _ = Describe("Initial secrets", func() {
	connID := protocol.ConnectionID(split("0x8394c8f03e515708"))

	It("computes the initial secret", func() {
		initialSecret, _, _ := ComputeInitialSecrets(connID)
		Expect(initialSecret).To(Equal(split("7db5df06e7a69e432496adedb0085192 3595221596ae2ae9fb8115c1e9ed0a44")))
	})

	It("computes the client key and IV", func() {
		_, clientSecret, _ := ComputeInitialSecrets(connID)
		Expect(clientSecret).To(Equal(split("c00cf151ca5be075ed0ebfb5c80323c4 2d6b7db67881289af4008f1f6c357aea")))
		key, iv := ComputeKeyAndIV(clientSecret)
		Expect(key).To(Equal(split("1f369613dd76d5467730efcbe3b1a22d")))
		Expect(iv).To(Equal(split("fa044b2f42a3fd3b46fb255c")))
	})

	It("computes the server key and IV", func() {
		_, _, serverSecret := ComputeInitialSecrets(connID)
		Expect(serverSecret).To(Equal(split("3c199828fd139efd216c155ad844cc81 fb82fa8d7446fa7d78be803acdda951b")))
		key, iv := ComputeKeyAndIV(serverSecret)
		Expect(key).To(Equal(split("cf3a5331653c364c88f0f379b6067e37")))
		Expect(iv).To(Equal(split("0ac1493ca1905853b0bba03e")))
	})
})

var _ = Describe("Key schedule", func() {
	It("derives handshake traffic secrets as a pure function of its inputs", func() {
		initialSecret, _, _ := ComputeInitialSecrets(protocol.ConnectionID{1, 2, 3, 4, 5, 6, 7, 8})
		sharedSecret := split("0102030405060708 0102030405060708 0102030405060708 0102030405060708")
		transcript := []byte("client hello || server hello")
		hsSecret := DeriveHandshakeSecret(initialSecret, sharedSecret)
		c1, s1 := DeriveHandshakeTrafficSecrets(hsSecret, transcript)
		c2, s2 := DeriveHandshakeTrafficSecrets(hsSecret, transcript)
		Expect(c1).To(Equal(c2))
		Expect(s1).To(Equal(s2))
		Expect(c1).ToNot(Equal(s1))
		c3, _ := DeriveHandshakeTrafficSecrets(hsSecret, []byte("a different transcript"))
		Expect(c3).ToNot(Equal(c1))
	})

	It("derives different application traffic secrets from the master secret", func() {
		hsSecret := make([]byte, 32)
		master := DeriveMasterSecret(hsSecret)
		Expect(master).ToNot(Equal(hsSecret))
		c, s := DeriveAppTrafficSecrets(master, []byte("transcript through the server Finished"))
		Expect(c).To(HaveLen(32))
		Expect(s).To(HaveLen(32))
		Expect(c).ToNot(Equal(s))
	})

	It("derives a 32 byte finished key", func() {
		secret := make([]byte, 32)
		Expect(DeriveFinishedKey(secret)).To(HaveLen(32))
	})
})

var _ = Describe("Initial AEAD", func() {
	It("seals and opens", func() {
		connID := protocol.ConnectionID{0x12, 0x34, 0x56, 0x78, 0x90, 0xab, 0xcd, 0xef}
		client, err := NewInitialAEAD(connID, protocol.PerspectiveClient)
		Expect(err).ToNot(HaveOccurred())
		server, err := NewInitialAEAD(connID, protocol.PerspectiveServer)
		Expect(err).ToNot(HaveOccurred())

		clientMessage := client.Seal(nil, []byte("foobar"), 42, []byte("aad"))
		m, err := server.Open(nil, clientMessage, 42, []byte("aad"))
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal([]byte("foobar")))
		serverMessage := server.Seal(nil, []byte("raboof"), 99, []byte("daa"))
		m, err = client.Open(nil, serverMessage, 99, []byte("daa"))
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal([]byte("raboof")))
	})

	It("doesn't work if initialized with different connection IDs", func() {
		c1 := protocol.ConnectionID{0, 0, 0, 0, 0, 0, 0, 1}
		c2 := protocol.ConnectionID{0, 0, 0, 0, 0, 0, 0, 2}
		client, err := NewInitialAEAD(c1, protocol.PerspectiveClient)
		Expect(err).ToNot(HaveOccurred())
		server, err := NewInitialAEAD(c2, protocol.PerspectiveServer)
		Expect(err).ToNot(HaveOccurred())

		clientMessage := client.Seal(nil, []byte("foobar"), 42, []byte("aad"))
		_, err = server.Open(nil, clientMessage, 42, []byte("aad"))
		Expect(err).To(HaveOccurred())
	})

	It("uses the same packet number keystream for both peers", func() {
		connID := protocol.ConnectionID{1, 2, 3, 4, 5, 6, 7, 8}
		client, err := NewInitialAEAD(connID, protocol.PerspectiveClient)
		Expect(err).ToNot(HaveOccurred())
		server, err := NewInitialAEAD(connID, protocol.PerspectiveServer)
		Expect(err).ToNot(HaveOccurred())
		sample := make([]byte, 16)
		data := []byte{0xde, 0xad, 0xbe, 0xef}
		Expect(client.Encrypt(data, sample)).To(Succeed())
		Expect(server.Decrypt(data, sample)).To(Succeed())
		Expect(data).To(Equal([]byte{0xde, 0xad, 0xbe, 0xef}))
	})
})
