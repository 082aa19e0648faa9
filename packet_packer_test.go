package quic

import (
	"bytes"

	"github.com/ayongbc/gen-quic/internal/handshake"
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/utils"
	"github.com/ayongbc/gen-quic/internal/wire"
	"github.com/ayongbc/gen-quic/qerr"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Packet Packer", func() {
	var (
		packer  *packetPacker
		sealers *MockSealingManager

		connID protocol.ConnectionID
		sealer handshake.AEADWithPacketNumberCrypto
	)

	BeforeEach(func() {
		connID = protocol.ConnectionID{1, 2, 3, 4, 5, 6, 7, 8}
		var err error
		sealer, err = handshake.NewInitialAEAD(connID, protocol.PerspectiveClient)
		Expect(err).ToNot(HaveOccurred())
		sealers = NewMockSealingManager(mockCtrl)
		packer = newPacketPacker(sealers, protocol.Version1)
	})

	newHeader := func() *wire.Header {
		return &wire.Header{
			IsLongHeader:     true,
			Type:             protocol.PacketTypeInitial,
			DestConnectionID: connID,
			SrcConnectionID:  connID,
			Version:          protocol.Version1,
		}
	}

	It("writes the length field covering packet number, payload and tag", func() {
		sealers.EXPECT().GetSealer(protocol.EncryptionInitial).Return(sealer, nil)
		hdr := newHeader()
		payload := []byte("foobar")
		data, err := packer.pack(hdr, payload, 0x42, protocol.PacketNumberLen2, protocol.EncryptionInitial)
		Expect(err).ToNot(HaveOccurred())
		Expect(hdr.Length).To(Equal(protocol.ByteCount(2 + len(payload) + sealer.Overhead())))
		parsed, err := wire.ParseHeader(bytes.NewReader(data))
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Length).To(Equal(hdr.Length))
		Expect(data).To(HaveLen(int(hdr.GetLength()) + int(hdr.Length)))
	})

	It("obfuscates the packet number on the wire", func() {
		sealers.EXPECT().GetSealer(protocol.EncryptionInitial).Return(sealer, nil)
		hdr := newHeader()
		data, err := packer.pack(hdr, []byte("foobar"), 0x42, protocol.PacketNumberLen2, protocol.EncryptionInitial)
		Expect(err).ToNot(HaveOccurred())
		r := bytes.NewReader(data)
		_, err = wire.ParseHeader(r)
		Expect(err).ToNot(HaveOccurred())
		pnOffset := len(data) - r.Len()
		plainPN := &bytes.Buffer{}
		Expect(utils.WriteVarIntPacketNumber(plainPN, 0x42, protocol.PacketNumberLen2)).To(Succeed())
		Expect(data[pnOffset : pnOffset+2]).ToNot(Equal(plainPN.Bytes()))
	})

	It("seals deterministically for fixed keys and packet number", func() {
		sealers.EXPECT().GetSealer(protocol.EncryptionInitial).Return(sealer, nil).Times(2)
		data1, err := packer.pack(newHeader(), []byte("foobar"), 0x42, protocol.PacketNumberLen2, protocol.EncryptionInitial)
		Expect(err).ToNot(HaveOccurred())
		data2, err := packer.pack(newHeader(), []byte("foobar"), 0x42, protocol.PacketNumberLen2, protocol.EncryptionInitial)
		Expect(err).ToNot(HaveOccurred())
		Expect(data1).To(Equal(data2))
	})

	It("errors when the sealer for the encryption level is not available", func() {
		testErr := qerr.Error(qerr.InternalError, "test error")
		sealers.EXPECT().GetSealer(protocol.EncryptionHandshake).Return(nil, testErr)
		_, err := packer.pack(newHeader(), []byte("foobar"), 1, protocol.PacketNumberLen2, protocol.EncryptionHandshake)
		Expect(err).To(MatchError(testErr))
	})
})
