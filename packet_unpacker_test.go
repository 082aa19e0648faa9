package quic

import (
	"bytes"

	"github.com/ayongbc/gen-quic/internal/handshake"
	"github.com/ayongbc/gen-quic/internal/protocol"
	"github.com/ayongbc/gen-quic/internal/wire"
	"github.com/ayongbc/gen-quic/qerr"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Packet Unpacker", func() {
	var (
		unpacker *packetUnpacker
		packer   *packetPacker
		aead     *MockQuicAEAD
		sealers  *MockSealingManager

		connID protocol.ConnectionID
		sealer handshake.AEADWithPacketNumberCrypto
		opener handshake.AEADWithPacketNumberCrypto
	)

	BeforeEach(func() {
		connID = protocol.ConnectionID{0xde, 0xca, 0xfb, 0xad, 1, 2, 3, 4}
		var err error
		sealer, err = handshake.NewInitialAEAD(connID, protocol.PerspectiveClient)
		Expect(err).ToNot(HaveOccurred())
		opener, err = handshake.NewInitialAEAD(connID, protocol.PerspectiveServer)
		Expect(err).ToNot(HaveOccurred())
		aead = NewMockQuicAEAD(mockCtrl)
		sealers = NewMockSealingManager(mockCtrl)
		unpacker = newPacketUnpacker(aead, protocol.Version1).(*packetUnpacker)
		packer = newPacketPacker(sealers, protocol.Version1)
	})

	newHeader := func() *wire.Header {
		return &wire.Header{
			IsLongHeader:     true,
			Type:             protocol.PacketTypeInitial,
			DestConnectionID: connID,
			SrcConnectionID:  protocol.ConnectionID{1, 2, 3, 4, 5, 6, 7, 8},
			Version:          protocol.Version1,
		}
	}

	// seals a packet and parses its header, the way the session would
	sealAndParse := func(payload []byte, pn protocol.PacketNumber, pnLen protocol.PacketNumberLen) (*wire.Header, []byte) {
		sealers.EXPECT().GetSealer(protocol.EncryptionInitial).Return(sealer, nil)
		data, err := packer.pack(newHeader(), payload, pn, pnLen, protocol.EncryptionInitial)
		Expect(err).ToNot(HaveOccurred())
		r := bytes.NewReader(data)
		hdr, err := wire.ParseHeader(r)
		Expect(err).ToNot(HaveOccurred())
		hdr.Raw = data[:len(data)-r.Len()]
		return hdr, data
	}

	It("unpacks the frames", func() {
		buf := &bytes.Buffer{}
		(&wire.PingFrame{}).Write(buf, protocol.Version1)
		f := &wire.CryptoFrame{Offset: 0x1337, Data: []byte("foobar")}
		f.Write(buf, protocol.Version1)
		hdr, data := sealAndParse(buf.Bytes(), 2, protocol.PacketNumberLen2)
		aead.EXPECT().GetOpener(protocol.EncryptionInitial).Return(opener, nil)
		packet, err := unpacker.Unpack(hdr, data)
		Expect(err).ToNot(HaveOccurred())
		Expect(packet.encryptionLevel).To(Equal(protocol.EncryptionInitial))
		Expect(packet.packetNumber).To(Equal(protocol.PacketNumber(2)))
		Expect(packet.frames).To(Equal([]wire.Frame{&wire.PingFrame{}, f}))
	})

	It("errors if the packet doesn't contain any payload", func() {
		hdr, data := sealAndParse(nil, 10, protocol.PacketNumberLen2)
		aead.EXPECT().GetOpener(protocol.EncryptionInitial).Return(opener, nil)
		_, err := unpacker.Unpack(hdr, data)
		Expect(err).To(MatchError(qerr.MissingPayload))
	})

	It("returns a decryption failure for a corrupted packet", func() {
		buf := &bytes.Buffer{}
		(&wire.PingFrame{}).Write(buf, protocol.Version1)
		hdr, data := sealAndParse(buf.Bytes(), 2, protocol.PacketNumberLen2)
		data[len(data)-1] ^= 0xff
		aead.EXPECT().GetOpener(protocol.EncryptionInitial).Return(opener, nil)
		_, err := unpacker.Unpack(hdr, data)
		Expect(err).To(HaveOccurred())
		Expect(err.(*qerr.QuicError).ErrorCode).To(Equal(qerr.DecryptionFailure))
	})

	It("infers the full packet number from the truncated wire encoding", func() {
		unpacker.largestRcvdPacketNumber = 0x1336
		buf := &bytes.Buffer{}
		(&wire.PingFrame{}).Write(buf, protocol.Version1)
		hdr, data := sealAndParse(buf.Bytes(), 0x1337, protocol.PacketNumberLen2)
		aead.EXPECT().GetOpener(protocol.EncryptionInitial).Return(opener, nil)
		packet, err := unpacker.Unpack(hdr, data)
		Expect(err).ToNot(HaveOccurred())
		Expect(packet.packetNumber).To(Equal(protocol.PacketNumber(0x1337)))
		Expect(unpacker.largestRcvdPacketNumber).To(Equal(protocol.PacketNumber(0x1337)))
	})

	It("opens 1-RTT packets with a short header", func() {
		buf := &bytes.Buffer{}
		(&wire.PingFrame{}).Write(buf, protocol.Version1)
		hdr := &wire.Header{DestConnectionID: connID}
		sealers.EXPECT().GetSealer(protocol.Encryption1RTT).Return(sealer, nil)
		data, err := packer.pack(hdr, buf.Bytes(), 0x42, protocol.PacketNumberLen1, protocol.Encryption1RTT)
		Expect(err).ToNot(HaveOccurred())
		r := bytes.NewReader(data)
		parsedHdr, err := wire.ParseHeader(r)
		Expect(err).ToNot(HaveOccurred())
		parsedHdr.Raw = data[:len(data)-r.Len()]
		aead.EXPECT().GetOpener(protocol.Encryption1RTT).Return(opener, nil)
		packet, err := unpacker.Unpack(parsedHdr, data)
		Expect(err).ToNot(HaveOccurred())
		Expect(packet.encryptionLevel).To(Equal(protocol.Encryption1RTT))
		Expect(packet.packetNumber).To(Equal(protocol.PacketNumber(0x42)))
	})

	It("errors when the opener for the encryption level is not available", func() {
		buf := &bytes.Buffer{}
		(&wire.PingFrame{}).Write(buf, protocol.Version1)
		hdr, data := sealAndParse(buf.Bytes(), 2, protocol.PacketNumberLen2)
		testErr := qerr.Error(qerr.InternalError, "test error")
		aead.EXPECT().GetOpener(protocol.EncryptionInitial).Return(nil, testErr)
		_, err := unpacker.Unpack(hdr, data)
		Expect(err).To(MatchError(testErr))
	})
})
