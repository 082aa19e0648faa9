package protocol

// InferPacketNumber calculates the packet number based on the received packet number
// and the last seen packet number. The packet number on the wire only carries the
// low 7, 14 or 30 bits, depending on the encoded length.
func InferPacketNumber(packetNumberLength PacketNumberLen, lastPacketNumber PacketNumber, wirePacketNumber PacketNumber) PacketNumber {
	var epochDelta PacketNumber
	switch packetNumberLength {
	case PacketNumberLen1:
		epochDelta = PacketNumber(1) << 7
	case PacketNumberLen2:
		epochDelta = PacketNumber(1) << 14
	case PacketNumberLen4:
		epochDelta = PacketNumber(1) << 30
	}
	epoch := lastPacketNumber & ^(epochDelta - 1)
	var prevEpochBegin PacketNumber
	if epoch > epochDelta {
		prevEpochBegin = epoch - epochDelta
	}
	nextEpochBegin := epoch + epochDelta
	return closestTo(
		lastPacketNumber+1,
		epoch+wirePacketNumber,
		closestTo(lastPacketNumber+1, prevEpochBegin+wirePacketNumber, nextEpochBegin+wirePacketNumber),
	)
}

func closestTo(target, a, b PacketNumber) PacketNumber {
	if delta(target, a) < delta(target, b) {
		return a
	}
	return b
}

func delta(a, b PacketNumber) PacketNumber {
	if a < b {
		return b - a
	}
	return a - b
}

// GetPacketNumberLength gets the minimum length needed to fully represent the packet number
func GetPacketNumberLength(packetNumber PacketNumber) PacketNumberLen {
	if packetNumber < (1 << 7) {
		return PacketNumberLen1
	}
	if packetNumber < (1 << 14) {
		return PacketNumberLen2
	}
	return PacketNumberLen4
}

// GetPacketNumberLengthForHeader gets the length of the packet number for the header.
// It never chooses a packet number length of 1 byte, since that is too short under
// certain circumstances.
func GetPacketNumberLengthForHeader(packetNumber PacketNumber, leastUnacked PacketNumber) PacketNumberLen {
	diff := uint64(packetNumber - leastUnacked)
	if diff < (1 << 13) {
		return PacketNumberLen2
	}
	return PacketNumberLen4
}
