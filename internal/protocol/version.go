package protocol

import "fmt"

// VersionNumber is a version number as int
type VersionNumber uint32

// The version numbers, making grepping easier
const (
	// VersionUnknown is an invalid version
	VersionUnknown VersionNumber = 0
	// Version1 is QUIC version 1
	Version1 VersionNumber = 0x1
)

// SupportedVersions lists the versions that the server supports, in descending order of preference
var SupportedVersions = []VersionNumber{Version1}

// IsSupportedVersion returns true if the server supports this version
func IsSupportedVersion(supported []VersionNumber, v VersionNumber) bool {
	for _, t := range supported {
		if t == v {
			return true
		}
	}
	return false
}

func (vn VersionNumber) String() string {
	if vn == VersionUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%#x", uint32(vn))
}
