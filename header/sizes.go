package header

// Fixed section sizes, in bytes.
const (
	StorageHeaderSize  = 16 // magic(4) + seconds(4) + microseconds(4) + ecu_id(4)
	StandardHeaderSize = 4  // header_type(1) + message_counter(1) + overall_length(2), before optional fields
	ExtendedHeaderSize = 10 // message_info(1) + argument_count(1) + application_id(4) + context_id(4)

	ecuIDFieldSize     = 4
	sessionIDFieldSize = 4
	timestampFieldSize = 4
)

// StorageMagic is the 4-byte signature that prefixes every storage header
// in a DLT capture file. Live socket frames carry no storage header and
// therefore no magic.
var StorageMagic = [4]byte{0x44, 0x4C, 0x54, 0x01}

// header_type flag bits (spec.md §3).
const (
	FlagUEH  = 1 << 0 // extended header present
	FlagMSBF = 1 << 1 // 1 = big-endian payload
	FlagWEID = 1 << 2 // ECU id present
	FlagWSID = 1 << 3 // session id present
	FlagWTMS = 1 << 4 // timestamp present

	versionShift = 5
	versionMask  = 0x7 // bits 5..7
)

// standardHeaderBytes computes the total standard-header byte count for a
// given header_type, i.e. the fixed 4 bytes plus whichever optional fields
// WEID/WSID/WTMS declare present. payload_length is derived from
// overall_length by subtracting this value (plus the extended header size
// when UEH is set); overall_length does not cover the storage header.
func standardHeaderBytes(headerType uint8) int {
	n := StandardHeaderSize
	if headerType&FlagWEID != 0 {
		n += ecuIDFieldSize
	}
	if headerType&FlagWSID != 0 {
		n += sessionIDFieldSize
	}
	if headerType&FlagWTMS != 0 {
		n += timestampFieldSize
	}
	return n
}
