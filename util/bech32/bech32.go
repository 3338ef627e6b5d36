package bech32

import (
	"strings"

	"github.com/pkg/errors"
)

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
const checksumLength = 8

// For use in convertBits. Represents a number of bits to convert to or from and whether
// to add padding.
type conversionType struct {
	fromBits uint8
	toBits   uint8
	pad      bool
}

// Conversion types to use in convertBits.
var fiveToEightBits = conversionType{fromBits: 5, toBits: 8, pad: false}
var eightToFiveBits = conversionType{fromBits: 8, toBits: 5, pad: true}

var generator = []uint64{0x98f2bc8e61, 0x79b76d99e2, 0xf33e5fb3c4, 0xae2eabe2a8, 0x1e4f43e470}

// ErrDecode is returned, wrapped with the failure details, for every string
// that is not a valid encoding.
var ErrDecode = errors.New("bech32 decode error")

// reverseCharset maps each character of charset to its index, 0xff marks
// characters that are not part of it.
var reverseCharset = func() [256]byte {
	var table [256]byte
	for i := range table {
		table[i] = 0xff
	}
	for i := 0; i < len(charset); i++ {
		table[charset[i]] = byte(i)
	}
	return table
}()

// Encode prepends the version byte, converts to uint5, and encodes to Bech32.
func Encode(prefix string, payload []byte, version byte) string {
	data := make([]byte, len(payload)+1)
	data[0] = version
	copy(data[1:], payload)

	converted := convertBits(data, eightToFiveBits)

	return encode(prefix, converted)
}

// Decode decodes a string that was encoded with Encode.
func Decode(encoded string) (prefix string, payload []byte, version byte, err error) {
	prefix, decoded, err := decode(encoded)
	if err != nil {
		return "", nil, 0, err
	}

	converted, err := convertBitsChecked(decoded, fiveToEightBits)
	if err != nil {
		return "", nil, 0, err
	}

	if len(converted) < 1 {
		return "", nil, 0, errors.Wrapf(ErrDecode, "no version byte in %s", encoded)
	}

	version = converted[0]
	payload = converted[1:]

	return prefix, payload, version, nil
}

// decode decodes a Bech32 encoded string, returning the prefix
// and the data part excluding the checksum.
func decode(encoded string) (string, []byte, error) {
	// The string is invalid if the last ':' is non-existent, it is the
	// first character of the string (no human-readable part) or one of the
	// last 8 characters of the string (since checksum cannot contain ':').
	colonIndex := strings.LastIndexByte(encoded, ':')
	if colonIndex < 1 || colonIndex+checksumLength+1 > len(encoded) {
		return "", nil, errors.Wrapf(ErrDecode, "invalid index of ':' in %s", encoded)
	}

	// The string is invalid if it has mixed case characters.
	lower := strings.ToLower(encoded)
	upper := strings.ToUpper(encoded)
	if encoded != lower && encoded != upper {
		return "", nil, errors.Wrapf(ErrDecode, "string not all lowercase or all uppercase: %s", encoded)
	}

	// Uppercase strings decode to their lowercase prefix.
	encoded = lower

	// The human-readable part is everything before the last ':'.
	prefix := encoded[:colonIndex]
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < 33 || prefix[i] > 126 {
			return "", nil, errors.Wrapf(ErrDecode, "invalid character in prefix: %q", prefix[i])
		}
	}
	dataString := encoded[colonIndex+1:]

	// Each character corresponds to the byte with value of the index in
	// 'charset'.
	decoded, err := decodeFromBase32(dataString)
	if err != nil {
		return "", nil, err
	}

	if !verifyChecksum(prefix, decoded) {
		checksum := dataString[len(dataString)-checksumLength:]
		expected := encodeToBase32(calculateChecksum(prefix, decoded[:len(decoded)-checksumLength]))

		return "", nil, errors.Wrapf(ErrDecode, "checksum failed. Expected %s, got %s", expected, checksum)
	}

	// We exclude the last 8 bytes, which is the checksum.
	return prefix, decoded[:len(decoded)-checksumLength], nil
}

// encode encodes a byte slice into a bech32 string with the
// prefix. Note that the encoded bytes must be in uint5 format.
func encode(prefix string, data []byte) string {
	checksum := calculateChecksum(prefix, data)
	combined := append(data, checksum...)

	// The resulting bech32 string is the concatenation of the prefix, the
	// separator ':', data and checksum. Everything after the separator is
	// encoded using the charset.
	base32String := encodeToBase32(combined)

	return prefix + ":" + base32String
}

// decodeFromBase32 converts each character in the string 'chars' to the value of the
// character's index in 'charset'.
func decodeFromBase32(base32String string) ([]byte, error) {
	decoded := make([]byte, 0, len(base32String))
	for i := 0; i < len(base32String); i++ {
		index := reverseCharset[base32String[i]]
		if index == 0xff {
			return nil, errors.Wrapf(ErrDecode, "invalid character not part of charset: %q", base32String[i])
		}
		decoded = append(decoded, index)
	}
	return decoded, nil
}

// encodeToBase32 converts each byte in the slice to the character at
// the byte's index in 'charset'.
func encodeToBase32(data []byte) string {
	result := make([]byte, 0, len(data))
	for _, b := range data {
		result = append(result, charset[b])
	}
	return string(result)
}

// convertBits converts a byte slice where each byte is encoding fromBits bits,
// to a byte slice where each byte is encoding toBits bits.
func convertBits(data []byte, conversionType conversionType) []byte {
	regrouped, _ := regroupBits(data, conversionType)
	return regrouped
}

// convertBitsChecked is convertBits that also rejects left over bits that
// would have been dropped.
func convertBitsChecked(data []byte, conversionType conversionType) ([]byte, error) {
	regrouped, leftover := regroupBits(data, conversionType)
	if leftover {
		return nil, errors.Wrapf(ErrDecode, "invalid padding when converting from %d to %d bits",
			conversionType.fromBits, conversionType.toBits)
	}
	return regrouped, nil
}

func regroupBits(data []byte, conversionType conversionType) (regrouped []byte, invalidPadding bool) {
	// The final bytes, each byte encoding toBits bits.
	regrouped = make([]byte, 0, len(data)*int(conversionType.fromBits)/int(conversionType.toBits)+1)

	// Keep track of the next byte we create and how many bits we have
	// added to it out of the toBits goal.
	nextByte := uint16(0)
	filledBits := uint8(0)
	maxValue := uint16(1)<<conversionType.toBits - 1

	for _, b := range data {
		nextByte = nextByte<<conversionType.fromBits | uint16(b)
		filledBits += conversionType.fromBits
		for filledBits >= conversionType.toBits {
			filledBits -= conversionType.toBits
			regrouped = append(regrouped, byte(nextByte>>filledBits&maxValue))
		}
		nextByte &= 1<<filledBits - 1
	}

	// We pad any unfinished group if specified.
	if conversionType.pad && filledBits > 0 {
		regrouped = append(regrouped, byte(nextByte<<(conversionType.toBits-filledBits)&maxValue))
		return regrouped, false
	}

	// Without padding the left over bits must be fewer than a full input
	// group and all zero.
	invalidPadding = filledBits >= conversionType.fromBits || nextByte != 0
	return regrouped, invalidPadding
}

// The checksum is a 40 bits BCH code over the prefix and the data, where
// the prefix chars are reduced to their low 5 bits.
func calculateChecksum(prefix string, payload []byte) []byte {
	prefixLower5Bits := prefixToUint5Array(prefix)
	payloadInts := ints(payload)
	templateZeroes := []int{0, 0, 0, 0, 0, 0, 0, 0}

	// prefixLower5Bits + 0 + payloadInts + templateZeroes
	concat := append(prefixLower5Bits, 0)
	concat = append(concat, payloadInts...)
	concat = append(concat, templateZeroes...)

	polyModResult := polyMod(concat)
	var res []byte
	for i := 0; i < checksumLength; i++ {
		res = append(res, byte((polyModResult>>uint(5*(checksumLength-1-i)))&31))
	}

	return res
}

// For more details on the polymod calculation, please refer to BIP 173.
func polyMod(values []int) uint64 {
	checksum := uint64(1)
	for _, value := range values {
		topBits := checksum >> 35
		checksum = ((checksum & 0x07ffffffff) << 5) ^ uint64(value)
		for i := 0; i < len(generator); i++ {
			if ((topBits >> uint(i)) & 1) == 1 {
				checksum ^= generator[i]
			}
		}
	}

	return checksum ^ 1
}

// For more details on the checksum verification, please refer to BIP 173.
func verifyChecksum(prefix string, payload []byte) bool {
	prefixLower5Bits := prefixToUint5Array(prefix)
	payloadInts := ints(payload)

	// prefixLower5Bits + 0 + payloadInts
	dataToVerify := append(prefixLower5Bits, 0)
	dataToVerify = append(dataToVerify, payloadInts...)

	return polyMod(dataToVerify) == 0
}

func prefixToUint5Array(prefix string) []int {
	prefixLower5Bits := make([]int, len(prefix))
	for i := 0; i < len(prefix); i++ {
		char := prefix[i]
		charLower5Bits := int(char & 31)
		prefixLower5Bits[i] = charLower5Bits
	}

	return prefixLower5Bits
}

func ints(payload []byte) []int {
	payloadInts := make([]int, len(payload))
	for i, b := range payload {
		payloadInts[i] = int(b)
	}

	return payloadInts
}
