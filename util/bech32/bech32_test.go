package bech32

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

var validEncodings = []struct {
	prefix  string
	payload string
	version byte
	encoded string
}{
	{"kaspa", strings.Repeat("00", 32), 0,
		"kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e"},
	{"kaspatest", strings.Repeat("00", 32), 0,
		"kaspatest:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqhqrxplya"},
	{"kaspa", strings.Repeat("00", 32), 8,
		"kaspa:pqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqlmtfk4dg"},
	{"kaspa", strings.Repeat("00", 33), 1,
		"kaspa:qyqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqudzvdn9c"},
	{"a", "", 0, "a:qqeq69uvrh"},
	{"b", "010203", 0, "b:qqqsyqcql5jrt85"},
	{"kaspa", "5fff3c4da18f45adcdd499e44611e9fff148ba69db3c4ea2ddd955fc46a59522", 0,
		"kaspa:qp0l70zd5x85ttwd6jv7g3s3a8llzj96d8dncn4zmhv4tlzx5k2jyqh70xmfj"},
	{"kaspa", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", 0,
		"kaspa:qqqqzqsrqszsvpcgpy9qkrqdpc83qygjzv2p29shrqv35xcur50p7u4jhsajr"},
	{"kaspatest", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20", 1,
		"kaspatest:qyqqzqsrqszsvpcgpy9qkrqdpc83qygjzv2p29shrqv35xcur50p7gqw9qds2q3"},
	{"kaspasim", strings.Repeat("ff", 32), 8,
		"kaspasim:prllllllllllllllllllllllllllllllllllllllllllllllllll7tr4hmqhp"},
	{"kaspadev", strings.Repeat("07", 32), 0,
		"kaspadev:qqrswpc8qurswpc8qurswpc8qurswpc8qurswpc8qurswpc8qursw43pc2wwu"},
}

func TestEncodeDecode(t *testing.T) {
	for _, test := range validEncodings {
		payload, err := hex.DecodeString(test.payload)
		if err != nil {
			t.Fatalf("hex.DecodeString: %s", err)
		}

		encoded := Encode(test.prefix, payload, test.version)
		if encoded != test.encoded {
			t.Errorf("Encode(%s, %x, %d): expected %s, got %s",
				test.prefix, payload, test.version, test.encoded, encoded)
		}

		prefix, decodedPayload, version, err := Decode(test.encoded)
		if err != nil {
			t.Errorf("Decode(%s): unexpected error: %s", test.encoded, err)
			continue
		}
		if prefix != test.prefix {
			t.Errorf("Decode(%s): expected prefix %s, got %s", test.encoded, test.prefix, prefix)
		}
		if !bytes.Equal(decodedPayload, payload) {
			t.Errorf("Decode(%s): expected payload %x, got %x", test.encoded, payload, decodedPayload)
		}
		if version != test.version {
			t.Errorf("Decode(%s): expected version %d, got %d", test.encoded, test.version, version)
		}
	}
}

func TestDecodeUppercase(t *testing.T) {
	prefix, payload, version, err := Decode("KASPA:QQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQKX9AWP4E")
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	if prefix != "kaspa" || version != 0 || !bytes.Equal(payload, make([]byte, 32)) {
		t.Fatalf("unexpected decode result %s %d %x", prefix, version, payload)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"no separator", "kaspaqqqqqqqqqqqqqqqq"},
		{"empty prefix", ":qqeq69uvrh"},
		{"data shorter than checksum", "a:qqeq69u"},
		{"mixed case", "kaspa:Qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e"},
		{"character outside charset", "kaspa:bqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e"},
		{"wrong prefix", "kaspatest:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e"},
		{"non zero padding", "a:qp2rrw90sk"},
		{"too many padding bits", "a:qqq9cvf9pnc"},
		{"no version byte", "a:3x3dxu9w"},
	}

	for _, test := range tests {
		_, _, _, err := Decode(test.encoded)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%s: expected ErrDecode, got %v", test.name, err)
		}
	}
}

func TestDecodeSingleCharacterFlip(t *testing.T) {
	for _, test := range validEncodings {
		colonIndex := strings.LastIndexByte(test.encoded, ':')
		for i := colonIndex + 1; i < len(test.encoded); i++ {
			for j := 0; j < len(charset); j++ {
				if charset[j] == test.encoded[i] {
					continue
				}
				flipped := test.encoded[:i] + string(charset[j]) + test.encoded[i+1:]
				_, _, _, err := Decode(flipped)
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("flipping position %d of %s to %c was not detected", i, test.encoded, charset[j])
				}
			}
		}
	}
}
