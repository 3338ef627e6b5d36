package serialization

import (
	"bytes"
	"testing"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

func TestWriteElements(t *testing.T) {
	buf := &bytes.Buffer{}
	subnetworkID := externalapi.DomainSubnetworkID{1}
	err := WriteElements(buf, uint16(1), uint8(2), true, []byte{0xaa}, subnetworkID)
	if err != nil {
		t.Fatalf("WriteElements: %s", err)
	}

	expected := []byte{
		0x01, 0x00,
		0x02,
		0x01,
		0x01, 0, 0, 0, 0, 0, 0, 0, 0xaa,
		0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Fatalf("unexpected serialization.\nexpected: %x\ngot:      %x", expected, buf.Bytes())
	}
}

func TestWriteElementUnknownType(t *testing.T) {
	err := WriteElement(&bytes.Buffer{}, "not serializable")
	if !errors.Is(err, errNoEncodingForType) {
		t.Fatalf("expected errNoEncodingForType, got %v", err)
	}
}
