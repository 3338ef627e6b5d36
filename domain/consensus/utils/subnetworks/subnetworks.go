package subnetworks

import (
	"encoding/hex"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var (
	// SubnetworkIDNative is the default subnetwork ID which is used for transactions without related payload data
	SubnetworkIDNative = externalapi.DomainSubnetworkID{}

	// SubnetworkIDCoinbase is the subnetwork ID which is used for the coinbase transaction
	SubnetworkIDCoinbase = externalapi.DomainSubnetworkID{1}

	// SubnetworkIDRegistry is the subnetwork ID which is used for adding new sub networks to the registry
	SubnetworkIDRegistry = externalapi.DomainSubnetworkID{2}
)

// IsBuiltIn returns true if the subnetwork is a built in subnetwork, which
// means all nodes, including partial nodes, must validate it, and its transactions
// always use 0 gas.
func IsBuiltIn(id externalapi.DomainSubnetworkID) bool {
	return id == SubnetworkIDCoinbase || id == SubnetworkIDRegistry
}

// IsBuiltInOrNative returns true if the subnetwork is the native or a built in subnetwork,
// see IsBuiltIn for further details
func IsBuiltInOrNative(id externalapi.DomainSubnetworkID) bool {
	return id == SubnetworkIDNative || IsBuiltIn(id)
}

// FromBytes creates a DomainSubnetworkID from the given byte slice
func FromBytes(subnetworkIDBytes []byte) (*externalapi.DomainSubnetworkID, error) {
	if len(subnetworkIDBytes) != externalapi.DomainSubnetworkIDSize {
		return nil, errors.Errorf("invalid subnetwork ID size. Want: %d, got: %d",
			externalapi.DomainSubnetworkIDSize, len(subnetworkIDBytes))
	}
	var domainSubnetworkID externalapi.DomainSubnetworkID
	copy(domainSubnetworkID[:], subnetworkIDBytes)
	return &domainSubnetworkID, nil
}

// FromString creates a DomainSubnetworkID from its hex representation
func FromString(subnetworkIDString string) (*externalapi.DomainSubnetworkID, error) {
	subnetworkIDBytes, err := hex.DecodeString(subnetworkIDString)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid subnetwork ID %q", subnetworkIDString)
	}
	return FromBytes(subnetworkIDBytes)
}
