package dagconfig

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NetworkType identifies the kind of a Kaspa network
type NetworkType uint8

// Network types
const (
	Mainnet NetworkType = iota
	Testnet
	Simnet
	Devnet
)

var networkTypeNames = map[NetworkType]string{
	Mainnet: "mainnet",
	Testnet: "testnet",
	Simnet:  "simnet",
	Devnet:  "devnet",
}

func (networkType NetworkType) String() string {
	name, ok := networkTypeNames[networkType]
	if !ok {
		return "unknown-" + strconv.Itoa(int(networkType))
	}
	return name
}

// MarshalText renders the network type by name
func (networkType NetworkType) MarshalText() ([]byte, error) {
	return []byte(networkType.String()), nil
}

// NetworkID is a network type with an optional suffix. Only testnets
// carry a suffix.
type NetworkID struct {
	Type   NetworkType
	Suffix *uint32
}

// NewNetworkID returns the NetworkID of a network without suffix
func NewNetworkID(networkType NetworkType) NetworkID {
	return NetworkID{Type: networkType}
}

// NewNetworkIDWithSuffix returns the NetworkID of a suffixed network
func NewNetworkIDWithSuffix(networkType NetworkType, suffix uint32) NetworkID {
	return NetworkID{Type: networkType, Suffix: &suffix}
}

// String returns the network id as accepted by ParseNetworkID, for
// example "mainnet" or "testnet-10"
func (id NetworkID) String() string {
	if id.Suffix == nil {
		return id.Type.String()
	}
	return id.Type.String() + "-" + strconv.FormatUint(uint64(*id.Suffix), 10)
}

// Equal returns whether id and other name the same network
func (id NetworkID) Equal(other NetworkID) bool {
	if id.Type != other.Type {
		return false
	}
	if id.Suffix == nil || other.Suffix == nil {
		return id.Suffix == other.Suffix
	}
	return *id.Suffix == *other.Suffix
}

// ParseNetworkID parses strings of the form "<type>" or "<type>-<suffix>"
func ParseNetworkID(networkIDString string) (NetworkID, error) {
	typeString, suffixString, hasSuffix := strings.Cut(networkIDString, "-")

	var networkType NetworkType
	found := false
	for candidate, name := range networkTypeNames {
		if name == typeString {
			networkType = candidate
			found = true
			break
		}
	}
	if !found {
		return NetworkID{}, errors.Wrapf(ErrUnsupportedNetwork, "unknown network type %q", typeString)
	}

	if !hasSuffix {
		return NewNetworkID(networkType), nil
	}

	suffix, err := strconv.ParseUint(suffixString, 10, 32)
	if err != nil {
		return NetworkID{}, errors.Wrapf(ErrUnsupportedNetwork, "invalid network suffix %q", suffixString)
	}
	return NewNetworkIDWithSuffix(networkType, uint32(suffix)), nil
}

// ParamsForNetwork returns a copy of the params table that exactly matches
// networkID, including its suffix.
func ParamsForNetwork(networkID NetworkID) (*Params, error) {
	for _, params := range knownParams {
		if params.NetworkID().Equal(networkID) {
			return params.Clone(), nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedNetwork, "no params for network %s", networkID)
}
