package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/pkg/errors"
)

// defaultTestnetSuffix is the testnet selected by --testnet without --netsuffix
const defaultTestnetSuffix = 10

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet               bool   `long:"testnet" description:"Use the test network"`
	NetSuffix             uint32 `long:"netsuffix" description:"Testnet network suffix number"`
	Simnet                bool   `long:"simnet" description:"Use the simulation test network"`
	Devnet                bool   `long:"devnet" description:"Use the development test network"`
	OverrideDAGParamsFile string `long:"override-dag-params-file" description:"Overrides DAG params (allowed only on devnet)"`

	ActiveNetParams *dagconfig.Params
}

// ResolveNetwork parses the network command line argument and sets NetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
// parser may be nil, in which case no help is printed on error.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	networkID := dagconfig.NewNetworkID(dagconfig.Mainnet)
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		suffix := networkFlags.NetSuffix
		if suffix == 0 {
			suffix = defaultTestnetSuffix
		}
		networkID = dagconfig.NewNetworkIDWithSuffix(dagconfig.Testnet, suffix)
	}
	if networkFlags.Simnet {
		numNets++
		networkID = dagconfig.NewNetworkID(dagconfig.Simnet)
	}
	if networkFlags.Devnet {
		numNets++
		networkID = dagconfig.NewNetworkID(dagconfig.Devnet)
	}
	if numNets > 1 {
		return networkFlags.reportError(parser, errors.Errorf("multiple networks parameters "+
			"(testnet, simnet, devnet, etc.) cannot be used together. Please choose only one network"))
	}
	if networkFlags.NetSuffix != 0 && !networkFlags.Testnet {
		return networkFlags.reportError(parser, errors.Errorf("--netsuffix is only allowed with --testnet"))
	}

	params, err := dagconfig.ParamsForNetwork(networkID)
	if err != nil {
		return networkFlags.reportError(parser, err)
	}
	networkFlags.ActiveNetParams = params

	return networkFlags.overrideDAGParams()
}

func (networkFlags *NetworkFlags) reportError(parser *flags.Parser, err error) error {
	if parser != nil {
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
	}
	return err
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *dagconfig.Params {
	return networkFlags.ActiveNetParams
}

// NetworkID returns the ID of the selected network
func (networkFlags *NetworkFlags) NetworkID() dagconfig.NetworkID {
	return networkFlags.ActiveNetParams.NetworkID()
}

func (networkFlags *NetworkFlags) overrideDAGParams() error {
	if networkFlags.OverrideDAGParamsFile == "" {
		return nil
	}

	if !networkFlags.Devnet {
		return errors.Errorf("override-dag-params-file is allowed only when using devnet")
	}

	overrideDAGParamsFile, err := os.Open(networkFlags.OverrideDAGParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideDAGParamsFile.Close()

	return networkFlags.ActiveNetParams.ApplyOverrides(overrideDAGParamsFile)
}
