package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/pkg/errors"
)

func TestResolveNetwork(t *testing.T) {
	tests := []struct {
		name            string
		flags           NetworkFlags
		expectedNetwork string
		expectError     bool
	}{
		{name: "default", flags: NetworkFlags{}, expectedNetwork: "mainnet"},
		{name: "testnet", flags: NetworkFlags{Testnet: true}, expectedNetwork: "testnet-10"},
		{name: "testnet 11", flags: NetworkFlags{Testnet: true, NetSuffix: 11}, expectedNetwork: "testnet-11"},
		{name: "simnet", flags: NetworkFlags{Simnet: true}, expectedNetwork: "simnet"},
		{name: "devnet", flags: NetworkFlags{Devnet: true}, expectedNetwork: "devnet"},
		{name: "two networks", flags: NetworkFlags{Testnet: true, Devnet: true}, expectError: true},
		{name: "suffix without testnet", flags: NetworkFlags{NetSuffix: 11}, expectError: true},
		{name: "unknown testnet", flags: NetworkFlags{Testnet: true, NetSuffix: 12}, expectError: true},
		{name: "overrides outside devnet", flags: NetworkFlags{Simnet: true, OverrideDAGParamsFile: "params.json"},
			expectError: true},
	}

	for _, test := range tests {
		flags := test.flags
		err := flags.ResolveNetwork(nil)
		if test.expectError {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: ResolveNetwork unexpectedly failed: %+v", test.name, err)
			continue
		}
		if flags.NetworkID().String() != test.expectedNetwork {
			t.Errorf("%s: expected network %s, got %s", test.name, test.expectedNetwork, flags.NetworkID())
		}
	}
}

func TestResolveNetworkDoesntModifyTables(t *testing.T) {
	flags := NetworkFlags{}
	err := flags.ResolveNetwork(nil)
	if err != nil {
		t.Fatalf("ResolveNetwork: %+v", err)
	}
	flags.NetParams().MassPerTxByte = 12345
	if dagconfig.MainnetParams.MassPerTxByte == 12345 {
		t.Fatalf("the mainnet params table was modified through the resolved params")
	}
}

func TestOverrideDAGParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	err := os.WriteFile(path, []byte(`{"massPerTxByte": 2, "maxBlockMass": 1000000}`), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	flags := NetworkFlags{Devnet: true, OverrideDAGParamsFile: path}
	err = flags.ResolveNetwork(nil)
	if err != nil {
		t.Fatalf("ResolveNetwork: %+v", err)
	}
	if flags.NetParams().MassPerTxByte != 2 || flags.NetParams().MaxBlockMass != 1_000_000 {
		t.Fatalf("overrides weren't applied: mass per tx byte %d, max block mass %d",
			flags.NetParams().MassPerTxByte, flags.NetParams().MaxBlockMass)
	}

	err = os.WriteFile(path, []byte(`{"k": 256}`), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}
	flags = NetworkFlags{Devnet: true, OverrideDAGParamsFile: path}
	err = flags.ResolveNetwork(nil)
	if !errors.Is(err, dagconfig.ErrParamsValidation) {
		t.Fatalf("expected an out of range k to fail validation, got %v", err)
	}
}
