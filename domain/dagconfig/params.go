// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"math/big"
	"time"

	"github.com/krcwallet/kaspacore/domain/consensus/utils/constants"
	"github.com/krcwallet/kaspacore/util"
	"github.com/pkg/errors"
)

// These variables are the DAG proof-of-work limit parameters for each default
// network.
var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// mainPowMax is the highest proof of work value a Kaspa block can
	// have for the main network. It is the value 2^255 - 1.
	mainPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	// testnetPowMax is the highest proof of work value a Kaspa block
	// can have for the test network. It is the value 2^255 - 1.
	testnetPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	// simnetPowMax is the highest proof of work value a Kaspa block
	// can have for the simulation test network. It is the value 2^255 - 1.
	simnetPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	// devnetPowMax is the highest proof of work value a Kaspa block
	// can have for the development network. It is the value
	// 2^255 - 1.
	devnetPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	// maxUint256 is the largest value a u256 parameter may hold
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 256), bigOne)
)

const (
	defaultGHOSTDAGK                      = 18
	defaultTimestampDeviationTolerance    = 132
	defaultDifficultyAdjustmentWindowSize = 2641
	defaultMaxBlockParents                = 10
	defaultMergeSetSizeLimit              = 180
	defaultMergeDepth                     = 3600
	defaultFinalityDepth                  = 86400
	defaultPruningDepth                   = 185798
	defaultTargetTimePerBlock             = 1 * time.Second
	defaultMaxCoinbasePayloadLength       = 204
	defaultMaxTxInputs                    = 1_000_000_000
	defaultMaxTxOutputs                   = 1_000_000_000
	defaultMassPerTxByte                  = 1
	defaultMassPerScriptPubKeyByte        = 10
	defaultMassPerSigOp                   = 1000
	defaultMaxBlockMass                   = 500_000
	defaultBlockCoinbaseMaturity          = 100
	defaultDeflationaryPhaseDAAScore      = 15_519_600

	// defaultStorageMassParameter is the C constant of the KIP9 storage
	// mass formula
	defaultStorageMassParameter = constants.SompiPerKaspa * 10_000
)

// KType defines the size of GHOSTDAG consensus algorithm K parameter.
type KType uint8

// Params defines a Kaspa network by its parameters. These parameters may be
// used by Kaspa applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// K defines the K parameter for GHOSTDAG consensus algorithm.
	K KType `json:"k"`

	// Name defines a human-readable identifier for the network.
	Name string `json:"name"`

	// Net is the network type, and NetSuffix distinguishes testnets.
	Net       NetworkType `json:"net"`
	NetSuffix uint32      `json:"netSuffix,omitempty"`

	// Human-readable prefix for Bech32 encoded addresses
	Prefix util.Bech32Prefix `json:"-"`

	// PowMax defines the highest allowed proof of work value for a block
	// as a uint256.
	PowMax *big.Int `json:"powMax"`

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration `json:"targetTimePerBlock"`

	// TimestampDeviationTolerance is the maximum offset a block timestamp
	// is allowed to be in the future before it gets delayed
	TimestampDeviationTolerance uint64 `json:"timestampDeviationTolerance"`

	// DifficultyAdjustmentWindowSize is the size of window that is inspected
	// to calculate the required difficulty of each block.
	DifficultyAdjustmentWindowSize uint64 `json:"difficultyAdjustmentWindowSize"`

	// MaxBlockParents is the maximum number of blocks a block can reference
	MaxBlockParents KType `json:"maxBlockParents"`

	// MergeSetSizeLimit is the maximum number of blocks in a block's merge set
	MergeSetSizeLimit uint64 `json:"mergeSetSizeLimit"`

	MergeDepth    uint64 `json:"mergeDepth"`
	FinalityDepth uint64 `json:"finalityDepth"`
	PruningDepth  uint64 `json:"pruningDepth"`

	// MaxCoinbasePayloadLength is the maximum length in bytes allowed for a block's coinbase's payload
	MaxCoinbasePayloadLength uint64 `json:"maxCoinbasePayloadLength"`

	MaxTxInputs  uint64 `json:"maxTxInputs"`
	MaxTxOutputs uint64 `json:"maxTxOutputs"`

	// MassPerTxByte is the number of grams that any byte
	// adds to a transaction.
	MassPerTxByte uint64 `json:"massPerTxByte"`

	// MassPerScriptPubKeyByte is the number of grams that any
	// scriptPubKey byte adds to a transaction.
	MassPerScriptPubKeyByte uint64 `json:"massPerScriptPubKeyByte"`

	// MassPerSigOp is the number of grams that any
	// signature operation adds to a transaction.
	MassPerSigOp uint64 `json:"massPerSigOp"`

	// MaxBlockMass is the maximum mass a block, and thus any single
	// transaction, may have.
	MaxBlockMass uint64 `json:"maxBlockMass"`

	// StorageMassParameter is the C constant of the KIP9 storage mass.
	StorageMassParameter uint64 `json:"storageMassParameter"`

	// KIP9ActivationDAAScore is the DAA score from which storage mass is
	// part of the transaction mass.
	KIP9ActivationDAAScore uint64 `json:"kip9ActivationDaaScore"`

	// KIP10ActivationDAAScore is the DAA score from which the KIP10
	// introspection opcodes are enabled.
	KIP10ActivationDAAScore uint64 `json:"kip10ActivationDaaScore"`

	// DeflationaryPhaseDAAScore is the DAA score after which the monetary
	// policy switches to its deflationary phase
	DeflationaryPhaseDAAScore uint64 `json:"deflationaryPhaseDaaScore"`

	// BlockCoinbaseMaturity is the number of blocks required before newly mined
	// coins can be spent.
	BlockCoinbaseMaturity uint64 `json:"blockCoinbaseMaturity"`
}

// NetworkID returns the identifier this params table is selected by
func (p *Params) NetworkID() NetworkID {
	if p.Net == Testnet {
		suffix := p.NetSuffix
		return NetworkID{Type: p.Net, Suffix: &suffix}
	}
	return NetworkID{Type: p.Net}
}

// IsKIP9Active returns whether storage mass applies at daaScore
func (p *Params) IsKIP9Active(daaScore uint64) bool {
	return daaScore >= p.KIP9ActivationDAAScore
}

// Clone returns a deep copy of p
func (p *Params) Clone() *Params {
	clone := *p
	if p.PowMax != nil {
		clone.PowMax = new(big.Int).Set(p.PowMax)
	}
	return &clone
}

// Validate makes sure every parameter fits its declared width and that
// the mass weights are usable.
func (p *Params) Validate() error {
	if p.Name == "" {
		return errors.Wrapf(ErrParamsValidation, "network name is empty")
	}
	if p.PowMax == nil || p.PowMax.Sign() < 0 || p.PowMax.Cmp(maxUint256) > 0 {
		return errors.Wrapf(ErrParamsValidation, "%s: powMax %s does not fit in a uint256", p.Name, p.PowMax)
	}
	if p.K == 0 {
		return errors.Wrapf(ErrParamsValidation, "%s: k must be positive", p.Name)
	}
	if p.MaxBlockParents == 0 {
		return errors.Wrapf(ErrParamsValidation, "%s: maxBlockParents must be positive", p.Name)
	}
	if p.MassPerTxByte == 0 || p.MassPerScriptPubKeyByte == 0 || p.MassPerSigOp == 0 {
		return errors.Wrapf(ErrParamsValidation, "%s: mass weights must be positive", p.Name)
	}
	if p.MaxBlockMass == 0 {
		return errors.Wrapf(ErrParamsValidation, "%s: maxBlockMass must be positive", p.Name)
	}
	if p.StorageMassParameter == 0 {
		return errors.Wrapf(ErrParamsValidation, "%s: storageMassParameter must be positive", p.Name)
	}
	if p.Prefix == util.Bech32PrefixUnknown {
		return errors.Wrapf(ErrParamsValidation, "%s: address prefix is unknown", p.Name)
	}
	return nil
}

// MainnetParams defines the network parameters for the main Kaspa network.
var MainnetParams = Params{
	K:      defaultGHOSTDAGK,
	Name:   "kaspa-mainnet",
	Net:    Mainnet,
	Prefix: util.Bech32PrefixKaspa,

	PowMax:                         mainPowMax,
	TargetTimePerBlock:             defaultTargetTimePerBlock,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxBlockParents:                defaultMaxBlockParents,
	MergeSetSizeLimit:              defaultMergeSetSizeLimit,
	MergeDepth:                     defaultMergeDepth,
	FinalityDepth:                  defaultFinalityDepth,
	PruningDepth:                   defaultPruningDepth,
	MaxCoinbasePayloadLength:       defaultMaxCoinbasePayloadLength,
	MaxTxInputs:                    defaultMaxTxInputs,
	MaxTxOutputs:                   defaultMaxTxOutputs,
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	MaxBlockMass:                   defaultMaxBlockMass,
	StorageMassParameter:           defaultStorageMassParameter,

	// Crescendo hardfork
	KIP9ActivationDAAScore:  110_165_000,
	KIP10ActivationDAAScore: 110_165_000,

	DeflationaryPhaseDAAScore: defaultDeflationaryPhaseDAAScore,
	BlockCoinbaseMaturity:     defaultBlockCoinbaseMaturity,
}

// TestnetParams defines the network parameters for testnet-10.
var TestnetParams = Params{
	K:         defaultGHOSTDAGK,
	Name:      "kaspa-testnet-10",
	Net:       Testnet,
	NetSuffix: 10,
	Prefix:    util.Bech32PrefixKaspaTest,

	PowMax:                         testnetPowMax,
	TargetTimePerBlock:             defaultTargetTimePerBlock,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxBlockParents:                defaultMaxBlockParents,
	MergeSetSizeLimit:              defaultMergeSetSizeLimit,
	MergeDepth:                     defaultMergeDepth,
	FinalityDepth:                  defaultFinalityDepth,
	PruningDepth:                   defaultPruningDepth,
	MaxCoinbasePayloadLength:       defaultMaxCoinbasePayloadLength,
	MaxTxInputs:                    defaultMaxTxInputs,
	MaxTxOutputs:                   defaultMaxTxOutputs,
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	MaxBlockMass:                   defaultMaxBlockMass,
	StorageMassParameter:           defaultStorageMassParameter,

	KIP9ActivationDAAScore:  88_657_000,
	KIP10ActivationDAAScore: 88_657_000,

	DeflationaryPhaseDAAScore: defaultDeflationaryPhaseDAAScore,
	BlockCoinbaseMaturity:     defaultBlockCoinbaseMaturity,
}

// Testnet11Params defines the network parameters for testnet-11, which runs
// at 10 blocks per second.
var Testnet11Params = Params{
	K:         124,
	Name:      "kaspa-testnet-11",
	Net:       Testnet,
	NetSuffix: 11,
	Prefix:    util.Bech32PrefixKaspaTest,

	PowMax:                         testnetPowMax,
	TargetTimePerBlock:             100 * time.Millisecond,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxBlockParents:                16,
	MergeSetSizeLimit:              248,
	MergeDepth:                     36_000,
	FinalityDepth:                  432_000,
	PruningDepth:                   1_080_000,
	MaxCoinbasePayloadLength:       defaultMaxCoinbasePayloadLength,
	MaxTxInputs:                    defaultMaxTxInputs,
	MaxTxOutputs:                   defaultMaxTxOutputs,
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	MaxBlockMass:                   defaultMaxBlockMass,
	StorageMassParameter:           defaultStorageMassParameter,

	KIP9ActivationDAAScore:  0,
	KIP10ActivationDAAScore: 0,

	DeflationaryPhaseDAAScore: defaultDeflationaryPhaseDAAScore * 10,
	BlockCoinbaseMaturity:     defaultBlockCoinbaseMaturity * 10,
}

// SimnetParams defines the network parameters for the simulation test Kaspa
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing.
var SimnetParams = Params{
	K:      defaultGHOSTDAGK,
	Name:   "kaspa-simnet",
	Net:    Simnet,
	Prefix: util.Bech32PrefixKaspaSim,

	PowMax:                         simnetPowMax,
	TargetTimePerBlock:             time.Millisecond,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxBlockParents:                defaultMaxBlockParents,
	MergeSetSizeLimit:              defaultMergeSetSizeLimit,
	MergeDepth:                     defaultMergeDepth,
	FinalityDepth:                  defaultFinalityDepth,
	PruningDepth:                   defaultPruningDepth,
	MaxCoinbasePayloadLength:       defaultMaxCoinbasePayloadLength,
	MaxTxInputs:                    defaultMaxTxInputs,
	MaxTxOutputs:                   defaultMaxTxOutputs,
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	MaxBlockMass:                   defaultMaxBlockMass,
	StorageMassParameter:           defaultStorageMassParameter,

	KIP9ActivationDAAScore:  0,
	KIP10ActivationDAAScore: 0,

	DeflationaryPhaseDAAScore: defaultDeflationaryPhaseDAAScore,
	BlockCoinbaseMaturity:     defaultBlockCoinbaseMaturity,
}

// DevnetParams defines the network parameters for the development Kaspa network.
var DevnetParams = Params{
	K:      defaultGHOSTDAGK,
	Name:   "kaspa-devnet",
	Net:    Devnet,
	Prefix: util.Bech32PrefixKaspaDev,

	PowMax:                         devnetPowMax,
	TargetTimePerBlock:             defaultTargetTimePerBlock,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxBlockParents:                defaultMaxBlockParents,
	MergeSetSizeLimit:              defaultMergeSetSizeLimit,
	MergeDepth:                     defaultMergeDepth,
	FinalityDepth:                  defaultFinalityDepth,
	PruningDepth:                   defaultPruningDepth,
	MaxCoinbasePayloadLength:       defaultMaxCoinbasePayloadLength,
	MaxTxInputs:                    defaultMaxTxInputs,
	MaxTxOutputs:                   defaultMaxTxOutputs,
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	MaxBlockMass:                   defaultMaxBlockMass,
	StorageMassParameter:           defaultStorageMassParameter,

	KIP9ActivationDAAScore:  0,
	KIP10ActivationDAAScore: 0,

	DeflationaryPhaseDAAScore: defaultDeflationaryPhaseDAAScore,
	BlockCoinbaseMaturity:     defaultBlockCoinbaseMaturity,
}

// knownParams are the tables ParamsForNetwork selects from
var knownParams = []*Params{&MainnetParams, &TestnetParams, &Testnet11Params, &SimnetParams, &DevnetParams}

// mustValidate performs the same function as Validate except it panics if there
// is an error. This should only be called from package init functions.
func mustValidate(params *Params) {
	if err := params.Validate(); err != nil {
		panic("invalid network params: " + err.Error())
	}
}

func init() {
	for _, params := range knownParams {
		mustValidate(params)
	}
}
