package dagconfig

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

type overrideDAGParamsConfig struct {
	K                              *json.Number `json:"k"`
	MaxBlockParents                *json.Number `json:"maxBlockParents"`
	PowMax                         *json.Number `json:"powMax"`
	TimestampDeviationTolerance    *json.Number `json:"timestampDeviationTolerance"`
	DifficultyAdjustmentWindowSize *json.Number `json:"difficultyAdjustmentWindowSize"`
	MergeSetSizeLimit              *json.Number `json:"mergeSetSizeLimit"`
	MergeDepth                     *json.Number `json:"mergeDepth"`
	FinalityDepth                  *json.Number `json:"finalityDepth"`
	PruningDepth                   *json.Number `json:"pruningDepth"`
	MaxCoinbasePayloadLength       *json.Number `json:"maxCoinbasePayloadLength"`
	MaxTxInputs                    *json.Number `json:"maxTxInputs"`
	MaxTxOutputs                   *json.Number `json:"maxTxOutputs"`
	MassPerTxByte                  *json.Number `json:"massPerTxByte"`
	MassPerScriptPubKeyByte        *json.Number `json:"massPerScriptPubKeyByte"`
	MassPerSigOp                   *json.Number `json:"massPerSigOp"`
	MaxBlockMass                   *json.Number `json:"maxBlockMass"`
	StorageMassParameter           *json.Number `json:"storageMassParameter"`
	KIP9ActivationDAAScore         *json.Number `json:"kip9ActivationDaaScore"`
	KIP10ActivationDAAScore        *json.Number `json:"kip10ActivationDaaScore"`
	DeflationaryPhaseDAAScore      *json.Number `json:"deflationaryPhaseDaaScore"`
	BlockCoinbaseMaturity          *json.Number `json:"blockCoinbaseMaturity"`
}

// ApplyOverrides reads a JSON object of parameter overrides from r and
// applies it to p. Every value is checked against the width of the field it
// overrides; unknown fields are rejected. p is left untouched on error.
func (p *Params) ApplyOverrides(r io.Reader) error {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	decoder.DisallowUnknownFields()

	config := &overrideDAGParamsConfig{}
	err := decoder.Decode(config)
	if err != nil {
		return errors.Wrapf(ErrParamsValidation, "couldn't decode params overrides: %s", err)
	}

	overridden := p.Clone()

	uint8Fields := []struct {
		name   string
		value  *json.Number
		target *KType
	}{
		{"k", config.K, &overridden.K},
		{"maxBlockParents", config.MaxBlockParents, &overridden.MaxBlockParents},
	}
	for _, field := range uint8Fields {
		if field.value == nil {
			continue
		}
		value, err := parseUnsigned(field.name, *field.value, 8)
		if err != nil {
			return err
		}
		*field.target = KType(value.Uint64())
	}

	uint64Fields := []struct {
		name   string
		value  *json.Number
		target *uint64
	}{
		{"timestampDeviationTolerance", config.TimestampDeviationTolerance, &overridden.TimestampDeviationTolerance},
		{"difficultyAdjustmentWindowSize", config.DifficultyAdjustmentWindowSize, &overridden.DifficultyAdjustmentWindowSize},
		{"mergeSetSizeLimit", config.MergeSetSizeLimit, &overridden.MergeSetSizeLimit},
		{"mergeDepth", config.MergeDepth, &overridden.MergeDepth},
		{"finalityDepth", config.FinalityDepth, &overridden.FinalityDepth},
		{"pruningDepth", config.PruningDepth, &overridden.PruningDepth},
		{"maxCoinbasePayloadLength", config.MaxCoinbasePayloadLength, &overridden.MaxCoinbasePayloadLength},
		{"maxTxInputs", config.MaxTxInputs, &overridden.MaxTxInputs},
		{"maxTxOutputs", config.MaxTxOutputs, &overridden.MaxTxOutputs},
		{"massPerTxByte", config.MassPerTxByte, &overridden.MassPerTxByte},
		{"massPerScriptPubKeyByte", config.MassPerScriptPubKeyByte, &overridden.MassPerScriptPubKeyByte},
		{"massPerSigOp", config.MassPerSigOp, &overridden.MassPerSigOp},
		{"maxBlockMass", config.MaxBlockMass, &overridden.MaxBlockMass},
		{"storageMassParameter", config.StorageMassParameter, &overridden.StorageMassParameter},
		{"kip9ActivationDaaScore", config.KIP9ActivationDAAScore, &overridden.KIP9ActivationDAAScore},
		{"kip10ActivationDaaScore", config.KIP10ActivationDAAScore, &overridden.KIP10ActivationDAAScore},
		{"deflationaryPhaseDaaScore", config.DeflationaryPhaseDAAScore, &overridden.DeflationaryPhaseDAAScore},
		{"blockCoinbaseMaturity", config.BlockCoinbaseMaturity, &overridden.BlockCoinbaseMaturity},
	}
	for _, field := range uint64Fields {
		if field.value == nil {
			continue
		}
		value, err := parseUnsigned(field.name, *field.value, 64)
		if err != nil {
			return err
		}
		*field.target = value.Uint64()
	}

	if config.PowMax != nil {
		overridden.PowMax, err = parseUnsigned("powMax", *config.PowMax, 256)
		if err != nil {
			return err
		}
	}

	err = overridden.Validate()
	if err != nil {
		return err
	}

	*p = *overridden
	return nil
}

// parseUnsigned parses number as a non-negative integer of at most bitSize
// bits
func parseUnsigned(name string, number json.Number, bitSize int) (*big.Int, error) {
	value, ok := new(big.Int).SetString(number.String(), 10)
	if !ok {
		return nil, errors.Wrapf(ErrParamsValidation, "%s: %s is not an integer", name, number)
	}
	if value.Sign() < 0 {
		return nil, errors.Wrapf(ErrParamsValidation, "%s: %s is negative", name, number)
	}
	if value.BitLen() > bitSize {
		return nil, errors.Wrapf(ErrParamsValidation, "%s: %s does not fit in a uint%d", name, number, bitSize)
	}
	return value, nil
}
