package util

import (
	"math/big"
	"regexp"

	"github.com/krcwallet/kaspacore/domain/consensus/utils/constants"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// kasDecimals is the number of decimal places in one KAS
const kasDecimals = 8

// amountFormat accepts integers or decimals with up to 8 fractional digits
var amountFormat = regexp.MustCompile(`^([1-9]\d{0,11}|0)(\.\d{0,8})?$`)

// ErrInvalidAmount is returned when an amount string can't be parsed
var ErrInvalidAmount = errors.New("invalid amount")

// Amount represents a sompi amount. One KAS is 100,000,000 sompi.
type Amount uint64

// ToKAS returns the amount as a decimal number of KAS.
func (a Amount) ToKAS() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(a)), -kasDecimals)
}

// String returns the amount in KAS with its unit, e.g. "0.5 KAS".
func (a Amount) String() string {
	return a.ToKAS().String() + " KAS"
}

// ValidateAmountFormat checks that amount is an integer or a decimal with
// up to 8 decimal places.
func ValidateAmountFormat(amount string) error {
	if !amountFormat.MatchString(amount) {
		return errors.Wrapf(ErrInvalidAmount, "%q is not a valid KAS amount", amount)
	}
	return nil
}

// KasToSompi converts a KAS amount string into sompi without going through
// floating point.
func KasToSompi(amount string) (uint64, error) {
	err := ValidateAmountFormat(amount)
	if err != nil {
		return 0, err
	}

	return ParseFixedPoint(amount, kasDecimals)
}

// ParseFixedPoint parses a non-negative decimal string and returns it scaled
// by 10^decimals. Amounts with more precision than decimals or that don't
// fit in a uint64 are rejected.
func ParseFixedPoint(amount string, decimals int32) (uint64, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q: %s", amount, err)
	}
	if value.IsNegative() {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q is negative", amount)
	}

	scaled := value.Shift(decimals)
	if !scaled.IsInteger() {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q has more than %d decimal places", amount, decimals)
	}

	scaledInt := scaled.BigInt()
	if !scaledInt.IsUint64() {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q is too large", amount)
	}
	return scaledInt.Uint64(), nil
}

// FormatKas takes the amount of sompis as uint64, and returns amount of KAS with 8 decimal places
func FormatKas(amount uint64) string {
	return Amount(amount).ToKAS().StringFixed(kasDecimals)
}

// ValidateSompiAmount returns an error wrapping ErrInvalidAmount if amount
// is above the total supply.
func ValidateSompiAmount(amount uint64) error {
	if amount > constants.MaxSompi {
		return errors.Wrapf(ErrInvalidAmount, "%d sompi exceeds the maximum of %d", amount, constants.MaxSompi)
	}
	return nil
}
