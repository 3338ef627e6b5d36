package generator

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/krcwallet/kaspacore/util"
)

// Fees is a fee amount in sompi. Zero means the fee is calculated from the
// fee rate.
type Fees uint64

const (
	// DefaultMaximumTransactionMass is the largest mass of a transaction
	// the mempool considers standard
	DefaultMaximumTransactionMass uint64 = 100_000

	// MinimumRelayFeeRate is the lowest fee rate, in sompi per gram of mass,
	// nodes relay transactions with
	MinimumRelayFeeRate = 1.0

	defaultSigOpCount        = 1
	defaultMinimumSignatures = 1
)

// PaymentOutput pays Amount sompi to Address
type PaymentOutput struct {
	Address util.Address
	Amount  uint64
}

// KRC20RevealSettings marks a generator run as the reveal of a KRC20
// commit. One of the priority entries must spend an output of
// CommitTransactionID.
type KRC20RevealSettings struct {
	CommitTransactionID *externalapi.DomainTransactionID
}

// Settings configure a single generator run. A Settings value is never
// modified by the generator.
type Settings struct {
	// Outputs are the payments of the final transaction. They may be empty,
	// in which case everything is sent to the change address.
	Outputs       []*PaymentOutput
	ChangeAddress util.Address

	// ChangeRedeemScript is required when ChangeAddress is a script hash
	// address and batch transactions recycle change outputs.
	ChangeRedeemScript []byte

	// PriorityEntries are spent before Entries. Both are consumed in order.
	Entries         []*UTXO
	PriorityEntries []*UTXO

	NetworkID dagconfig.NetworkID

	PriorityFee Fees

	// FeeRate is the fee rate in sompi per gram of mass. Zero means
	// MinimumRelayFeeRate.
	FeeRate float64

	// SigOpCount is the signature operation count of every input. Zero
	// means one.
	SigOpCount uint8

	// MinimumSignatures is the number of signatures every input's signature
	// script carries. Zero means one.
	MinimumSignatures uint16

	Payload []byte

	KRC20Reveal *KRC20RevealSettings

	// MaximumTransactionMass caps the mass of every generated transaction.
	// Zero means DefaultMaximumTransactionMass.
	MaximumTransactionMass uint64

	// DAAScore is the virtual DAA score the transactions are built for. It
	// decides whether storage mass applies. Zero means the latest rules.
	DAAScore uint64
}

func (s *Settings) withPriorityFee(priorityFee Fees) *Settings {
	clone := *s
	clone.PriorityFee = priorityFee
	return &clone
}

func (s *Settings) sigOpCount() uint8 {
	if s.SigOpCount == 0 {
		return defaultSigOpCount
	}
	return s.SigOpCount
}

func (s *Settings) minimumSignatures() uint16 {
	if s.MinimumSignatures == 0 {
		return defaultMinimumSignatures
	}
	return s.MinimumSignatures
}

func (s *Settings) feeRate() float64 {
	if s.FeeRate == 0 {
		return MinimumRelayFeeRate
	}
	return s.FeeRate
}
