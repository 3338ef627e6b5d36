package generator

import (
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
)

// Summary reports on a generator run. FinalTransactionAmount and
// FinalTransactionID are set once the final transaction is generated.
type Summary struct {
	NetworkID                     dagconfig.NetworkID
	AggregatedUTXOs               int
	AggregatedFees                uint64
	NumberOfGeneratedTransactions int
	FinalTransactionAmount        *uint64
	FinalTransactionID            *externalapi.DomainTransactionID
}

// Clone returns a deep copy of the summary
func (s *Summary) Clone() *Summary {
	clone := *s
	if s.FinalTransactionAmount != nil {
		amount := *s.FinalTransactionAmount
		clone.FinalTransactionAmount = &amount
	}
	if s.FinalTransactionID != nil {
		clone.FinalTransactionID = s.FinalTransactionID.Clone()
	}
	return &clone
}

func (s *Summary) add(pendingTransaction *PendingTransaction, originalUTXOCount int) {
	s.AggregatedUTXOs += originalUTXOCount
	s.AggregatedFees += pendingTransaction.Fee()
	s.NumberOfGeneratedTransactions++
	if pendingTransaction.Kind() == KindFinal {
		amount := pendingTransaction.PaymentAmount()
		s.FinalTransactionAmount = &amount
		s.FinalTransactionID = pendingTransaction.ID()
	}
}
