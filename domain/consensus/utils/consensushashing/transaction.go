package consensushashing

import (
	"io"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/hashes"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/serialization"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/transactionhelper"
	"github.com/pkg/errors"
)

// txEncoding is a bitmask defining which transaction fields we
// want to encode and which to ignore.
type txEncoding uint8

const (
	txEncodingFull txEncoding = 0

	txEncodingExcludeSignatureScript txEncoding = 1 << iota
)

// TransactionHash returns the transaction hash, which commits to every
// field of the transaction including signature scripts. The mass is
// appended only when includeMassField is set and tx.Mass is not zero.
func TransactionHash(tx *externalapi.DomainTransaction, includeMassField bool) *externalapi.DomainHash {
	writer := hashes.NewTransactionHashWriter()
	err := serializeTransaction(writer, tx, txEncodingFull, includeMassField)
	if err != nil {
		// It seems like this could only happen if the writer returned an error.
		// and this writer should never return an error (no allocations or possible failures)
		// the only non-writer error path here is unknown types in `WriteElement`
		panic(errors.Wrap(err, "TransactionHash() failed. this should never fail for structurally-valid transactions"))
	}

	return writer.Finalize()
}

// TransactionID generates the Hash for the transaction without the signature scripts.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	// Coinbase signature scripts are part of the ID.
	encodingFlags := txEncodingFull
	if !transactionhelper.IsCoinBase(tx) {
		encodingFlags = txEncodingExcludeSignatureScript
	}
	writer := hashes.NewTransactionIDWriter()
	err := serializeTransaction(writer, tx, encodingFlags, false)
	if err != nil {
		// this writer never return errors (no allocations or possible failures) so errors can only come from validity checks,
		// and we assume we never construct malformed transactions.
		panic(errors.Wrap(err, "TransactionID() failed. this should never fail for structurally-valid transactions"))
	}
	transactionID := externalapi.DomainTransactionID(*writer.Finalize())
	return &transactionID
}

// TransactionIDs converts the provided slice of DomainTransactions
// to a corresponding slice of TransactionIDs
func TransactionIDs(txs []*externalapi.DomainTransaction) []*externalapi.DomainTransactionID {
	txIDs := make([]*externalapi.DomainTransactionID, len(txs))
	for i, tx := range txs {
		txIDs[i] = TransactionID(tx)
	}
	return txIDs
}

func serializeTransaction(w io.Writer, tx *externalapi.DomainTransaction, encodingFlags txEncoding,
	includeMassField bool) error {

	err := serialization.WriteElements(w, tx.Version, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}

	for _, input := range tx.Inputs {
		err = writeTransactionInput(w, input, encodingFlags)
		if err != nil {
			return err
		}
	}

	err = serialization.WriteElement(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}

	for _, output := range tx.Outputs {
		err = writeTransactionOutput(w, output)
		if err != nil {
			return err
		}
	}

	err = serialization.WriteElements(w, tx.LockTime, tx.SubnetworkID, tx.Gas, tx.Payload)
	if err != nil {
		return err
	}

	if includeMassField && tx.Mass != 0 {
		return serialization.WriteElement(w, tx.Mass)
	}

	return nil
}

// writeTransactionInput encodes input to the kaspa protocol encoding for a transaction
// input to w.
func writeTransactionInput(w io.Writer, input *externalapi.DomainTransactionInput, encodingFlags txEncoding) error {
	err := writeOutpoint(w, &input.PreviousOutpoint)
	if err != nil {
		return err
	}

	if encodingFlags&txEncodingExcludeSignatureScript != txEncodingExcludeSignatureScript {
		err = serialization.WriteElements(w, input.SignatureScript, input.SigOpCount)
	} else {
		err = serialization.WriteElement(w, []byte{})
	}
	if err != nil {
		return err
	}

	return serialization.WriteElement(w, input.Sequence)
}

func writeOutpoint(w io.Writer, outpoint *externalapi.DomainOutpoint) error {
	return serialization.WriteElements(w, &outpoint.TransactionID, outpoint.Index)
}

func writeTransactionOutput(w io.Writer, output *externalapi.DomainTransactionOutput) error {
	err := serialization.WriteElement(w, output.Value)
	if err != nil {
		return err
	}

	return writeScriptPublicKey(w, output.ScriptPublicKey)
}

func writeScriptPublicKey(w io.Writer, scriptPublicKey *externalapi.ScriptPublicKey) error {
	return serialization.WriteElements(w, scriptPublicKey.Version, scriptPublicKey.Script)
}
