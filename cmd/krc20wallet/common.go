package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"

	"github.com/krcwallet/kaspacore/app/appmessage"
	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/txscript"
	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/krcwallet/kaspacore/domain/wallet/generator"
	"github.com/krcwallet/kaspacore/util"
)

func readJSONFile(path string, v interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	err = json.Unmarshal(content, v)
	if err != nil {
		return errors.Wrapf(err, "malformed JSON in %s", path)
	}
	return nil
}

func isUTXOSpendable(entry externalapi.UTXOEntry, virtualDAAScore uint64, coinbaseMaturity uint64) bool {
	if !entry.IsCoinbase() || virtualDAAScore == 0 {
		return true
	}
	return entry.BlockDAAScore()+coinbaseMaturity < virtualDAAScore
}

// loadUTXOs reads the UTXOs of a getUtxosByAddresses response, keeping
// only the spendable ones locked by scriptPublicKey
func loadUTXOs(path string, scriptPublicKey *externalapi.ScriptPublicKey, params *dagconfig.Params,
	virtualDAAScore uint64) ([]*generator.UTXO, error) {

	response := &appmessage.GetUTXOsByAddressesResponseMessage{}
	err := readJSONFile(path, response)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, errors.Errorf("the UTXOs file holds an error response: %s", response.Error.Message)
	}
	pairs, err := appmessage.RPCUTXOEntriesToUTXOs(response.Entries)
	if err != nil {
		return nil, err
	}

	utxos := make([]*generator.UTXO, 0, len(pairs))
	for _, utxo := range generator.UTXOsFromPairs(pairs) {
		if !utxo.UTXOEntry.ScriptPublicKey().Equal(scriptPublicKey) {
			log.Debugf("Skipping UTXO %s of another script", utxo.Outpoint)
			continue
		}
		if !isUTXOSpendable(utxo.UTXOEntry, virtualDAAScore, params.BlockCoinbaseMaturity) {
			log.Debugf("Skipping immature coinbase UTXO %s", utxo.Outpoint)
			continue
		}
		utxos = append(utxos, utxo)
	}
	log.Debugf("Loaded %d of %d UTXOs from %s", len(utxos), len(pairs), path)
	return utxos, nil
}

type feeSettings struct {
	feeRate     float64
	priorityFee generator.Fees
}

func (sf *SpendFlags) feeSettings() (*feeSettings, error) {
	settings := &feeSettings{feeRate: sf.FeeRate}
	if settings.feeRate == 0 && sf.FeeEstimateFile != "" {
		response := &appmessage.GetFeeEstimateResponseMessage{}
		err := readJSONFile(sf.FeeEstimateFile, response)
		if err != nil {
			return nil, err
		}
		if response.Error != nil {
			return nil, errors.Errorf("the fee estimate file holds an error response: %s", response.Error.Message)
		}
		settings.feeRate = response.PriorityFeeRate()
		log.Debugf("Using the estimated priority fee rate %f", settings.feeRate)
	}
	if sf.PriorityFee != "" {
		priorityFee, err := util.KasToSompi(sf.PriorityFee)
		if err != nil {
			return nil, err
		}
		settings.priorityFee = generator.Fees(priorityFee)
	}
	return settings, nil
}

// wallet is the key spending the UTXOs of a command along with its
// pay-to-pubkey address
type wallet struct {
	keyPair         *secp256k1.SchnorrKeyPair
	address         *util.AddressPublicKey
	scriptPublicKey *externalapi.ScriptPublicKey
}

func newWallet(keyPair *secp256k1.SchnorrKeyPair, params *dagconfig.Params) (*wallet, error) {
	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	address, err := util.NewAddressPublicKey(serializedPublicKey[:], params.Prefix)
	if err != nil {
		return nil, err
	}
	scriptPublicKey, err := txscript.PayToAddrScript(address)
	if err != nil {
		return nil, err
	}
	return &wallet{keyPair: keyPair, address: address, scriptPublicKey: scriptPublicKey}, nil
}

func (sf *SpendFlags) wallet(params *dagconfig.Params) (*wallet, error) {
	keyPair, err := sf.privateKey()
	if err != nil {
		return nil, err
	}
	return newWallet(keyPair, params)
}

func (sf *SpendFlags) utxos(w *wallet, params *dagconfig.Params) ([]*generator.UTXO, error) {
	if sf.UTXOsFile == "" {
		return nil, nil
	}
	return loadUTXOs(sf.UTXOsFile, w.scriptPublicKey, params, sf.DAAScore)
}

// printTransactions prints a submitTransaction request for every
// transaction, to be submitted in order
func printTransactions(pendingTransactions []*generator.PendingTransaction) error {
	requests := make([]*appmessage.SubmitTransactionRequestMessage, len(pendingTransactions))
	for i, pendingTransaction := range pendingTransactions {
		if !pendingTransaction.IsFullySigned() {
			return errors.Errorf("transaction %s has unsigned inputs", pendingTransaction.ID())
		}
		requests[i] = appmessage.NewSubmitTransactionRequestMessage(pendingTransaction.RPCTransaction(), false)
	}
	return printJSON(requests)
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Println(string(encoded))
	return nil
}

func logSummary(summary *generator.Summary) {
	log.Infof("Generated %d transactions on %s, spending %d UTXOs with %s KAS in fees",
		summary.NumberOfGeneratedTransactions, summary.NetworkID, summary.AggregatedUTXOs,
		util.FormatKas(summary.AggregatedFees))
	if summary.FinalTransactionID != nil {
		log.Infof("Final transaction: %s", summary.FinalTransactionID)
	}
}
