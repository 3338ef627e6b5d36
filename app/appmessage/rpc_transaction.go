package appmessage

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RPCTransaction is an RPC representation of a transaction. Numbers which
// may exceed 2^53 are encoded as decimal strings and bytes as hex.
type RPCTransaction struct {
	ID           string                  `json:"id,omitempty"`
	Version      uint16                  `json:"version"`
	Inputs       []*RPCTransactionInput  `json:"inputs"`
	Outputs      []*RPCTransactionOutput `json:"outputs"`
	LockTime     uint64                  `json:"lockTime,string"`
	SubnetworkID string                  `json:"subnetworkId"`
	Gas          uint64                  `json:"gas,string"`
	Payload      string                  `json:"payload"`
	Mass         uint64                  `json:"mass,string"`
}

// RPCTransactionInput is an RPC representation of a transaction input
type RPCTransactionInput struct {
	PreviousOutpoint *RPCOutpoint `json:"previousOutpoint"`
	SignatureScript  string       `json:"signatureScript"`
	Sequence         uint64       `json:"sequence,string"`
	SigOpCount       byte         `json:"sigOpCount"`
}

// RPCScriptPublicKey is an RPC representation of a script public key
type RPCScriptPublicKey struct {
	Version uint16 `json:"version"`
	Script  string `json:"script"`
}

// RPCTransactionOutput is an RPC representation of a transaction output
type RPCTransactionOutput struct {
	Amount          uint64              `json:"value,string"`
	ScriptPublicKey *RPCScriptPublicKey `json:"scriptPublicKey"`
}

// RPCOutpoint is an RPC representation of an outpoint
type RPCOutpoint struct {
	TransactionID string `json:"transactionId"`
	Index         uint32 `json:"index"`
}

// RPCUTXOScriptPublicKey is the script public key of a UTXO entry, as
// returned by getUtxosByAddresses
type RPCUTXOScriptPublicKey struct {
	Version         uint16 `json:"version"`
	ScriptPublicKey string `json:"scriptPublicKey"`
}

// RPCUTXOEntry is an RPC representation of a UTXO entry
type RPCUTXOEntry struct {
	Amount          FlexibleUint64          `json:"amount"`
	ScriptPublicKey *RPCUTXOScriptPublicKey `json:"scriptPublicKey"`
	BlockDAAScore   FlexibleUint64          `json:"blockDaaScore"`
	IsCoinbase      bool                    `json:"isCoinbase"`
}

// FlexibleUint64 is a uint64 which unmarshals from either a JSON number
// or a decimal string, and marshals to a decimal string
type FlexibleUint64 uint64

// MarshalJSON implements json.Marshaler
func (n FlexibleUint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(n), 10))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (n *FlexibleUint64) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "%s is not an unsigned 64 bit integer", data)
	}
	*n = FlexibleUint64(value)
	return nil
}
