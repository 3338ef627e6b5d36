package appmessage

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/consensushashing"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/subnetworks"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/utxo"
	"github.com/stretchr/testify/require"
)

func testDomainTransaction() *externalapi.DomainTransaction {
	scriptPublicKey := &externalapi.ScriptPublicKey{Script: []byte{0x20, 0x01, 0xac}, Version: 0}
	return &externalapi.DomainTransaction{
		Version: 0,
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: externalapi.DomainOutpoint{
				TransactionID: *externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{0x01}),
				Index:         2,
			},
			SignatureScript: []byte{0x41, 0x02},
			Sequence:        1 << 60,
			SigOpCount:      1,
			UTXOEntry:       utxo.NewUTXOEntry(500, scriptPublicKey, false, 10),
		}},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: 1 << 62, ScriptPublicKey: scriptPublicKey},
		},
		LockTime:     1 << 55,
		SubnetworkID: subnetworks.SubnetworkIDNative,
		Gas:          3,
		Payload:      []byte{0xca, 0xfe},
		Mass:         2036,
	}
}

func TestDomainTransactionToRPCTransaction(t *testing.T) {
	transaction := testDomainTransaction()
	rpcTransaction := DomainTransactionToRPCTransaction(transaction)

	require.Equal(t, consensushashing.TransactionID(transaction).String(), rpcTransaction.ID)
	require.Equal(t, uint64(3), rpcTransaction.Gas)
	require.Equal(t, uint64(1<<55), rpcTransaction.LockTime)
	require.Equal(t, uint64(2036), rpcTransaction.Mass)
	require.Equal(t, "cafe", rpcTransaction.Payload)
	require.Equal(t, "4102", rpcTransaction.Inputs[0].SignatureScript)
	require.Equal(t, "2001ac", rpcTransaction.Outputs[0].ScriptPublicKey.Script)
	require.Equal(t, "0000000000000000000000000000000000000000", rpcTransaction.SubnetworkID)

	roundTripped, err := RPCTransactionToDomainTransaction(rpcTransaction)
	require.NoError(t, err)
	// UTXO entries don't travel over RPC
	transaction.Inputs[0].UTXOEntry = nil
	require.True(t, transaction.Equal(roundTripped), "got %+v", roundTripped)
}

func TestRPCTransactionJSON(t *testing.T) {
	request := NewSubmitTransactionRequestMessage(DomainTransactionToRPCTransaction(testDomainTransaction()), false)
	require.Equal(t, CmdSubmitTransactionRequestMessage, request.Command())

	encoded, err := json.Marshal(request)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, false, decoded["allowOrphan"])

	rpcTransaction := decoded["transaction"].(map[string]interface{})
	require.Equal(t, "36028797018963968", rpcTransaction["lockTime"])
	require.Equal(t, "3", rpcTransaction["gas"])
	require.Equal(t, "2036", rpcTransaction["mass"])

	input := rpcTransaction["inputs"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "1152921504606846976", input["sequence"])
	require.Equal(t, float64(1), input["sigOpCount"])
	outpoint := input["previousOutpoint"].(map[string]interface{})
	require.Equal(t, float64(2), outpoint["index"])

	output := rpcTransaction["outputs"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "4611686018427387904", output["value"])

	var roundTripped SubmitTransactionRequestMessage
	require.NoError(t, json.Unmarshal(encoded, &roundTripped))
	require.Equal(t, request, &roundTripped)
}

func TestGetUTXOsByAddressesResponse(t *testing.T) {
	const response = `{"entries": [
		{"address": "kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e",
		 "outpoint": {"transactionId": "0100000000000000000000000000000000000000000000000000000000000000", "index": 1},
		 "utxoEntry": {"amount": "100000000", "scriptPublicKey": {"version": 0, "scriptPublicKey": "2001ac"},
		               "blockDaaScore": 1234, "isCoinbase": false}},
		{"address": "kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e",
		 "outpoint": {"transactionId": "0200000000000000000000000000000000000000000000000000000000000000", "index": 0},
		 "utxoEntry": {"amount": 5000, "scriptPublicKey": {"version": 0, "scriptPublicKey": "2001ac"},
		               "blockDaaScore": "99", "isCoinbase": true}}
	]}`

	var message GetUTXOsByAddressesResponseMessage
	require.NoError(t, json.Unmarshal([]byte(response), &message))
	require.Nil(t, message.Error)

	pairs, err := RPCUTXOEntriesToUTXOs(message.Entries)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	require.Equal(t, uint32(1), pairs[0].Outpoint.Index)
	require.Equal(t, byte(0x01), pairs[0].Outpoint.TransactionID.ByteArray()[0])
	require.Equal(t, uint64(100_000_000), pairs[0].UTXOEntry.Amount())
	require.Equal(t, uint64(1234), pairs[0].UTXOEntry.BlockDAAScore())
	require.Equal(t, []byte{0x20, 0x01, 0xac}, pairs[0].UTXOEntry.ScriptPublicKey().Script)
	require.False(t, pairs[0].UTXOEntry.IsCoinbase())

	require.Equal(t, uint64(5000), pairs[1].UTXOEntry.Amount())
	require.Equal(t, uint64(99), pairs[1].UTXOEntry.BlockDAAScore())
	require.True(t, pairs[1].UTXOEntry.IsCoinbase())
}

func TestRPCUTXOEntriesToUTXOsErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry *UTXOsByAddressesEntry
	}{
		{
			name:  "missing outpoint",
			entry: &UTXOsByAddressesEntry{UTXOEntry: &RPCUTXOEntry{ScriptPublicKey: &RPCUTXOScriptPublicKey{}}},
		},
		{
			name: "malformed transaction ID",
			entry: &UTXOsByAddressesEntry{
				Outpoint:  &RPCOutpoint{TransactionID: "zz"},
				UTXOEntry: &RPCUTXOEntry{ScriptPublicKey: &RPCUTXOScriptPublicKey{}},
			},
		},
		{
			name: "missing script public key",
			entry: &UTXOsByAddressesEntry{
				Outpoint:  &RPCOutpoint{TransactionID: "0100000000000000000000000000000000000000000000000000000000000000"},
				UTXOEntry: &RPCUTXOEntry{},
			},
		},
		{
			name: "malformed script public key",
			entry: &UTXOsByAddressesEntry{
				Outpoint:  &RPCOutpoint{TransactionID: "0100000000000000000000000000000000000000000000000000000000000000"},
				UTXOEntry: &RPCUTXOEntry{ScriptPublicKey: &RPCUTXOScriptPublicKey{ScriptPublicKey: "xyz"}},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := RPCUTXOEntriesToUTXOs([]*UTXOsByAddressesEntry{test.entry})
			require.Error(t, err)
		})
	}
}

func TestFlexibleUint64(t *testing.T) {
	tests := []struct {
		input       string
		expected    FlexibleUint64
		expectError bool
	}{
		{input: `42`, expected: 42},
		{input: `"42"`, expected: 42},
		{input: `"18446744073709551615"`, expected: 18446744073709551615},
		{input: `-1`, expectError: true},
		{input: `"1.5"`, expectError: true},
		{input: `"abc"`, expectError: true},
	}

	for _, test := range tests {
		var value FlexibleUint64
		err := json.Unmarshal([]byte(test.input), &value)
		if test.expectError {
			require.Error(t, err, "input %s", test.input)
			continue
		}
		require.NoError(t, err, "input %s", test.input)
		require.Equal(t, test.expected, value)

		encoded, err := json.Marshal(value)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("%q", fmt.Sprint(uint64(test.expected))), string(encoded))
	}
}

func TestGetFeeEstimateResponse(t *testing.T) {
	const response = `{"estimate": {"priorityBucket": {"feerate": 2.5, "estimatedSeconds": 1.0},
		"normalBuckets": [{"feerate": 1.5, "estimatedSeconds": 10}],
		"lowBuckets": [{"feerate": 1, "estimatedSeconds": 60}]}}`

	var message GetFeeEstimateResponseMessage
	require.NoError(t, json.Unmarshal([]byte(response), &message))
	require.Equal(t, 2.5, message.PriorityFeeRate())
	require.Len(t, message.Estimate.NormalBuckets, 1)
	require.Equal(t, 60.0, message.Estimate.LowBuckets[0].EstimatedSeconds)
	require.Equal(t, CmdGetFeeEstimateResponseMessage, message.Command())
}

func TestRPCErrorResponse(t *testing.T) {
	var message SubmitTransactionResponseMessage
	require.NoError(t, json.Unmarshal([]byte(`{"error": {"message": "orphan transaction"}}`), &message))
	require.NotNil(t, message.Error)
	require.Equal(t, "orphan transaction", message.Error.Error())
	require.Empty(t, message.TransactionID)
	_, err := message.Result()
	require.EqualError(t, err, "orphan transaction")

	accepted := SubmitTransactionResponseMessage{TransactionID: "abcd"}
	transactionID, err := accepted.Result()
	require.NoError(t, err)
	require.Equal(t, "abcd", transactionID)

	require.Equal(t, "bad input 3", RPCErrorf("bad input %d", 3).Error())
}

func TestMessageCommandMethods(t *testing.T) {
	require.Equal(t, "getUtxosByAddresses", NewGetUTXOsByAddressesRequestMessage(nil).Command().Method())
	require.Equal(t, "getFeeEstimate", NewGetFeeEstimateRequestMessage().Command().Method())
	require.Equal(t, "submitTransaction", NewSubmitTransactionRequestMessage(nil, false).Command().Method())
}
