package consensushashing

import (
	"testing"

	"github.com/krcwallet/kaspacore/domain/consensus/model/externalapi"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/subnetworks"
	"github.com/krcwallet/kaspacore/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

func testScriptPublicKey() *externalapi.ScriptPublicKey {
	script := make([]byte, 0, 34)
	script = append(script, 0x20)
	for i := byte(0); i < 32; i++ {
		script = append(script, i)
	}
	script = append(script, 0xac)
	return &externalapi.ScriptPublicKey{Script: script, Version: 0}
}

func testScriptHashScriptPublicKey() *externalapi.ScriptPublicKey {
	script := []byte{0xaa, 0x20}
	script = append(script, make([]byte, 32)...)
	script = append(script, 0x87)
	return &externalapi.ScriptPublicKey{Script: script, Version: 0}
}

func testTransaction(t *testing.T) *externalapi.DomainTransaction {
	previousID, err := externalapi.NewDomainTransactionIDFromByteSlice(
		mustDecodeHash(t, "59b3d6dc6cdc660c389c3fdb5704c48c598d279cdf1bab54182db586a4c95dd5").ByteSlice())
	if err != nil {
		t.Fatalf("NewDomainTransactionIDFromByteSlice: %s", err)
	}

	return &externalapi.DomainTransaction{
		Version: 0,
		Inputs: []*externalapi.DomainTransactionInput{
			{
				PreviousOutpoint: externalapi.DomainOutpoint{TransactionID: *previousID, Index: 2},
				SignatureScript:  []byte{1, 2},
				Sequence:         7,
				SigOpCount:       1,
				UTXOEntry:        utxo.NewUTXOEntry(100_000_000, testScriptPublicKey(), false, 0),
			},
			{
				PreviousOutpoint: externalapi.DomainOutpoint{TransactionID: *previousID, Index: 3},
				SignatureScript:  []byte{},
				Sequence:         8,
				SigOpCount:       1,
				UTXOEntry:        utxo.NewUTXOEntry(200_000_000, testScriptPublicKey(), false, 0),
			},
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: 150_000_000, ScriptPublicKey: testScriptPublicKey()},
			{Value: 149_990_000, ScriptPublicKey: testScriptHashScriptPublicKey()},
		},
		LockTime:     54,
		SubnetworkID: subnetworks.SubnetworkIDNative,
		Gas:          0,
		Payload:      []byte{},
		Mass:         2000,
	}
}

func mustDecodeHash(t *testing.T, str string) *externalapi.DomainHash {
	hash, err := externalapi.NewDomainHashFromString(str)
	if err != nil {
		t.Fatalf("NewDomainHashFromString: %s", err)
	}
	return hash
}

func TestTransactionHashAndID(t *testing.T) {
	emptyTx := &externalapi.DomainTransaction{
		Inputs:       []*externalapi.DomainTransactionInput{},
		Outputs:      []*externalapi.DomainTransactionOutput{},
		SubnetworkID: subnetworks.SubnetworkIDNative,
		Payload:      []byte{},
	}

	coinbaseTx := emptyTx.Clone()
	coinbaseTx.SubnetworkID = subnetworks.SubnetworkIDCoinbase
	coinbaseTx.Payload = []byte{1}

	tests := []struct {
		name             string
		tx               *externalapi.DomainTransaction
		expectedID       string
		expectedHash     string
		expectedMassHash string
	}{
		{
			name:             "empty transaction",
			tx:               emptyTx,
			expectedID:       "2c18d5e59ca8fc4c23d9560da3bf738a8f40935c11c162017fbf2c907b7e665c",
			expectedHash:     "c9e29784564c269ce2faaffd3487cb4684383018ace11133de082dce4bb88b0b",
			expectedMassHash: "c9e29784564c269ce2faaffd3487cb4684383018ace11133de082dce4bb88b0b",
		},
		{
			name:             "two inputs, two outputs",
			tx:               testTransaction(t),
			expectedID:       "cda0568afeb77dbfb635db4560e91c96b08068c6efbc115e162df2866c6fd7c4",
			expectedHash:     "39a0e12bdba815471f3383e9cc2b58c0de1f00691d21422f8f3e0b81171dc7c0",
			expectedMassHash: "7afc101440df9ed17697960c67a44d22a9478f9bdf07a2113cbeee5617abfbc3",
		},
	}

	for _, test := range tests {
		if id := TransactionID(test.tx); id.String() != test.expectedID {
			t.Errorf("%s: expected ID %s, got %s", test.name, test.expectedID, id)
		}
		if hash := TransactionHash(test.tx, false); hash.String() != test.expectedHash {
			t.Errorf("%s: expected hash %s, got %s", test.name, test.expectedHash, hash)
		}
		if hash := TransactionHash(test.tx, true); hash.String() != test.expectedMassHash {
			t.Errorf("%s: expected hash with mass %s, got %s", test.name, test.expectedMassHash, hash)
		}
	}

	expectedCoinbaseID := "a82dc3741f839a0a973ad89489226a53beb26a475df9d5f6f36168af732d3593"
	if id := TransactionID(coinbaseTx); id.String() != expectedCoinbaseID {
		t.Errorf("coinbase: expected ID %s, got %s", expectedCoinbaseID, id)
	}
}

func TestTransactionIDIgnoresSignatureScripts(t *testing.T) {
	tx := testTransaction(t)
	originalID := TransactionID(tx)
	originalHash := TransactionHash(tx, false)

	scripts := [][]byte{{9, 9, 9}, {0x41}, make([]byte, 200)}
	for _, script := range scripts {
		modified := tx.Clone()
		modified.Inputs[0].SignatureScript = script

		if id := TransactionID(modified); !id.Equal(originalID) {
			t.Errorf("signature script %x changed the transaction ID from %s to %s", script, originalID, id)
		}
		if hash := TransactionHash(modified, false); hash.Equal(originalHash) {
			t.Errorf("signature script %x did not change the transaction hash", script)
		}
	}

	expectedModifiedHash := "1f0bf1663ab00e66699450abe94ff8336d624e95479ed50063b871cf9ff21b07"
	modified := tx.Clone()
	modified.Inputs[0].SignatureScript = []byte{9, 9, 9}
	if hash := TransactionHash(modified, false); hash.String() != expectedModifiedHash {
		t.Errorf("expected hash %s, got %s", expectedModifiedHash, hash)
	}
}

func TestTransactionIDIncludesCoinbaseSignatureScripts(t *testing.T) {
	tx := testTransaction(t)
	tx.SubnetworkID = subnetworks.SubnetworkIDCoinbase
	originalID := TransactionID(tx)

	modified := tx.Clone()
	modified.Inputs[0].SignatureScript = []byte{9, 9, 9}
	if id := TransactionID(modified); id.Equal(originalID) {
		t.Fatalf("coinbase transaction ID did not commit to its signature scripts")
	}
}

func TestTransactionIDs(t *testing.T) {
	tx := testTransaction(t)
	ids := TransactionIDs([]*externalapi.DomainTransaction{tx, tx})
	if len(ids) != 2 || !ids[0].Equal(ids[1]) || !ids[0].Equal(TransactionID(tx)) {
		t.Fatalf("unexpected transaction IDs %v", ids)
	}
}

func TestCalculateSignatureHashSchnorr(t *testing.T) {
	tx := testTransaction(t)

	tests := []struct {
		hashType SigHashType
		expected [2]string
	}{
		{SigHashAll, [2]string{
			"6361f6d6dc608e8a03d939d03a05a6e71b16f2c6b035ebb95b27808a5c2c470c",
			"0961af757bba8472977aa2b66407501d605d3da81a2aaa5212af88878f20aced"}},
		{SigHashNone, [2]string{
			"604821cf5a6dbed84dac4c9d35f0c897d327aaa4396d424b527a22a78bafb94d",
			"e45edc8453bea47157d844739810f5f826ff0273694bfe0a82e1114a3dc86030"}},
		{SigHashSingle, [2]string{
			"c66a572db363dc28c88e625650cf80a3665d1f3cc9f343614f9d258b20779ceb",
			"678581f330f48e066ceec1afdc425212e697fd1a2ca82b673a09d75c44d1ae45"}},
		{SigHashAll | SigHashAnyOneCanPay, [2]string{
			"b5885af9c073db2160a5ea22d0610dcdb9c354b63babb70ec03c4233b8b41180",
			"a8135836d1b869f3ab5f3ecc12fd11faa2c9af46cf6bc0f5d687a707629cd5be"}},
		{SigHashNone | SigHashAnyOneCanPay, [2]string{
			"63d2c98a6efde5716b1d2243bdd0c55e021810e2daae23706726661f73dbd39c",
			"a1dddb3e1eab1c1b8cf53d256d800b36037b8bb22fcf22d700384493d0ad0fa4"}},
		{SigHashSingle | SigHashAnyOneCanPay, [2]string{
			"d3bc86930adae2644747012884d2cc01a80ceca6cec66632d0c047b23eb64568",
			"12b3bb268204f4de875990a69ab33c667aaf4f554167dc410639c7e1f333df2a"}},
	}

	for _, test := range tests {
		reusedValues := &SighashReusedValues{}
		for inputIndex := range tx.Inputs {
			hash, err := CalculateSignatureHashSchnorr(tx, inputIndex, test.hashType, reusedValues)
			if err != nil {
				t.Fatalf("hash type %d, input %d: %s", test.hashType, inputIndex, err)
			}
			if hash.String() != test.expected[inputIndex] {
				t.Errorf("hash type %d, input %d: expected %s, got %s",
					test.hashType, inputIndex, test.expected[inputIndex], hash)
			}

			// Without reused values the result must be the same
			fresh, err := CalculateSignatureHashSchnorr(tx, inputIndex, test.hashType, nil)
			if err != nil {
				t.Fatalf("hash type %d, input %d: %s", test.hashType, inputIndex, err)
			}
			if !fresh.Equal(hash) {
				t.Errorf("hash type %d, input %d: reused values changed the signature hash", test.hashType, inputIndex)
			}
		}
	}
}

func TestCalculateSignatureHashPayload(t *testing.T) {
	tx := testTransaction(t)
	tx.Payload = []byte{1, 2}

	expected := "e3e7570209d86f99fa588fec80754ddce8d879dc8c2e3e16f32f6501e5117b99"
	hash, err := CalculateSignatureHashSchnorr(tx, 0, SigHashAll, nil)
	if err != nil {
		t.Fatalf("CalculateSignatureHashSchnorr: %s", err)
	}
	if hash.String() != expected {
		t.Fatalf("expected %s, got %s", expected, hash)
	}
}

func TestCalculateSignatureHashECDSA(t *testing.T) {
	tx := testTransaction(t)

	expected := "ead3806bbeb7d8f170bdf08c42c909b2cd7fe0b7467c0ddaa922635574f67715"
	hash, err := CalculateSignatureHashECDSA(tx, 0, SigHashAll, nil)
	if err != nil {
		t.Fatalf("CalculateSignatureHashECDSA: %s", err)
	}
	if hash.String() != expected {
		t.Fatalf("expected %s, got %s", expected, hash)
	}
}

func TestCalculateSignatureHashErrors(t *testing.T) {
	tx := testTransaction(t)
	withoutEntry := tx.Clone()
	withoutEntry.Inputs[1].UTXOEntry = nil

	tests := []struct {
		name       string
		tx         *externalapi.DomainTransaction
		inputIndex int
		hashType   SigHashType
	}{
		{"negative index", tx, -1, SigHashAll},
		{"index out of range", tx, 2, SigHashAll},
		{"non standard hash type", tx, 0, SigHashType(3)},
		{"zero hash type", tx, 0, SigHashType(0)},
		{"missing UTXO entry", withoutEntry, 1, SigHashAll},
	}

	for _, test := range tests {
		_, err := CalculateSignatureHashSchnorr(test.tx, test.inputIndex, test.hashType, nil)
		if !errors.Is(err, ErrSerialization) {
			t.Errorf("%s: expected ErrSerialization, got %v", test.name, err)
		}
	}
}
