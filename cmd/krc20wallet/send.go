package main

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"

	"github.com/krcwallet/kaspacore/domain/wallet/generator"
	"github.com/krcwallet/kaspacore/util"
)

func send(conf *sendConfig) error {
	netParams := conf.NetParams()
	toAddress, err := util.DecodeAddress(conf.ToAddress, netParams.Prefix)
	if err != nil {
		return err
	}
	sendAmountSompi, err := util.KasToSompi(conf.SendAmount)
	if err != nil {
		return err
	}
	if conf.UTXOsFile == "" {
		return errors.New("--utxos-file is required to send")
	}

	w, err := conf.wallet(netParams)
	if err != nil {
		return err
	}
	utxos, err := conf.utxos(w, netParams)
	if err != nil {
		return err
	}
	fees, err := conf.feeSettings()
	if err != nil {
		return err
	}

	pendingTransactions, summary, err := generator.Generate(&generator.Settings{
		Outputs:       []*generator.PaymentOutput{{Address: toAddress, Amount: sendAmountSompi}},
		ChangeAddress: w.address,
		Entries:       utxos,
		NetworkID:     netParams.NetworkID(),
		PriorityFee:   fees.priorityFee,
		FeeRate:       fees.feeRate,
		DAAScore:      conf.DAAScore,
	})
	if err != nil {
		return err
	}
	for _, pendingTransaction := range pendingTransactions {
		err := pendingTransaction.Sign([]*secp256k1.SchnorrKeyPair{w.keyPair})
		if err != nil {
			return err
		}
	}

	logSummary(summary)
	log.Infof("Sending %s KAS to %s", util.FormatKas(sendAmountSompi), toAddress)
	return printTransactions(pendingTransactions)
}
