package main

import (
	"github.com/pkg/errors"

	"github.com/krcwallet/kaspacore/domain/dagconfig"
	"github.com/krcwallet/kaspacore/domain/krc20"
	"github.com/krcwallet/kaspacore/infrastructure/db/ldb"
	"github.com/krcwallet/kaspacore/util"
)

const journalStoreName = "krc20"

func openJournal(jf *JournalFlags) (*ldb.LevelDB, krc20.Journal, error) {
	db, err := ldb.NewLevelDB(jf.journalDir(), journalStoreName)
	if err != nil {
		return nil, nil, err
	}
	return db, krc20.NewLevelDBJournal(db), nil
}

func (conf *krc20CommitConfig) inscription(prefix util.Bech32Prefix) (*krc20.Inscription, error) {
	var to util.Address
	if conf.ToAddress != "" {
		var err error
		to, err = util.DecodeAddress(conf.ToAddress, prefix)
		if err != nil {
			return nil, err
		}
	}

	switch conf.Operation {
	case "deploy":
		return krc20.Deploy(&krc20.DeploySettings{
			Tick:     conf.Tick,
			Max:      conf.Max,
			Limit:    conf.Limit,
			Decimals: conf.Decimals,
			PreMint:  conf.PreMint,
			To:       to,
		})
	case "mint":
		return krc20.Mint(conf.Tick, to)
	case "transfer":
		return krc20.Transfer(conf.Tick, conf.Amount, conf.Decimals, to)
	}
	return nil, errors.Errorf("unknown KRC20 operation %q", conf.Operation)
}

func newFlow(netParams *dagconfig.Params, spend *SpendFlags, w *wallet, journal krc20.Journal,
	inscriptionAmount uint64) (*krc20.Flow, error) {

	fees, err := spend.feeSettings()
	if err != nil {
		return nil, err
	}
	return krc20.NewFlow(&krc20.FlowConfig{
		Params:            netParams,
		KeyPair:           w.keyPair,
		Journal:           journal,
		InscriptionAmount: inscriptionAmount,
		FeeRate:           fees.feeRate,
		PriorityFee:       fees.priorityFee,
		DAAScore:          spend.DAAScore,
	})
}

func krc20Commit(conf *krc20CommitConfig) error {
	netParams := conf.NetParams()
	inscription, err := conf.inscription(netParams.Prefix)
	if err != nil {
		return err
	}
	var inscriptionAmount uint64
	if conf.InscriptionAmount != "" {
		inscriptionAmount, err = util.KasToSompi(conf.InscriptionAmount)
		if err != nil {
			return err
		}
	}
	if conf.UTXOsFile == "" {
		return errors.New("--utxos-file is required to commit")
	}

	w, err := conf.wallet(netParams)
	if err != nil {
		return err
	}
	utxos, err := conf.utxos(w, netParams)
	if err != nil {
		return err
	}

	db, journal, err := openJournal(&conf.JournalFlags)
	if err != nil {
		return err
	}
	defer db.Close()

	flow, err := newFlow(netParams, &conf.SpendFlags, w, journal, inscriptionAmount)
	if err != nil {
		return err
	}
	result, err := flow.Commit(inscription, utxos)
	if err != nil {
		return err
	}

	logSummary(result.Summary)
	log.Infof("Commit transaction %s pays the inscription address %s", result.CommitTransactionID,
		result.Script.Address)
	log.Infof("Once it is accepted, reveal it with --commit-id %s", result.CommitTransactionID)
	return printTransactions(result.Transactions)
}

func krc20Reveal(conf *krc20RevealConfig) error {
	netParams := conf.NetParams()
	commitTransactionID, err := krc20.ParseCommitTransactionID(conf.CommitID)
	if err != nil {
		return err
	}

	w, err := conf.wallet(netParams)
	if err != nil {
		return err
	}
	utxos, err := conf.utxos(w, netParams)
	if err != nil {
		return err
	}

	db, journal, err := openJournal(&conf.JournalFlags)
	if err != nil {
		return err
	}
	defer db.Close()

	flow, err := newFlow(netParams, &conf.SpendFlags, w, journal, 0)
	if err != nil {
		return err
	}
	result, err := flow.Reveal(commitTransactionID, utxos)
	if err != nil {
		return err
	}

	logSummary(result.Summary)
	log.Infof("Reveal transaction %s inscribes %s %s", result.RevealTransactionID,
		result.Script.Inscription.Operation, result.Script.Inscription.Tick)
	log.Infof("Once it is accepted, forget the commit with krc20-confirm --commit-id %s", commitTransactionID)
	return printTransactions(result.Transactions)
}

func krc20Pending(conf *krc20PendingConfig) error {
	db, journal, err := openJournal(&conf.JournalFlags)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := journal.Entries()
	if err != nil {
		return err
	}
	networkID := conf.NetParams().NetworkID().String()
	pending := make([]*krc20.JournalEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.NetworkID == networkID {
			pending = append(pending, entry)
		}
	}
	return printJSON(pending)
}

func krc20Confirm(conf *krc20ConfirmConfig) error {
	commitTransactionID, err := krc20.ParseCommitTransactionID(conf.CommitID)
	if err != nil {
		return err
	}

	db, journal, err := openJournal(&conf.JournalFlags)
	if err != nil {
		return err
	}
	defer db.Close()

	return krc20.ConfirmReveal(journal, commitTransactionID)
}
