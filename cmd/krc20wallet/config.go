package main

import (
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/krcwallet/kaspacore/infrastructure/config"
	"github.com/krcwallet/kaspacore/util"
)

const (
	addressInfoSubCmd  = "address-info"
	paramsSubCmd       = "params"
	sendSubCmd         = "send"
	krc20CommitSubCmd  = "krc20-commit"
	krc20RevealSubCmd  = "krc20-reveal"
	krc20PendingSubCmd = "krc20-pending"
	krc20ConfirmSubCmd = "krc20-confirm"

	defaultLogLevel = "info"
)

var defaultJournalDir = filepath.Join(util.AppDir("krc20wallet", false), "journal")

type CommonFlags struct {
	LogLevel string `long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogFile  string `long:"logfile" description:"Also write logs to this file, rotating it when it grows"`
	config.NetworkFlags
}

func (cf *CommonFlags) common() *CommonFlags {
	return cf
}

type addressInfoConfig struct {
	Address string `long:"address" short:"a" description:"The address to decode" required:"true"`
	CommonFlags
}

type paramsConfig struct {
	CommonFlags
}

type SpendFlags struct {
	UTXOsFile       string  `long:"utxos-file" short:"u" description:"A getUtxosByAddresses response (JSON) listing the UTXOs to spend"`
	PrivateKey      string  `long:"private-key" short:"k" description:"The private key of the sender (encoded in hex). Read from the terminal if omitted"`
	FeeEstimateFile string  `long:"fee-estimate-file" description:"A getFeeEstimate response (JSON). Its priority fee rate is used"`
	FeeRate         float64 `long:"fee-rate" description:"Fee rate in sompi per gram of mass. Overrides --fee-estimate-file"`
	PriorityFee     string  `long:"priority-fee" description:"A fixed fee in Kaspa for the final transaction (e.g. 0.0001). Overrides the fee rate"`
	DAAScore        uint64  `long:"daa-score" description:"The current virtual DAA score. Decides storage mass activation and coinbase maturity. 0 means the latest rules"`
}

type sendConfig struct {
	ToAddress  string `long:"to-address" short:"t" description:"The public address to send Kaspa to" required:"true"`
	SendAmount string `long:"send-amount" short:"v" description:"An amount to send in Kaspa (e.g. 1234.12345678)" required:"true"`
	SpendFlags
	CommonFlags
}

type JournalFlags struct {
	JournalDir string `long:"journal-dir" description:"Directory of the KRC20 commit journal"`
}

type krc20CommitConfig struct {
	Operation         string `long:"op" description:"The KRC20 operation {deploy, mint, transfer}" required:"true"`
	Tick              string `long:"tick" description:"The token ticker" required:"true"`
	Amount            string `long:"amount" description:"The transferred amount, in token units"`
	Max               string `long:"max" description:"The maximum supply of a deployed token, in token units"`
	Limit             string `long:"limit" description:"The amount of a single mint of a deployed token, in token units"`
	Decimals          int32  `long:"decimals" description:"The decimal places of the token" default:"8"`
	PreMint           string `long:"pre-mint" description:"The amount pre-minted to --to-address on deploy, in token units"`
	ToAddress         string `long:"to-address" short:"t" description:"The recipient of a transfer, mint or pre-mint"`
	InscriptionAmount string `long:"inscription-amount" description:"The amount in Kaspa locked by the commit transaction (default 0.3)"`
	SpendFlags
	JournalFlags
	CommonFlags
}

type krc20RevealConfig struct {
	CommitID string `long:"commit-id" short:"c" description:"The ID of the commit transaction to reveal" required:"true"`
	SpendFlags
	JournalFlags
	CommonFlags
}

type krc20PendingConfig struct {
	JournalFlags
	CommonFlags
}

type krc20ConfirmConfig struct {
	CommitID string `long:"commit-id" short:"c" description:"The ID of the commit transaction whose reveal was accepted" required:"true"`
	JournalFlags
	CommonFlags
}

type subCommandConfig interface {
	common() *CommonFlags
}

func parseCommandLine(args []string) (subCommand string, subCommandConf subCommandConfig, err error) {
	cfg := &CommonFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)

	krc20CommitConf := &krc20CommitConfig{}
	subCommands := []struct {
		name, shortDescription, longDescription string
		conf                                    subCommandConfig
	}{
		{addressInfoSubCmd, "Decodes an address",
			"Prints the prefix, version, payload and script public key of an address", &addressInfoConfig{}},
		{paramsSubCmd, "Prints the network's consensus parameters",
			"Prints the consensus parameters of the selected network as JSON", &paramsConfig{}},
		{sendSubCmd, "Builds and signs a Kaspa payment",
			"Builds and signs the transactions paying --send-amount to --to-address and prints them in "+
				"their submittable JSON form", &sendConfig{}},
		{krc20CommitSubCmd, "Builds and signs a KRC20 commit",
			"Builds and signs the transactions locking a KRC20 inscription in a script and records the "+
				"commit in the journal", krc20CommitConf},
		{krc20RevealSubCmd, "Builds and signs a KRC20 reveal",
			"Builds and signs the transaction revealing a journaled KRC20 commit", &krc20RevealConfig{}},
		{krc20PendingSubCmd, "Lists unconfirmed KRC20 commits",
			"Lists the journaled KRC20 commits whose reveal wasn't confirmed yet, with the ID of the "+
				"reveal built for each, if any", &krc20PendingConfig{}},
		{krc20ConfirmSubCmd, "Forgets a revealed KRC20 commit",
			"Removes a KRC20 commit from the journal once its reveal was accepted by the network",
			&krc20ConfirmConfig{}},
	}
	confsByName := make(map[string]subCommandConfig, len(subCommands))
	for _, subCommand := range subCommands {
		_, err := parser.AddCommand(subCommand.name, subCommand.shortDescription, subCommand.longDescription,
			subCommand.conf)
		if err != nil {
			return "", nil, errors.WithStack(err)
		}
		confsByName[subCommand.name] = subCommand.conf
	}

	_, err = parser.ParseArgs(args)
	if err != nil {
		return "", nil, err
	}

	subCommand = parser.Command.Active.Name
	subCommandConf = confsByName[subCommand]
	common := subCommandConf.common()
	combineCommonFlags(common, cfg)
	err = common.ResolveNetwork(parser)
	if err != nil {
		return "", nil, err
	}
	if common.LogLevel == "" {
		common.LogLevel = defaultLogLevel
	}

	if subCommand == krc20CommitSubCmd {
		err := krc20CommitConf.validate()
		if err != nil {
			return "", nil, err
		}
	}
	return subCommand, subCommandConf, nil
}

func combineCommonFlags(dst, src *CommonFlags) {
	dst.Testnet = dst.Testnet || src.Testnet
	dst.Simnet = dst.Simnet || src.Simnet
	dst.Devnet = dst.Devnet || src.Devnet
	if dst.NetSuffix == 0 {
		dst.NetSuffix = src.NetSuffix
	}
	if dst.OverrideDAGParamsFile == "" {
		dst.OverrideDAGParamsFile = src.OverrideDAGParamsFile
	}
	if dst.LogLevel == "" {
		dst.LogLevel = src.LogLevel
	}
	if dst.LogFile == "" {
		dst.LogFile = src.LogFile
	}
}

func (conf *krc20CommitConfig) validate() error {
	switch conf.Operation {
	case "deploy":
		if conf.Max == "" || conf.Limit == "" {
			return errors.New("--max and --limit are required to deploy a token")
		}
	case "mint":
	case "transfer":
		if conf.Amount == "" || conf.ToAddress == "" {
			return errors.New("--amount and --to-address are required to transfer tokens")
		}
	default:
		return errors.Errorf("unknown KRC20 operation %q", conf.Operation)
	}
	return nil
}

func (jf *JournalFlags) journalDir() string {
	if jf.JournalDir == "" {
		return defaultJournalDir
	}
	return jf.JournalDir
}
